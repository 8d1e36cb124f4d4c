package main

import (
	"github.com/dmitrymomot/certkit/core/issuer"
	"github.com/dmitrymomot/certkit/core/server"
	"github.com/dmitrymomot/certkit/core/zerossl"
	"github.com/dmitrymomot/certkit/integration/database/pg"
	"github.com/dmitrymomot/certkit/integration/database/redis"
	"github.com/dmitrymomot/certkit/integration/storage/s3"
	"github.com/dmitrymomot/certkit/pkg/transport"
)

// Backend names accepted by CERTKIT_BACKEND.
const (
	backendDir      = "dir"
	backendS3       = "s3"
	backendRedis    = "redis"
	backendPostgres = "postgres"
)

// Config is everything the command reads from the environment.
type Config struct {
	LogLevel  string `env:"CERTKIT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CERTKIT_LOG_FORMAT" envDefault:"text"`

	Backend    string `env:"CERTKIT_BACKEND" envDefault:"dir"`
	CacheDir   string `env:"CERTKIT_CACHE_DIR" envDefault:"certs"`
	// FlatLayout stores one bundle as tls.cert, ca.cert and tls.key directly
	// under the cache root instead of one directory per domain.
	FlatLayout bool `env:"CERTKIT_FLAT_LAYOUT" envDefault:"false"`

	ZeroSSL   zerossl.Config
	Issuer    issuer.Config
	Server    server.Config
	Transport transport.Config
	S3        s3.Config
	Redis     redis.Config
	RedisLock redis.LockerConfig
	Postgres  pg.Config
}
