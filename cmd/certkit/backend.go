package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"github.com/dmitrymomot/certkit/core/certstore"
	"github.com/dmitrymomot/certkit/core/health"
	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/integration/database/pg"
	"github.com/dmitrymomot/certkit/integration/database/redis"
	"github.com/dmitrymomot/certkit/integration/storage/s3"
)

// backend is an opened certificate store plus whatever it needs to shut down.
type backend struct {
	store  *certstore.Store
	locker certstore.Locker
	checks []health.Check
	close  func()
}

func openBackend(ctx context.Context, cfg Config, log *slog.Logger) (*backend, error) {
	var storeOpts []certstore.Option
	storeOpts = append(storeOpts, certstore.WithLogger(log.With(logger.Component("certstore"))))
	if cfg.FlatLayout {
		storeOpts = append(storeOpts, certstore.WithFlatLayout())
	}

	b := &backend{close: func() {}}
	var cache autocert.Cache

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case backendDir, "":
		fc, err := certstore.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		cache = fc

	case backendS3:
		c, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		cache = c

	case backendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		cache = redis.NewCache(client, redis.WithScanBatchSize(cfg.Redis.ScanBatchSize))
		b.locker = redis.NewLocker(client, cfg.RedisLock)
		b.checks = append(b.checks, redis.Healthcheck(client))
		b.close = func() { _ = client.Close() }

	case backendPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg.Postgres, log.With(logger.Component("migrations"))); err != nil {
			pool.Close()
			return nil, err
		}
		cache = pg.NewCache(pool)
		b.checks = append(b.checks, pg.Healthcheck(pool))
		b.close = pool.Close

	default:
		return nil, fmt.Errorf("unknown backend %q (want dir, s3, redis or postgres)", cfg.Backend)
	}

	b.store = certstore.New(cache, storeOpts...)
	return b, nil
}
