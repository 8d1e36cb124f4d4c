package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/certkit/core/certstore"
)

var _ certstore.Locker = (*Locker)(nil)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockerConfig controls the distributed lock.
type LockerConfig struct {
	// TTL must exceed the longest issuance run (polling timeout included).
	TTL           time.Duration `env:"REDIS_LOCK_TTL" envDefault:"15m"`
	RetryInterval time.Duration `env:"REDIS_LOCK_RETRY_INTERVAL" envDefault:"500ms"`
	Prefix        string        `env:"REDIS_LOCK_PREFIX" envDefault:"certkit:lock:"`
}

// Locker is a certstore.Locker shared by every instance using the same Redis.
type Locker struct {
	client redis.UniversalClient
	cfg    LockerConfig
}

// NewLocker creates a Redis lock.
func NewLocker(client redis.UniversalClient, cfg LockerConfig) *Locker {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &Locker{client: client, cfg: cfg}
}

// Lock acquires key with SET NX PX, retrying until ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (certstore.UnlockFunc, error) {
	name := l.cfg.Prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, name, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		wait := time.NewTimer(l.cfg.RetryInterval)
		select {
		case <-wait.C:
		case <-ctx.Done():
			wait.Stop()
			return nil, ctx.Err()
		}
	}

	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{name}, token).Int64()
		if err != nil {
			return fmt.Errorf("redis unlock %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrLockNotHeld, key)
		}
		return nil
	}, nil
}
