// Package redis connects to Redis and provides a certificate cache and a
// distributed per-domain lock on top of it.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := certstore.New(redis.NewCache(client))
//	iss := issuer.New(cfg, ca, store, issuer.WithLocker(redis.NewLocker(client, redis.LockerConfig{})))
//
// Connect validates the URL (redis:// or rediss://), then pings with linear
// backoff until the server answers, RetryAttempts are spent or
// ConnectTimeout passes.
//
// The lock is a single key set with SET NX PX and a random token; release
// runs a Lua compare-and-delete so an expired lock taken over by another
// instance is never removed. Its TTL must outlive the longest issuance run.
package redis
