// Package health provides liveness and readiness HTTP probes.
//
//	mux := http.NewServeMux()
//	health.Mount(mux, log, redis.Healthcheck(client), pg.Healthcheck(pool))
//
// Liveness never inspects dependencies. Readiness runs each check with a
// DefaultCheckTimeout deadline and answers 503 on the first failure.
package health
