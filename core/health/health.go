package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/certkit/core/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// DefaultCheckTimeout bounds a single readiness probe.
const DefaultCheckTimeout = 5 * time.Second

// Liveness always answers 200 "ALIVE".
func Liveness() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, r, http.StatusOK, "ALIVE")
	})
}

// Readiness runs every check in order and answers 200 "READY" when all pass,
// 503 otherwise. A nil log discards failures.
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), DefaultCheckTimeout)
		defer cancel()

		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				writeText(w, r, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		writeText(w, r, http.StatusOK, "READY")
	})
}

// Mount registers /health/live and /health/ready on mux.
func Mount(mux *http.ServeMux, log *slog.Logger, checks ...Check) {
	mux.Handle("GET /health/live", Liveness())
	mux.Handle("GET /health/ready", Readiness(log, checks...))
}

func writeText(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(body))
	}
}
