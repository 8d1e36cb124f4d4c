package server_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certkit/core/server"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []server.Option
	}{
		{"no options", nil},
		{"nil logger falls back to discard", []server.Option{server.WithLogger(nil)}},
		{"custom logger", []server.Option{server.WithLogger(slog.Default().With("test", "value"))}},
		{"timeouts", []server.Option{
			server.WithReadTimeout(time.Second),
			server.WithReadHeaderTimeout(time.Second),
			server.WithWriteTimeout(time.Second),
			server.WithIdleTimeout(time.Second),
			server.WithShutdownTimeout(time.Second),
		}},
		{"header limit", []server.Option{server.WithMaxHeaderBytes(4096)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := server.New("127.0.0.1:0", tt.opts...)
			require.NotNil(t, srv)
			require.NoError(t, srv.Start(context.Background(), http.HandlerFunc(hello)))
			assert.NoError(t, srv.Stop())
		})
	}
}
