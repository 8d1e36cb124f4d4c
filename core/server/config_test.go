package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certkit/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8443", srv.Addr())
	})

	t.Run("custom values with overriding option", func(t *testing.T) {
		cfg := server.Config{
			Addr:            "127.0.0.1:9000",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		}
		srv, err := server.NewFromConfig(cfg, server.WithShutdownTimeout(time.Second))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", srv.Addr())
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("only one TLS file", func(t *testing.T) {
		_, err := server.NewFromConfig(server.Config{Addr: ":0", TLSCertFile: "cert.pem"})
		assert.ErrorIs(t, err, server.ErrEmptyCertPath)
	})

	t.Run("missing TLS files", func(t *testing.T) {
		_, err := server.NewFromConfig(server.Config{
			Addr:        ":0",
			TLSCertFile: "/nonexistent/cert.pem",
			TLSKeyFile:  "/nonexistent/key.pem",
		})
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})

	t.Run("TLS files", func(t *testing.T) {
		bundle := selfSignedBundle(t, "example.com", time.Now().Add(time.Hour))
		dir := t.TempDir()
		certFile := filepath.Join(dir, "tls.cert")
		keyFile := filepath.Join(dir, "tls.key")
		require.NoError(t, os.WriteFile(certFile, []byte(bundle.Certificate), 0o600))
		require.NoError(t, os.WriteFile(keyFile, []byte(bundle.PrivateKey), 0o600))

		srv, err := server.NewFromConfig(server.Config{Addr: ":0", TLSCertFile: certFile, TLSKeyFile: keyFile})
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})
}
