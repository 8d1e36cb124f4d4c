package server_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certkit/core/server"
)

func hello(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, "hello")
}

func TestServerStartBindsSynchronously(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	require.NoError(t, srv.Start(context.Background(), http.HandlerFunc(hello)))
	t.Cleanup(func() { _ = srv.Stop() })

	assert.True(t, srv.Running())
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	// No retry loop: the port accepts connections as soon as Start returns.
	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestServerStartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	require.NoError(t, srv.Start(context.Background(), http.HandlerFunc(hello)))
	t.Cleanup(func() { _ = srv.Stop() })

	err := srv.Start(context.Background(), http.HandlerFunc(hello))
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
}

func TestServerStartPortInUse(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv := server.New(ln.Addr().String())
	err = srv.Start(context.Background(), http.HandlerFunc(hello))
	assert.ErrorIs(t, err, server.ErrListen)
	assert.False(t, srv.Running())
}

func TestServerStartMissingAddress(t *testing.T) {
	t.Parallel()

	err := server.New("").Start(context.Background(), http.HandlerFunc(hello))
	assert.ErrorIs(t, err, server.ErrMissingAddress)
}

func TestServerStopReleasesPort(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	require.NoError(t, srv.Start(context.Background(), http.HandlerFunc(hello)))
	addr := srv.Addr()

	require.NoError(t, srv.Stop())
	assert.False(t, srv.Running())

	select {
	case err := <-srv.Done():
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve loop did not exit")
	}

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err, "port must be free after Stop")
	_ = ln.Close()

	// Stopping again is a no-op.
	assert.NoError(t, srv.Stop())
}

func TestServerStopBeforeStart(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	assert.NoError(t, srv.Stop())
	assert.Nil(t, srv.Done())
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx, http.HandlerFunc(hello))() }()

	require.Eventually(t, srv.Running, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.False(t, srv.Running())
}

func TestServerTLS(t *testing.T) {
	t.Parallel()

	bundle := selfSignedBundle(t, "example.com", time.Now().Add(24*time.Hour))
	tlsConfig, err := server.BundleTLSConfig(bundle)
	require.NoError(t, err)

	srv := server.New("127.0.0.1:0", server.WithTLS(tlsConfig))
	require.NoError(t, srv.Start(context.Background(), http.HandlerFunc(hello)))
	t.Cleanup(func() { _ = srv.Stop() })

	leaf, err := bundle.Leaf()
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pool, ServerName: "example.com"},
	}}
	resp, err := client.Get("https://" + srv.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.TLS)
	assert.Equal(t, "example.com", resp.TLS.PeerCertificates[0].Subject.CommonName)
}
