package server_test

import (
	"context"
	"crypto/tls"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certkit/core/server"
	"github.com/dmitrymomot/certkit/pkg/pki"
)

func TestDefaultTLSConfig(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultTLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Contains(t, cfg.CipherSuites, uint16(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256))
	assert.Contains(t, cfg.CurvePreferences, tls.X25519)

	modern := server.ModernTLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS13), modern.MinVersion)
	assert.Empty(t, modern.CipherSuites)
}

func TestNewTLSConfig(t *testing.T) {
	t.Parallel()

	cfg := server.NewTLSConfig(
		server.WithTLSMinVersion(tls.VersionTLS13),
		server.WithTLSNextProtos("h2", "http/1.1"),
	)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	assert.Equal(t, []string{"h2", "http/1.1"}, cfg.NextProtos)
}

func TestBundleTLSConfig(t *testing.T) {
	t.Parallel()

	bundle := selfSignedBundle(t, "example.com", time.Now().Add(time.Hour))
	cfg, err := server.BundleTLSConfig(bundle)
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)

	_, err = server.BundleTLSConfig(pki.Bundle{Certificate: bundle.Certificate})
	assert.ErrorIs(t, err, server.ErrFailedLoadCert)
}

func TestFileTLSConfigEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := server.FileTLSConfig("", "key.pem")
	assert.ErrorIs(t, err, server.ErrEmptyCertPath)
}

func TestCertificateCache(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	bundle := selfSignedBundle(t, "example.com", time.Now().Add(90*24*time.Hour))
	cache := server.NewCertificateCache(func(ctx context.Context, domain string) (pki.Bundle, error) {
		loads.Add(1)
		return bundle, nil
	}, []string{"Example.com"})

	cert, err := cache.GetCertificate(&tls.ClientHelloInfo{ServerName: "example.com"})
	require.NoError(t, err)
	require.NotNil(t, cert)

	again, err := cache.GetCertificate(&tls.ClientHelloInfo{ServerName: "EXAMPLE.com."})
	require.NoError(t, err)
	assert.Same(t, cert, again)
	assert.Equal(t, int32(1), loads.Load())

	// Without SNI the single configured domain is served.
	noSNI, err := cache.GetCertificate(&tls.ClientHelloInfo{})
	require.NoError(t, err)
	assert.Same(t, cert, noSNI)

	_, err = cache.GetCertificate(&tls.ClientHelloInfo{ServerName: "other.com"})
	assert.ErrorIs(t, err, server.ErrUnknownServerName)

	cache.Invalidate("example.com")
	_, err = cache.Certificate(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())

	assert.NotNil(t, cache.TLSConfig().GetCertificate)
}

func TestCertificateCacheReloadsNearExpiry(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	expiring := selfSignedBundle(t, "example.com", time.Now().Add(time.Hour))
	cache := server.NewCertificateCache(func(ctx context.Context, domain string) (pki.Bundle, error) {
		loads.Add(1)
		return expiring, nil
	}, []string{"example.com"}, server.WithRefreshWindow(24*time.Hour))

	for range 3 {
		_, err := cache.Certificate(context.Background(), "example.com")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), loads.Load())
}

func TestCertificateCacheLoadFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	cache := server.NewCertificateCache(func(ctx context.Context, domain string) (pki.Bundle, error) {
		return pki.Bundle{}, errBoom
	}, []string{"a.com", "b.com"})

	_, err := cache.GetCertificate(&tls.ClientHelloInfo{ServerName: "a.com"})
	assert.ErrorIs(t, err, server.ErrCertificateNotReady)
	assert.ErrorIs(t, err, errBoom)

	_, err = cache.GetCertificate(&tls.ClientHelloInfo{})
	assert.ErrorIs(t, err, server.ErrNoServerName)
}
