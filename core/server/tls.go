package server

import (
	"crypto/tls"
	"fmt"

	"github.com/dmitrymomot/certkit/pkg/pki"
)

// DefaultTLSConfig returns a TLS 1.2+ configuration with ECDHE-only AEAD suites,
// following Mozilla's intermediate recommendations.
func DefaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			// TLS 1.3 suites are selected automatically.
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}
}

// ModernTLSConfig returns a TLS 1.3 only configuration.
// Use this when you control all clients.
func ModernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}
}

// TLSConfigOption represents a functional option for customizing TLS configuration.
type TLSConfigOption func(*tls.Config)

// WithTLSMinVersion sets the minimum TLS version.
func WithTLSMinVersion(version uint16) TLSConfigOption {
	return func(cfg *tls.Config) {
		cfg.MinVersion = version
	}
}

// WithTLSNextProtos sets the ALPN protocols advertised by the server.
func WithTLSNextProtos(protos ...string) TLSConfigOption {
	return func(cfg *tls.Config) {
		cfg.NextProtos = protos
	}
}

// NewTLSConfig creates a TLS configuration from DefaultTLSConfig and opts.
func NewTLSConfig(opts ...TLSConfigOption) *tls.Config {
	cfg := DefaultTLSConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BundleTLSConfig builds a TLS configuration serving the certificate chain
// and private key held in b.
func BundleTLSConfig(b pki.Bundle, opts ...TLSConfigOption) (*tls.Config, error) {
	cert, err := b.TLSCertificate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedLoadCert, err)
	}

	cfg := NewTLSConfig(opts...)
	cfg.Certificates = []tls.Certificate{cert}
	return cfg, nil
}

// FileTLSConfig builds a TLS configuration from PEM certificate and key files.
func FileTLSConfig(certFile, keyFile string, opts ...TLSConfigOption) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, ErrEmptyCertPath
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w from %s, %s: %w", ErrFailedLoadCert, certFile, keyFile, err)
	}

	cfg := NewTLSConfig(opts...)
	cfg.Certificates = []tls.Certificate{cert}
	return cfg, nil
}
