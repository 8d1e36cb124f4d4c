package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/certkit/pkg/pki"
)

// BundleLoader returns the current certificate bundle for a domain.
type BundleLoader func(ctx context.Context, domain string) (pki.Bundle, error)

// CertificateCache serves TLS certificates for a fixed set of domains,
// loading each bundle lazily and reloading it once the cached leaf is
// within the refresh window of expiry.
// Safe for concurrent use.
type CertificateCache struct {
	mu      sync.RWMutex
	load    BundleLoader
	domains map[string]struct{}
	certs   map[string]*tls.Certificate
	refresh time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// CertificateCacheOption configures a CertificateCache.
type CertificateCacheOption func(*CertificateCache)

// WithRefreshWindow sets how long before expiry a cached certificate is reloaded.
func WithRefreshWindow(d time.Duration) CertificateCacheOption {
	return func(c *CertificateCache) {
		c.refresh = d
	}
}

// WithLoadTimeout bounds a single bundle load triggered by a handshake.
func WithLoadTimeout(d time.Duration) CertificateCacheOption {
	return func(c *CertificateCache) {
		c.timeout = d
	}
}

// WithCacheLogger sets the logger for load failures.
func WithCacheLogger(logger *slog.Logger) CertificateCacheOption {
	return func(c *CertificateCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCertificateCache creates a cache that answers handshakes for domains using load.
func NewCertificateCache(load BundleLoader, domains []string, opts ...CertificateCacheOption) *CertificateCache {
	c := &CertificateCache{
		load:    load,
		domains: make(map[string]struct{}, len(domains)),
		certs:   make(map[string]*tls.Certificate, len(domains)),
		refresh: 24 * time.Hour,
		timeout: 10 * time.Second,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, d := range domains {
		c.domains[strings.ToLower(d)] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCertificate implements tls.Config.GetCertificate.
func (c *CertificateCache) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	name := strings.ToLower(strings.TrimSuffix(hello.ServerName, "."))
	if name == "" {
		// Clients without SNI get the only certificate when there is exactly one.
		if len(c.domains) != 1 {
			return nil, ErrNoServerName
		}
		for d := range c.domains {
			name = d
		}
	}
	if _, ok := c.domains[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServerName, name)
	}

	ctx := hello.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return c.Certificate(ctx, name)
}

// Certificate returns the cached certificate for domain, loading it when
// missing or close to expiry.
func (c *CertificateCache) Certificate(ctx context.Context, domain string) (*tls.Certificate, error) {
	c.mu.RLock()
	cert := c.certs[domain]
	c.mu.RUnlock()

	if cert != nil && !c.stale(cert) {
		return cert, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another handshake may have reloaded it meanwhile.
	if cert = c.certs[domain]; cert != nil && !c.stale(cert) {
		return cert, nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bundle, err := c.load(loadCtx, domain)
	if err != nil {
		c.logger.WarnContext(ctx, "certificate load failed", "domain", domain, "error", err)
		if cert != nil {
			// Keep serving the old certificate until a reload succeeds.
			return cert, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCertificateNotReady, domain, err)
	}

	loaded, err := bundle.TLSCertificate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedLoadCert, err)
	}
	c.certs[domain] = &loaded
	return &loaded, nil
}

// Invalidate drops the cached certificate for domain.
func (c *CertificateCache) Invalidate(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.certs, strings.ToLower(domain))
}

// TLSConfig returns a configuration whose GetCertificate is served by the cache.
func (c *CertificateCache) TLSConfig(opts ...TLSConfigOption) *tls.Config {
	cfg := NewTLSConfig(opts...)
	cfg.GetCertificate = c.GetCertificate
	return cfg
}

func (c *CertificateCache) stale(cert *tls.Certificate) bool {
	if cert.Leaf == nil {
		return false
	}
	return c.now().Add(c.refresh).After(cert.Leaf.NotAfter)
}
