package certstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/pkg/pki"
)

// Names of the three cached artifacts.
const (
	CertificateKey = "tls.cert"
	CABundleKey    = "ca.cert"
	PrivateKeyKey  = "tls.key"
)

// Lister is implemented by backends that can enumerate cached domains.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Store reads and writes certificate bundles through an autocert.Cache.
// Each domain's artifacts live under "<prefix><domain>/<name>"; with
// WithFlatLayout they live directly under "<prefix><name>".
type Store struct {
	cache  autocert.Cache
	prefix string
	flat   bool
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key, e.g. "certs/" for a shared bucket.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithFlatLayout stores a single bundle without a per-domain directory.
func WithFlatLayout() Option {
	return func(s *Store) {
		s.flat = true
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store over cache.
func New(cache autocert.Cache, opts ...Option) *Store {
	s := &Store{
		cache:  cache,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDir creates a Store backed by a FileCache rooted at dir.
func NewDir(dir string, opts ...Option) (*Store, error) {
	fc, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return New(fc, opts...), nil
}

// Exists reports whether both the certificate and the private key are cached.
func (s *Store) Exists(ctx context.Context, domain string) (bool, error) {
	if domain == "" {
		return false, ErrEmptyDomain
	}
	for _, name := range []string{CertificateKey, PrivateKeyKey} {
		_, err := s.cache.Get(ctx, s.key(domain, name))
		if errors.Is(err, autocert.ErrCacheMiss) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// Load returns the cached bundle. It returns ErrNotFound unless both the
// certificate and the key are present, and ErrIncompleteBundle when they are
// but the CA bundle is missing.
func (s *Store) Load(ctx context.Context, domain string) (pki.Bundle, error) {
	if domain == "" {
		return pki.Bundle{}, ErrEmptyDomain
	}

	cert, err := s.get(ctx, domain, CertificateKey)
	if err != nil {
		return pki.Bundle{}, err
	}
	key, err := s.get(ctx, domain, PrivateKeyKey)
	if err != nil {
		return pki.Bundle{}, err
	}
	if cert == nil || key == nil {
		return pki.Bundle{}, ErrNotFound
	}

	chain, err := s.get(ctx, domain, CABundleKey)
	if err != nil {
		return pki.Bundle{}, err
	}
	if chain == nil {
		return pki.Bundle{}, fmt.Errorf("%w: %s missing for %s", ErrIncompleteBundle, CABundleKey, domain)
	}

	return pki.Bundle{
		PrivateKey:  string(key),
		Certificate: string(cert),
		CABundle:    string(chain),
	}, nil
}

// Save writes all three artifacts. The certificate is written last so a
// partially written bundle reads as a cache miss rather than a stale hit.
// Failures wrap ErrPersist.
func (s *Store) Save(ctx context.Context, domain string, b pki.Bundle) error {
	if domain == "" {
		return ErrEmptyDomain
	}
	if strings.TrimSpace(b.Certificate) == "" || strings.TrimSpace(b.PrivateKey) == "" {
		return ErrInvalidBundle
	}

	writes := []struct {
		name string
		data string
	}{
		{CABundleKey, b.CABundle},
		{PrivateKeyKey, b.PrivateKey},
		{CertificateKey, b.Certificate},
	}
	for _, w := range writes {
		if err := s.cache.Put(ctx, s.key(domain, w.name), []byte(w.data)); err != nil {
			return fmt.Errorf("%w: %s for %s: %w", ErrPersist, w.name, domain, err)
		}
	}

	s.logger.DebugContext(ctx, "bundle saved", logger.Component("certstore"), logger.Domain(domain))
	return nil
}

// Delete removes all artifacts for domain. Missing entries are ignored.
func (s *Store) Delete(ctx context.Context, domain string) error {
	if domain == "" {
		return ErrEmptyDomain
	}

	var errs []error
	for _, name := range []string{CertificateKey, PrivateKeyKey, CABundleKey} {
		err := s.cache.Delete(ctx, s.key(domain, name))
		if err != nil && !errors.Is(err, autocert.ErrCacheMiss) {
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Domains lists cached domains when the backend implements Lister.
func (s *Store) Domains(ctx context.Context) ([]string, error) {
	l, ok := s.cache.(Lister)
	if !ok || s.flat {
		return nil, errors.ErrUnsupported
	}
	return l.List(ctx)
}

// Key returns the cache key of an artifact; exported for backends and tooling.
func (s *Store) Key(domain, name string) string {
	return s.key(domain, name)
}

func (s *Store) key(domain, name string) string {
	if s.flat {
		return s.prefix + name
	}
	return s.prefix + domain + "/" + name
}

// get returns nil data on a cache miss.
func (s *Store) get(ctx context.Context, domain, name string) ([]byte, error) {
	data, err := s.cache.Get(ctx, s.key(domain, name))
	if errors.Is(err, autocert.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("certstore: read %s for %s: %w", name, domain, err)
	}
	return data, nil
}
