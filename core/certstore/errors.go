package certstore

import "errors"

var (
	// ErrNotFound is returned by Load when no bundle is cached for the domain.
	ErrNotFound = errors.New("certstore: bundle not found")

	// ErrIncompleteBundle is returned when the certificate and key are cached
	// but the CA bundle is missing.
	ErrIncompleteBundle = errors.New("certstore: cached bundle is incomplete")

	// ErrPersist wraps failures to write a bundle.
	ErrPersist = errors.New("certstore: failed to persist bundle")

	// ErrInvalidBundle is returned by Save for bundles without certificate or key.
	ErrInvalidBundle = errors.New("certstore: bundle must carry certificate and private key")

	// ErrEmptyDomain is returned when a domain-scoped operation receives no domain.
	ErrEmptyDomain = errors.New("certstore: domain is required")

	// ErrInvalidKey is returned by FileCache for keys escaping its directory.
	ErrInvalidKey = errors.New("certstore: invalid cache key")
)
