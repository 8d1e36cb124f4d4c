package pki

import "errors"

var (
	// ErrCSRVerification is returned when a certificate signing request fails
	// its self-signature check. A request that fails here can never be issued.
	ErrCSRVerification = errors.New("certificate signing request verification failed")

	// ErrEmptyCommonName is returned when a CSR is requested without a subject.
	ErrEmptyCommonName = errors.New("common name is required")

	// ErrInvalidKeySize is returned for RSA modulus sizes below MinKeyBits.
	ErrInvalidKeySize = errors.New("invalid RSA key size")

	// ErrInvalidPEM is returned when input does not contain the expected PEM block.
	ErrInvalidPEM = errors.New("invalid PEM data")

	// ErrUnsupportedKey is returned when a decoded key is not an RSA key.
	ErrUnsupportedKey = errors.New("unsupported key type")

	// ErrKeyMismatch is returned when a bundle's private key does not match its leaf certificate.
	ErrKeyMismatch = errors.New("private key does not match certificate")

	// ErrIncompleteBundle is returned when a bundle lacks the key or the leaf certificate.
	ErrIncompleteBundle = errors.New("bundle is missing key or certificate")
)
