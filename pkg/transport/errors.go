package transport

import "errors"

var (
	// ErrMalformedToken is returned when a decrypted payload is not "<token>|<unix-timestamp>".
	ErrMalformedToken = errors.New("malformed transport token")

	// ErrInvalidToken is returned when a token cannot be encoded, e.g. it contains the separator.
	ErrInvalidToken = errors.New("invalid transport token")

	// ErrTokenTooLarge is returned when the payload exceeds what a single RSA block can carry.
	ErrTokenTooLarge = errors.New("transport token too large for key")

	// ErrDecryption is returned when the ciphertext cannot be decoded or decrypted.
	ErrDecryption = errors.New("transport token decryption failed")

	// ErrKeyPathRequired is returned when the key store is configured without file paths.
	ErrKeyPathRequired = errors.New("transport key paths are required")
)

// ErrTokenExpired is returned by Codec.OpenFresh for tokens older than the allowed age.
var ErrTokenExpired = errors.New("transport token expired")
