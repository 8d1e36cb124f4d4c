package issuer

import "errors"

var (
	// ErrTimeout is returned when polling exhausts its attempt or time budget.
	ErrTimeout = errors.New("issuer: timed out waiting for certificate issuance")

	// ErrOrderFailed is returned when the order reaches a status that can never become issued.
	ErrOrderFailed = errors.New("issuer: certificate order failed")

	// ErrInvalidDomain is returned when the domain is empty after normalization.
	ErrInvalidDomain = errors.New("issuer: invalid domain")

	// ErrNoValidation is returned when the order carries no HTTP validation for the domain.
	ErrNoValidation = errors.New("issuer: order has no http validation for domain")

	// ErrNoStore is reported in Result.PersistErr when persistence was requested
	// from an Issuer created without a store.
	ErrNoStore = errors.New("issuer: no certificate store configured")
)
