package zerossl

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when the client is built without an access key.
	ErrMissingAPIKey = errors.New("zerossl: api key is required")

	// ErrCAProtocol is the base error for unexpected CA responses.
	ErrCAProtocol = errors.New("zerossl: unexpected certificate authority response")

	// ErrChallengeRejected is returned when the CA refuses to start domain verification.
	ErrChallengeRejected = errors.New("zerossl: domain verification rejected")

	// ErrEmptyDownload is returned when a download carries no leaf certificate.
	ErrEmptyDownload = errors.New("zerossl: downloaded certificate is empty")

	// ErrEmptyID is returned when an operation is called without a certificate ID.
	ErrEmptyID = errors.New("zerossl: certificate id is required")
)

// APIError describes an error reported by the CA, either through a
// {"success": false, "error": {...}} body or a non-2xx status.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Info       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("zerossl: api error (status %d", e.StatusCode)
	if e.Code != 0 {
		msg += fmt.Sprintf(", code %d", e.Code)
	}
	if e.Type != "" {
		msg += ", " + e.Type
	}
	msg += ")"
	if e.Info != "" {
		msg += ": " + e.Info
	}
	return msg
}

// Unwrap makes every APIError match ErrCAProtocol.
func (e *APIError) Unwrap() error {
	return ErrCAProtocol
}
