package server

import "errors"

var (
	// Server lifecycle errors
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrMissingAddress       = errors.New("server address is required")
	ErrListen               = errors.New("failed to bind listener")

	// TLS configuration errors
	ErrEmptyCertPath       = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert      = errors.New("failed to load certificate")
	ErrNoServerName        = errors.New("no server name provided")
	ErrUnknownServerName   = errors.New("no certificate for server name")
	ErrCertificateNotReady = errors.New("certificate is not available yet")
)
