package pki

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/go-acme/lego/v4/certcrypto"
)

// CSR is a signed certificate signing request together with its PEM encoding.
type CSR struct {
	// PEM is the trimmed PEM form submitted to the certificate authority.
	PEM string

	// Request is the parsed request.
	Request *x509.CertificateRequest
}

// BuildCSR creates a certificate signing request whose only subject attribute
// is commonName, signs it with key and verifies the signature before returning.
func BuildCSR(key *rsa.PrivateKey, commonName string) (*CSR, error) {
	if strings.TrimSpace(commonName) == "" {
		return nil, ErrEmptyCommonName
	}
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrUnsupportedKey)
	}

	der, err := certcrypto.GenerateCSR(key, commonName, nil, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate request: %w", err)
	}

	req, err := x509.ParseCertificateRequest(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate request: %w", err)
	}
	if err := req.CheckSignature(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCSRVerification, err)
	}

	return &CSR{
		PEM:     strings.TrimSpace(string(certcrypto.PEMEncode(req))),
		Request: req,
	}, nil
}

// VerifyCSR parses a PEM encoded request and checks its self-signature.
func VerifyCSR(csrPEM string) error {
	req, err := certcrypto.PemDecodeTox509CSR([]byte(csrPEM))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCSRVerification, err)
	}
	if err := req.CheckSignature(); err != nil {
		return fmt.Errorf("%w: %w", ErrCSRVerification, err)
	}
	return nil
}
