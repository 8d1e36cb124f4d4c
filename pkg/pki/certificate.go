package pki

import (
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/go-acme/lego/v4/certcrypto"
)

// EncodeCertificate returns the PEM encoding of a DER certificate.
func EncodeCertificate(der []byte) string {
	return string(certcrypto.PEMEncode(certcrypto.DERCertificateBytes(der)))
}

// ParseCertificates parses every certificate of a PEM bundle, leaf first.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: empty certificate data", ErrInvalidPEM)
	}
	certs, err := certcrypto.ParsePEMBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
	}
	return certs, nil
}
