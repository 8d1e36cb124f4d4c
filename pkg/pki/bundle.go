package pki

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"strings"
	"time"
)

// Bundle is the key material needed to serve TLS: the private key, the leaf
// certificate and the issuing chain, all PEM encoded. Bundles are values and
// are never modified after creation.
type Bundle struct {
	PrivateKey  string
	Certificate string
	CABundle    string
}

// FullChain returns the leaf followed by the CA chain.
func (b Bundle) FullChain() string {
	leaf := strings.TrimRight(b.Certificate, "\n")
	chain := strings.TrimSpace(b.CABundle)
	if chain == "" {
		return leaf + "\n"
	}
	return leaf + "\n" + chain + "\n"
}

// TLSCertificate builds a tls.Certificate from the bundle.
func (b Bundle) TLSCertificate() (tls.Certificate, error) {
	if b.PrivateKey == "" || b.Certificate == "" {
		return tls.Certificate{}, ErrIncompleteBundle
	}
	cert, err := tls.X509KeyPair([]byte(b.FullChain()), []byte(b.PrivateKey))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %w", ErrKeyMismatch, err)
	}
	return cert, nil
}

// Leaf parses the leaf certificate.
func (b Bundle) Leaf() (*x509.Certificate, error) {
	certs, err := ParseCertificates([]byte(b.Certificate))
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// Validate checks that the key decodes and matches the leaf certificate.
func (b Bundle) Validate() error {
	if b.PrivateKey == "" || b.Certificate == "" {
		return ErrIncompleteBundle
	}
	key, err := DecodePrivateKey([]byte(b.PrivateKey))
	if err != nil {
		return err
	}
	leaf, err := b.Leaf()
	if err != nil {
		return err
	}
	if !key.PublicKey.Equal(leaf.PublicKey) {
		return ErrKeyMismatch
	}
	return nil
}

// ExpiresWithin reports whether the leaf certificate expires before now+d.
func (b Bundle) ExpiresWithin(now time.Time, d time.Duration) (bool, error) {
	leaf, err := b.Leaf()
	if err != nil {
		return false, err
	}
	return leaf.NotAfter.Before(now.Add(d)), nil
}
