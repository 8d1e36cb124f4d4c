package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/go-acme/lego/v4/certcrypto"
)

const (
	// DefaultKeyBits is the modulus size used for certificate issuance.
	DefaultKeyBits = 2048

	// MinKeyBits is the smallest modulus accepted by GenerateKeyPair.
	MinKeyBits = 1024

	pemTypeRSAPrivateKey = "RSA PRIVATE KEY"
	pemTypePrivateKey    = "PRIVATE KEY"
	pemTypePublicKey     = "PUBLIC KEY"
	pemTypeRSAPublicKey  = "RSA PUBLIC KEY"
)

var legoKeyTypes = map[int]certcrypto.KeyType{
	2048: certcrypto.RSA2048,
	3072: certcrypto.RSA3072,
	4096: certcrypto.RSA4096,
	8192: certcrypto.RSA8192,
}

// GenerateKeyPair creates an RSA keypair with the given modulus size.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits", ErrInvalidKeySize, bits)
	}

	if kt, ok := legoKeyTypes[bits]; ok {
		key, err := certcrypto.GeneratePrivateKey(kt)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %d-bit key: %w", bits, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
		}
		return rsaKey, nil
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %d-bit key: %w", bits, err)
	}
	return key, nil
}

// EncodePrivateKey returns the PKCS#1 PEM encoding of key.
func EncodePrivateKey(key *rsa.PrivateKey) string {
	return string(certcrypto.PEMEncode(key))
}

// DecodePrivateKey parses a PEM encoded RSA private key in PKCS#1 or PKCS#8 form.
func DecodePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no private key block", ErrInvalidPEM)
	}

	switch block.Type {
	case pemTypeRSAPrivateKey:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
		}
		return key, nil
	case pemTypePrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected block type %q", ErrInvalidPEM, block.Type)
	}
}

// EncodePublicKey returns the PKIX PEM encoding of key.
func EncodePublicKey(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der})), nil
}

// DecodePublicKey parses a PEM encoded RSA public key in PKIX or PKCS#1 form.
func DecodePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no public key block", ErrInvalidPEM)
	}

	switch block.Type {
	case pemTypeRSAPublicKey:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
		}
		return key, nil
	case pemTypePublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected block type %q", ErrInvalidPEM, block.Type)
	}
}
