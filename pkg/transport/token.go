package transport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Separator delimits the token and its timestamp inside the encrypted payload.
const Separator = "|"

// Token is a decrypted transport token.
type Token struct {
	Value    string
	IssuedAt int64 // unix seconds
}

// Time returns IssuedAt as a time.Time.
func (t Token) Time() time.Time {
	return time.Unix(t.IssuedAt, 0)
}

// Expired reports whether the token is older than ttl at now.
// A zero or negative ttl never expires.
func (t Token) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(t.Time()) > ttl
}

// MaxTokenSize returns the largest payload (token, separator and timestamp)
// that can be encrypted under pub.
func MaxTokenSize(pub *rsa.PublicKey) int {
	// RSA-OAEP overhead is 2*hashLen+2.
	return pub.Size() - 2*sha256.Size - 2
}

// Encrypt serializes token and timestamp as "<token>|<timestamp>" and encrypts
// the payload with pub. The result is base64 encoded.
func Encrypt(pub *rsa.PublicKey, token string, timestamp int64) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("%w: nil public key", ErrInvalidToken)
	}
	if strings.Contains(token, Separator) {
		return "", fmt.Errorf("%w: token must not contain %q", ErrInvalidToken, Separator)
	}

	payload := token + Separator + strconv.FormatInt(timestamp, 10)
	if len(payload) > MaxTokenSize(pub) {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTokenTooLarge, len(payload), MaxTokenSize(pub))
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, []byte(payload), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt transport token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. The decrypted payload must contain exactly two
// separator-delimited fields and the second must be an integer.
func Decrypt(priv *rsa.PrivateKey, ciphertext string) (Token, error) {
	if priv == nil {
		return Token{}, fmt.Errorf("%w: nil private key", ErrDecryption)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	plain, err := rsa.DecryptOAEP(sha256.New(), nil, priv, raw, nil)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	return ParsePayload(string(plain))
}

// ParsePayload splits a decrypted "<token>|<timestamp>" payload.
func ParsePayload(payload string) (Token, error) {
	fields := strings.Split(payload, Separator)
	if len(fields) != 2 {
		return Token{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedToken, len(fields))
	}

	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: timestamp %q is not an integer", ErrMalformedToken, fields[1])
	}

	return Token{Value: fields[0], IssuedAt: ts}, nil
}
