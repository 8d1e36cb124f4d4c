package transport

import (
	"context"
	"time"
)

// Codec seals and opens transport tokens with the keypair held by a KeyStore.
type Codec struct {
	keys *KeyStore
	now  func() time.Time
}

// NewCodec creates a Codec backed by keys.
func NewCodec(keys *KeyStore) *Codec {
	return &Codec{keys: keys, now: time.Now}
}

// Seal encrypts token with the given unix timestamp, embedded verbatim.
func (c *Codec) Seal(ctx context.Context, token string, timestamp int64) (string, error) {
	pub, err := c.keys.PublicKey(ctx)
	if err != nil {
		return "", err
	}
	return Encrypt(pub, token, timestamp)
}

// SealNow encrypts token stamped with the current time.
func (c *Codec) SealNow(ctx context.Context, token string) (string, error) {
	return c.Seal(ctx, token, c.now().Unix())
}

// Open decrypts a sealed token, provisioning the keypair on first use.
func (c *Codec) Open(ctx context.Context, ciphertext string) (Token, error) {
	priv, err := c.keys.PrivateKey(ctx)
	if err != nil {
		return Token{}, err
	}
	return Decrypt(priv, ciphertext)
}

// OpenFresh is like Open but rejects tokens older than ttl.
func (c *Codec) OpenFresh(ctx context.Context, ciphertext string, ttl time.Duration) (Token, error) {
	tok, err := c.Open(ctx, ciphertext)
	if err != nil {
		return Token{}, err
	}
	if tok.Expired(c.now(), ttl) {
		return Token{}, ErrTokenExpired
	}
	return tok, nil
}
