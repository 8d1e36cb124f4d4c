package transport

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrymomot/certkit/pkg/pki"
)

// Config holds the locations of the transport keypair.
type Config struct {
	PublicKeyPath  string `env:"TRANSPORT_PUBLIC_KEY_PATH" envDefault:"keys/transport_public.pem"`
	PrivateKeyPath string `env:"TRANSPORT_PRIVATE_KEY_PATH" envDefault:"keys/transport_private.pem"`
	KeyBits        int    `env:"TRANSPORT_KEY_BITS" envDefault:"2048"`
}

// fileSystem is the subset of file operations used by KeyStore.
type fileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// KeyStore provisions and reads the transport keypair on the local file system.
// The private key file marks a provisioned keypair: once it exists the
// keypair is never regenerated, because rotating it would invalidate every
// public key copy held by peer services.
// Safe for concurrent use within one process.
type KeyStore struct {
	mu      sync.Mutex
	pubPath string
	keyPath string
	bits    int
	fs      fileSystem
}

// NewKeyStore creates a KeyStore for the configured paths.
func NewKeyStore(cfg Config) (*KeyStore, error) {
	pub := strings.TrimSpace(cfg.PublicKeyPath)
	priv := strings.TrimSpace(cfg.PrivateKeyPath)
	if pub == "" || priv == "" {
		return nil, ErrKeyPathRequired
	}
	bits := cfg.KeyBits
	if bits == 0 {
		bits = pki.DefaultKeyBits
	}

	return &KeyStore{
		pubPath: pub,
		keyPath: priv,
		bits:    bits,
		fs:      osFS{},
	}, nil
}

// GetOrCreateKeyPair makes sure the keypair exists and returns the public and
// private key paths. A fresh keypair is generated only when the private key
// file is absent; otherwise nothing is written.
func (s *KeyStore) GetOrCreateKeyPair(ctx context.Context) (publicKeyPath, privateKeyPath string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return "", "", err
	}
	return s.pubPath, s.keyPath, nil
}

// PublicKeyPEM returns the PEM encoded public key, provisioning the keypair if needed.
func (s *KeyStore) PublicKeyPEM(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return "", err
	}
	data, err := s.fs.ReadFile(s.pubPath)
	if err != nil {
		return "", fmt.Errorf("failed to read transport public key: %w", err)
	}
	return string(data), nil
}

// PublicKey returns the parsed public key, provisioning the keypair if needed.
func (s *KeyStore) PublicKey(ctx context.Context) (*rsa.PublicKey, error) {
	data, err := s.PublicKeyPEM(ctx)
	if err != nil {
		return nil, err
	}
	return pki.DecodePublicKey([]byte(data))
}

// PrivateKey returns the parsed private key, provisioning the keypair if needed.
func (s *KeyStore) PrivateKey(ctx context.Context) (*rsa.PrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transport private key: %w", err)
	}
	return pki.DecodePrivateKey(data)
}

// ensure must be called with s.mu held.
func (s *KeyStore) ensure() error {
	keyExists, err := s.exists(s.keyPath)
	if err != nil {
		return err
	}

	if keyExists {
		pubExists, err := s.exists(s.pubPath)
		if err != nil || pubExists {
			return err
		}
		// Public half lost: rebuild it from the existing private key.
		data, err := s.fs.ReadFile(s.keyPath)
		if err != nil {
			return fmt.Errorf("failed to read transport private key: %w", err)
		}
		key, err := pki.DecodePrivateKey(data)
		if err != nil {
			return err
		}
		return s.writePublic(&key.PublicKey)
	}

	key, err := pki.GenerateKeyPair(s.bits)
	if err != nil {
		return fmt.Errorf("failed to generate transport keypair: %w", err)
	}

	// Public key first: the private key file is the "provisioned" marker.
	if err := s.writePublic(&key.PublicKey); err != nil {
		return err
	}
	if err := s.write(s.keyPath, []byte(pki.EncodePrivateKey(key)), 0o600); err != nil {
		return fmt.Errorf("failed to write transport private key: %w", err)
	}
	return nil
}

func (s *KeyStore) writePublic(pub *rsa.PublicKey) error {
	encoded, err := pki.EncodePublicKey(pub)
	if err != nil {
		return err
	}
	if err := s.write(s.pubPath, []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("failed to write transport public key: %w", err)
	}
	return nil
}

func (s *KeyStore) exists(path string) (bool, error) {
	_, err := s.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

func (s *KeyStore) write(path string, data []byte, perm fs.FileMode) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return s.fs.WriteFile(path, data, perm)
}

// osFS writes through a temporary file and rename so readers never see a partial key.
type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error)       { return os.Stat(name) }
func (osFS) ReadFile(name string) ([]byte, error)        { return os.ReadFile(name) }
func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
