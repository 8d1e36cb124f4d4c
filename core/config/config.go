package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilTarget is returned when Load receives a nil destination.
var ErrNilTarget = errors.New("config target must be a non-nil pointer")

var (
	dotenvOnce sync.Once
	dotenvErr  error
)

// DotEnvFiles lists the files read before the first Load. Missing files are ignored.
var DotEnvFiles = []string{".env"}

func loadDotEnv() error {
	dotenvOnce.Do(func() {
		for _, f := range DotEnvFiles {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				dotenvErr = fmt.Errorf("failed to read %s: %w", f, err)
				return
			}
		}
	})
	return dotenvErr
}

// Load parses environment variables into each target struct.
func Load(targets ...any) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	for _, target := range targets {
		if target == nil {
			return ErrNilTarget
		}
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("failed to parse config %T: %w", target, err)
		}
	}
	return nil
}

// LoadWithPrefix parses environment variables using the given variable name prefix.
// It allows several instances of the same config type, e.g. "PRIMARY_" and "BACKUP_".
func LoadWithPrefix(prefix string, target any) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	if target == nil {
		return ErrNilTarget
	}
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("failed to parse config %T with prefix %q: %w", target, prefix, err)
	}
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup.
func MustLoad(targets ...any) {
	if err := Load(targets...); err != nil {
		panic(err)
	}
}
