package issuer

import (
	"log/slog"

	"github.com/dmitrymomot/certkit/core/certstore"
	"github.com/dmitrymomot/certkit/core/challenge"
)

// Option configures an Issuer.
type Option func(*Issuer)

// WithLogger sets the issuer logger. Private keys are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(i *Issuer) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithLocker replaces the in-process per-domain lock, e.g. with a Redis lock
// when several instances share one store.
func WithLocker(l certstore.Locker) Option {
	return func(i *Issuer) {
		if l != nil {
			i.locker = l
		}
	}
}

// WithNormalization overrides the domain normalization rules.
func WithNormalization(n Normalization) Option {
	return func(i *Issuer) {
		i.norm = n
	}
}

// WithChallengeOptions passes options to every challenge server.
func WithChallengeOptions(opts ...challenge.Option) Option {
	return func(i *Issuer) {
		i.challengeOps = append(i.challengeOps, opts...)
	}
}
