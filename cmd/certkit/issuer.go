package main

import (
	"github.com/dmitrymomot/certkit/core/issuer"
	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/core/zerossl"
)

// newIssuer builds the issuer over an opened backend. Without an API key the
// issuer only serves cached bundles.
func (a *app) newIssuer(b *backend) (*issuer.Issuer, error) {
	var ca issuer.CA
	if a.cfg.ZeroSSL.APIKey != "" {
		client, err := zerossl.New(a.cfg.ZeroSSL, zerossl.WithLogger(a.log.With(logger.Component("zerossl"))))
		if err != nil {
			return nil, err
		}
		ca = client
	}

	opts := []issuer.Option{issuer.WithLogger(a.log)}
	if b.locker != nil {
		opts = append(opts, issuer.WithLocker(b.locker))
	}
	return issuer.New(a.cfg.Issuer, ca, b.store, opts...), nil
}

