package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/certkit/core/certstore"
	"github.com/dmitrymomot/certkit/core/challenge"
	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/core/zerossl"
	"github.com/dmitrymomot/certkit/pkg/pki"
)

// CA is the certificate authority used for issuance. *zerossl.Client implements it.
type CA interface {
	CreateCertificate(ctx context.Context, domain, csrPEM string) (*zerossl.Certificate, error)
	VerifyDomains(ctx context.Context, id string) error
	GetCertificate(ctx context.Context, id string) (*zerossl.Certificate, error)
	DownloadCertificate(ctx context.Context, id string) (*zerossl.Download, error)
}

// Request describes one obtain call.
type Request struct {
	// Domain may carry the literal decorations listed in the Normalization.
	Domain string
	// Port overrides the challenge server port when non-zero.
	Port int
	// Persist writes a freshly issued bundle to the store.
	Persist bool
	// Force skips the cache lookup.
	Force bool
}

// Result is the outcome of Obtain.
type Result struct {
	Bundle  pki.Bundle
	Domain  string
	RunID   string
	OrderID string
	// Cached is true when the bundle came from the store without contacting the CA.
	Cached bool
	// Persisted is true when a fresh bundle was written to the store.
	Persisted bool
	// PersistErr holds the write failure when persistence was requested but failed.
	// The bundle is still valid.
	PersistErr error
}

// Issuer obtains certificates, reusing cached bundles when present.
// Safe for concurrent use; calls for the same domain are serialized.
type Issuer struct {
	cfg          Config
	ca           CA
	store        *certstore.Store
	locker       certstore.Locker
	norm         Normalization
	logger       *slog.Logger
	challengeOps []challenge.Option
}

// New creates an Issuer. ca may be nil when no API key is configured; only
// cache hits can be served then. store may be nil to disable caching.
func New(cfg Config, ca CA, store *certstore.Store, opts ...Option) *Issuer {
	def := DefaultConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ChallengeAddr == "" {
		cfg.ChallengeAddr = def.ChallengeAddr
	}
	if cfg.KeyBits == 0 {
		cfg.KeyBits = def.KeyBits
	}
	if !cfg.PollUnbounded && cfg.PollMaxAttempts <= 0 && cfg.PollTimeout <= 0 {
		cfg.PollMaxAttempts = def.PollMaxAttempts
		cfg.PollTimeout = def.PollTimeout
	}

	i := &Issuer{
		cfg:    cfg,
		ca:     ca,
		store:  store,
		locker: certstore.NewMemoryLocker(),
		norm:   Normalization{Schemes: cfg.StripSchemes, PortSuffixes: cfg.StripPorts},
		logger: logger.NewNop(),
	}
	if cfg.StripSchemes == nil && cfg.StripPorts == nil {
		i.norm = DefaultNormalization
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Obtain returns a certificate bundle for req.Domain: from the store when
// both certificate and key are cached, otherwise by running a full issuance
// cycle against the CA.
func (i *Issuer) Obtain(ctx context.Context, req Request) (*Result, error) {
	domain := NormalizeDomain(req.Domain, i.norm)
	if domain == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, req.Domain)
	}

	res := &Result{Domain: domain, RunID: uuid.NewString()}
	log := i.logger.With(logger.Component("issuer"), logger.RunID(res.RunID), logger.Domain(domain))

	unlock, err := i.locker.Lock(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("issuer: lock %s: %w", domain, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.WarnContext(ctx, "failed to release domain lock", logger.Error(err))
		}
	}()

	if i.store != nil && !req.Force {
		bundle, err := i.store.Load(ctx, domain)
		switch {
		case err == nil:
			log.InfoContext(ctx, "using cached certificate")
			res.Bundle = bundle
			res.Cached = true
			return res, nil
		case !errors.Is(err, certstore.ErrNotFound):
			return nil, err
		}
	}

	if i.ca == nil {
		return nil, zerossl.ErrMissingAPIKey
	}

	start := time.Now()
	bundle, orderID, err := i.issue(ctx, log, res.RunID, domain, req.Port)
	res.OrderID = orderID
	if err != nil {
		log.ErrorContext(ctx, "certificate issuance failed", logger.OrderID(orderID), logger.Error(err), logger.Elapsed(start))
		return nil, err
	}
	res.Bundle = bundle
	log.InfoContext(ctx, "certificate issued", logger.OrderID(orderID), logger.Elapsed(start))

	if req.Persist {
		err := ErrNoStore
		if i.store != nil {
			err = i.store.Save(ctx, domain, bundle)
		}
		if err != nil {
			log.WarnContext(ctx, "certificate issued but not persisted", logger.Error(err))
			res.PersistErr = err
		} else {
			res.Persisted = true
		}
	}

	return res, nil
}

// issue runs GenerateCsr through Download.
func (i *Issuer) issue(ctx context.Context, log *slog.Logger, runID, domain string, port int) (pki.Bundle, string, error) {
	key, err := pki.GenerateKeyPair(i.cfg.KeyBits)
	if err != nil {
		return pki.Bundle{}, "", err
	}
	csr, err := pki.BuildCSR(key, domain)
	if err != nil {
		return pki.Bundle{}, "", err
	}

	order, err := i.ca.CreateCertificate(ctx, domain, csr.PEM)
	if err != nil {
		return pki.Bundle{}, "", fmt.Errorf("issuer: submit order: %w", err)
	}
	log.InfoContext(ctx, "order submitted", logger.OrderID(order.ID), logger.Status(string(order.Status)))

	fv, ok := order.FileValidation(domain)
	if !ok {
		return pki.Bundle{}, order.ID, fmt.Errorf("%w: %s", ErrNoValidation, domain)
	}

	srv := challenge.New(
		challengeAddr(i.cfg.ChallengeAddr, port),
		challenge.ValidationPath(fv.URLHTTP, domain),
		fv.Content,
		append([]challenge.Option{
			challenge.WithLogger(i.logger.With(logger.RunID(runID), logger.Domain(domain))),
		}, i.challengeOps...)...,
	)
	if err := srv.Start(ctx); err != nil {
		return pki.Bundle{}, order.ID, fmt.Errorf("issuer: start challenge server: %w", err)
	}
	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		if err := srv.Stop(); err != nil {
			log.WarnContext(ctx, "failed to stop challenge server", logger.Error(err))
		}
	}
	defer stop()

	if err := i.ca.VerifyDomains(ctx, order.ID); err != nil {
		return pki.Bundle{}, order.ID, fmt.Errorf("issuer: request verification: %w", err)
	}

	if err := i.poll(ctx, log, order.ID); err != nil {
		return pki.Bundle{}, order.ID, err
	}
	stop()

	dl, err := i.ca.DownloadCertificate(ctx, order.ID)
	if err != nil {
		return pki.Bundle{}, order.ID, fmt.Errorf("issuer: download: %w", err)
	}

	return pki.Bundle{
		PrivateKey:  pki.EncodePrivateKey(key),
		Certificate: dl.Certificate,
		CABundle:    dl.CABundle,
	}, order.ID, nil
}

// poll waits until the order is issued, the budget is spent or ctx is done.
func (i *Issuer) poll(ctx context.Context, log *slog.Logger, id string) error {
	pctx := ctx
	maxAttempts := 0
	if !i.cfg.PollUnbounded {
		maxAttempts = i.cfg.PollMaxAttempts
		if i.cfg.PollTimeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, i.cfg.PollTimeout)
			defer cancel()
		}
	}

	for attempt := 1; ; attempt++ {
		order, err := i.ca.GetCertificate(pctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if pctx.Err() != nil {
				return fmt.Errorf("%w after %d attempts", ErrTimeout, attempt-1)
			}
			return fmt.Errorf("issuer: poll order: %w", err)
		}

		log.DebugContext(ctx, "order polled", logger.OrderID(id), logger.Status(string(order.Status)), logger.Attempt(attempt))

		switch {
		case order.Status == zerossl.StatusIssued:
			return nil
		case order.Status.Terminal():
			return fmt.Errorf("%w: status %s", ErrOrderFailed, order.Status)
		}

		if maxAttempts > 0 && attempt >= maxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrTimeout, attempt)
		}

		wait := time.NewTimer(i.cfg.PollInterval)
		select {
		case <-wait.C:
		case <-pctx.Done():
			wait.Stop()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w after %d attempts", ErrTimeout, attempt)
		}
	}
}

func challengeAddr(addr string, port int) string {
	if port <= 0 {
		return addr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
