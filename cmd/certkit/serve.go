package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/certkit/core/health"
	"github.com/dmitrymomot/certkit/core/issuer"
	"github.com/dmitrymomot/certkit/core/logger"
	"github.com/dmitrymomot/certkit/core/server"
	"github.com/dmitrymomot/certkit/pkg/pki"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		upstream    string
		refresh     time.Duration
		loadTimeout time.Duration
		warm        bool
	)

	cmd := &cobra.Command{
		Use:   "serve <domain>...",
		Short: "Serve HTTPS for domains using cached or freshly issued certificates",
		Long: `Serve HTTPS on SERVER_ADDR for the given domains.

Certificates are loaded from the store on first handshake and issued when
missing. A cached certificate expiring within --refresh is reissued. Health
probes are served on /health/live and /health/ready; other requests go to
--upstream when set.

SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE take precedence over the store.

Examples:
  certkit serve example.com
  certkit serve example.com www.example.com --upstream http://127.0.0.1:3000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, domains []string) error {
			ctx := cmd.Context()

			b, err := openBackend(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer b.close()

			iss, err := a.newIssuer(b)
			if err != nil {
				return err
			}

			handler, err := newServeHandler(a, upstream, b.checks)
			if err != nil {
				return err
			}

			certs := server.NewCertificateCache(
				bundleLoader(iss, refresh),
				domains,
				server.WithRefreshWindow(refresh),
				server.WithLoadTimeout(loadTimeout),
				server.WithCacheLogger(a.log.With(logger.Component("certificates"))),
			)

			opts := []server.Option{server.WithLogger(a.log.With(logger.Component("server")))}
			if a.cfg.Server.TLSCertFile == "" && a.cfg.Server.TLSKeyFile == "" {
				opts = append(opts, server.WithTLS(certs.TLSConfig()))
			}
			srv, err := server.NewFromConfig(a.cfg.Server, opts...)
			if err != nil {
				return err
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(srv.Run(ctx, handler))
			if warm {
				eg.Go(func() error {
					for _, d := range domains {
						if _, err := certs.Certificate(ctx, d); err != nil {
							a.log.WarnContext(ctx, "certificate warm-up failed", logger.Domain(d), logger.Error(err))
						}
					}
					return nil
				})
			}
			return eg.Wait()
		},
	}

	cmd.Flags().StringVar(&upstream, "upstream", "", "reverse proxy target for non-health requests")
	cmd.Flags().DurationVar(&refresh, "refresh", 7*24*time.Hour, "reissue certificates expiring within this window")
	cmd.Flags().DurationVar(&loadTimeout, "load-timeout", 15*time.Minute, "upper bound for loading or issuing one certificate")
	cmd.Flags().BoolVar(&warm, "warm", true, "load every certificate at startup instead of on first handshake")

	return cmd
}

// bundleLoader obtains a bundle, forcing reissue when the cached one is
// about to expire.
func bundleLoader(iss *issuer.Issuer, refresh time.Duration) server.BundleLoader {
	return func(ctx context.Context, domain string) (pki.Bundle, error) {
		req := issuer.Request{Domain: domain, Persist: true}
		res, err := iss.Obtain(ctx, req)
		if err != nil {
			return pki.Bundle{}, err
		}
		if !res.Cached {
			return res.Bundle, nil
		}

		soon, err := res.Bundle.ExpiresWithin(time.Now(), refresh)
		if err != nil || !soon {
			return res.Bundle, nil
		}

		req.Force = true
		fresh, err := iss.Obtain(ctx, req)
		if err != nil {
			// The cached certificate is still valid for a while.
			return res.Bundle, nil
		}
		return fresh.Bundle, nil
	}
}

func newServeHandler(a *app, upstream string, checks []health.Check) (http.Handler, error) {
	mux := http.NewServeMux()
	health.Mount(mux, a.log.With(logger.Component("health")), checks...)

	if upstream == "" {
		mux.Handle("/", http.NotFoundHandler())
		return mux, nil
	}

	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", upstream)
	}
	mux.Handle("/", httputil.NewSingleHostReverseProxy(target))
	return mux, nil
}
