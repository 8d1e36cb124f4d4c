// Package server wraps http.Server with a synchronously bound listener,
// graceful shutdown and TLS helpers.
//
// Start binds the listener before it returns and serves in the background,
// which lets short-lived servers (such as a domain validation endpoint) be
// reachable the moment the caller moves on. Stop shuts the server down
// gracefully and releases the port. Run wraps both for errgroup-style
// lifecycles.
//
// # Basic Usage
//
//	srv := server.New(":80", server.WithLogger(logger))
//	if err := srv.Start(ctx, handler); err != nil {
//		return err
//	}
//	defer srv.Stop()
//
//	fmt.Println("listening on", srv.Addr())
//
// # Long-running servers
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// # TLS
//
// BundleTLSConfig serves a single issued bundle. CertificateCache loads
// bundles lazily per SNI name and reloads them shortly before expiry:
//
//	cache := server.NewCertificateCache(func(ctx context.Context, domain string) (pki.Bundle, error) {
//		return store.Load(ctx)
//	}, []string{"example.com"})
//
//	srv := server.New(":443", server.WithTLS(cache.TLSConfig()))
//
// # Configuration
//
// Config can be populated from SERVER_* environment variables through
// core/config and turned into a Server with NewFromConfig.
//
// # Defaults
//
//   - ReadTimeout: 15 seconds
//   - ReadHeaderTimeout: 5 seconds
//   - WriteTimeout: 15 seconds
//   - IdleTimeout: 60 seconds
//   - MaxHeaderBytes: 1MB
//   - Graceful shutdown timeout: 10 seconds
//   - Logger: discards everything
package server
