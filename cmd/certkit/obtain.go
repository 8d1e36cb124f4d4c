package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/certkit/core/certstore"
	"github.com/dmitrymomot/certkit/core/issuer"
	"github.com/dmitrymomot/certkit/core/logger"
)

func newObtainCmd(a *app) *cobra.Command {
	var (
		port    int
		persist bool
		force   bool
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "obtain <domain>",
		Short: "Obtain a certificate for a domain",
		Long: `Obtain a domain-validated certificate.

A cached bundle is returned without contacting the CA. Otherwise a new key and
CSR are created, the HTTP file challenge is served on ISSUER_CHALLENGE_ADDR
(or --port) until ZeroSSL validates it, and the issued bundle is cached.

Cache layout (dir backend): by default every domain gets its own directory,
CERTKIT_CACHE_DIR/<domain>/{tls.cert,ca.cert,tls.key}. Set
CERTKIT_FLAT_LAYOUT=true to keep a single bundle as tls.cert, ca.cert and
tls.key directly in CERTKIT_CACHE_DIR.

Examples:
  certkit obtain example.com
  certkit obtain example.com --port 8080 --out ./tls
  certkit obtain example.com --force
  CERTKIT_FLAT_LAYOUT=true CERTKIT_CACHE_DIR=/etc/tls certkit obtain example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			res, err := iss.Obtain(ctx, issuer.Request{
				Domain:  args[0],
				Port:    port,
				Persist: persist,
				Force:   force,
			})
			if err != nil {
				return err
			}
			if res.PersistErr != nil {
				a.log.WarnContext(ctx, "certificate issued but not cached", logger.Domain(res.Domain), logger.Error(res.PersistErr))
			}

			if outDir != "" {
				if err := writeBundle(outDir, res); err != nil {
					return err
				}
			}

			source := "issued"
			if res.Cached {
				source = "cache"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "domain: %s\nsource: %s\nrun:    %s\n", res.Domain, source, res.RunID)
			if res.OrderID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "order:  %s\n", res.OrderID)
			}
			if leaf, err := res.Bundle.Leaf(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "expiry: %s\n", leaf.NotAfter.UTC().Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "challenge server port, overrides the port of ISSUER_CHALLENGE_ADDR")
	cmd.Flags().BoolVar(&persist, "persist", true, "cache the issued bundle")
	cmd.Flags().BoolVar(&force, "force", false, "ignore a cached bundle and issue a new certificate")
	cmd.Flags().StringVar(&outDir, "out", "", "also write tls.cert, ca.cert and tls.key to this directory")

	return cmd
}

// writeBundle writes the bundle files; the key is only readable by the owner.
func writeBundle(dir string, res *issuer.Result) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name string
		data string
		perm os.FileMode
	}{
		{certstore.CertificateKey, res.Bundle.Certificate, 0o644},
		{certstore.CABundleKey, res.Bundle.CABundle, 0o644},
		{certstore.PrivateKeyKey, res.Bundle.PrivateKey, 0o600},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.data), f.perm); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
