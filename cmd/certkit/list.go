package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/certkit/core/certstore"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached certificates",
		Long: `List domains in the certificate store with their expiry.

Not available with CERTKIT_FLAT_LAYOUT, which holds a single bundle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			b, err := openBackend(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer b.close()

			domains, err := b.store.Domains(ctx)
			if errors.Is(err, errors.ErrUnsupported) {
				return fmt.Errorf("backend %q cannot list domains in this layout", a.cfg.Backend)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tEXPIRES\tSTATUS")
			for _, d := range domains {
				expires, status := "-", "ok"
				bundle, err := b.store.Load(ctx, d)
				switch {
				case errors.Is(err, certstore.ErrIncompleteBundle):
					status = "incomplete"
				case err != nil:
					status = "error"
				default:
					if leaf, err := bundle.Leaf(); err == nil {
						expires = leaf.NotAfter.UTC().Format("2006-01-02")
					} else {
						status = "invalid"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d, expires, status)
			}
			return w.Flush()
		},
	}
}
