package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/certkit/pkg/transport"
)

func newTransportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transport",
		Short: "Transport token keys and codec",
		Long: `Manage the RSA keypair used to seal transport tokens.

Commands:
  keygen      Create the keypair if it does not exist
  public-key  Print the public key PEM
  encrypt     Seal a token with the current time
  decrypt     Open a sealed token`,
	}

	cmd.AddCommand(newTransportKeygenCmd(a))
	cmd.AddCommand(newTransportPublicKeyCmd(a))
	cmd.AddCommand(newTransportEncryptCmd(a))
	cmd.AddCommand(newTransportDecryptCmd(a))
	return cmd
}

func newTransportKeygenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Create the transport keypair if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := transport.NewKeyStore(a.cfg.Transport)
			if err != nil {
				return err
			}
			pub, priv, err := keys.GetOrCreateKeyPair(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "public:  %s\nprivate: %s\n", pub, priv)
			return nil
		},
	}
}

func newTransportPublicKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "public-key",
		Short: "Print the transport public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := transport.NewKeyStore(a.cfg.Transport)
			if err != nil {
				return err
			}
			pem, err := keys.PublicKeyPEM(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), pem)
			return nil
		},
	}
}

func newTransportEncryptCmd(a *app) *cobra.Command {
	var timestamp int64

	cmd := &cobra.Command{
		Use:   "encrypt <token>",
		Short: "Seal a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := transport.NewKeyStore(a.cfg.Transport)
			if err != nil {
				return err
			}
			codec := transport.NewCodec(keys)
			var sealed string
			if cmd.Flags().Changed("timestamp") {
				sealed, err = codec.Seal(cmd.Context(), args[0], timestamp)
			} else {
				sealed, err = codec.SealNow(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "unix seconds to embed (any integer, including 0); defaults to now")
	return cmd
}

func newTransportDecryptCmd(a *app) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Open a sealed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := transport.NewKeyStore(a.cfg.Transport)
			if err != nil {
				return err
			}
			tok, err := transport.NewCodec(keys).OpenFresh(cmd.Context(), args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token:  %s\nissued: %s\n", tok.Value, tok.Time().UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "reject tokens older than this; zero accepts any age")
	return cmd
}
