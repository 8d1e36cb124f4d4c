package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/certkit/core/config"
	"github.com/dmitrymomot/certkit/core/logger"
)

// app is the state shared by subcommands after the root pre-run.
type app struct {
	cfg Config
	log *slog.Logger

	logLevel string
	envFile  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "certkit",
		Short: "Domain-validated TLS certificates and transport tokens",
		Long: `Obtain domain-validated TLS certificates from ZeroSSL, serve HTTPS with them
and manage the RSA keypair used for transport tokens.

Configuration is read from the environment (and an optional .env file).

Examples:
  # Obtain and cache a certificate
  ZEROSSL_API_KEY=... certkit obtain example.com

  # Serve HTTPS for cached domains, issuing on demand
  certkit serve example.com www.example.com

  # Create the transport keypair and seal a token
  certkit transport keygen
  certkit transport encrypt my-token`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides CERTKIT_LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to read before the environment")

	cmd.AddCommand(newObtainCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newTransportCmd(a))

	return cmd
}

func (a *app) load(logOut io.Writer) error {
	if a.envFile != "" {
		config.DotEnvFiles = []string{a.envFile}
	}
	if err := config.Load(&a.cfg); err != nil {
		return err
	}

	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}

	opts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(level)),
		logger.WithOutput(logOut),
	}
	if strings.EqualFold(a.cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	}
	a.log = logger.New(opts...)
	return nil
}
