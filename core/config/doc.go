// Package config loads environment-driven configuration structs.
//
// An optional .env file is read once on first use (existing environment
// variables always win), then the caarlos0/env library parses `env:` struct
// tags into the provided value. There is no package-level configuration
// state: callers own the loaded structs and pass them to constructors.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/certkit/core/config"
//
//	var cfg zerossl.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := zerossl.New(cfg)
//
// Several structs can be loaded in a single call:
//
//	var (
//		caCfg     zerossl.Config
//		issuerCfg issuer.Config
//	)
//	config.MustLoad(&caCfg, &issuerCfg)
package config
