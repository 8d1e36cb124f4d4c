// Package logger provides structured logging helpers built on Go's standard slog package.
//
// It offers a small factory for text or JSON loggers and a set of attribute helpers
// with consistent keys for the certificate issuance and transport token flows.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/certkit/core/logger"
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(slog.String("service", "certkit")),
//	)
//
//	log.Info("certificate requested",
//		logger.Component("issuer"),
//		logger.Domain("example.com"),
//		logger.OrderID(order.ID),
//	)
//
// # Nil Safety
//
// Helpers that receive an empty value return an empty slog.Attr, which slog drops.
// This allows calls like log.Warn("msg", logger.Error(err)) without nil checks.
//
// # Secrets
//
// There is intentionally no helper for key material. Private keys and transport
// tokens must never be passed to a logger.
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
