// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Log Levels:
//   - Debug: Verbose debugging information
//   - Info: General informational messages
//   - Warn: Warning messages
//   - Error: Error messages
//   - Fatal: Fatal errors (exits process)
//
// Features:
//   - Zero-allocation logging in production
//   - Structured fields for context
//   - Configurable output paths
//   - Named child loggers per component (loader, reconcile, hotreload, watch)
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Catalog loaded", zap.Int("groups", 12))
//	engineLog := logger.Component("reconcile")
//	engineLog.Warn("No exported entries", zap.String("title", "Button"))
package logging
