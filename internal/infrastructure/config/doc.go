// Package config provides 12-factor configuration management for the showcase server.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Stories: Story module directory, glob patterns and framework tag
//   - Watch: File watcher toggle and debounce window
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Stories.Dir, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - STORIES_DIR, STORIES_PATTERNS, FRAMEWORK, SHOW_DEPRECATIONS
//   - WATCH_ENABLED, WATCH_DEBOUNCE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
