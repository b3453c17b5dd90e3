// Package server assembles the showcase service.
//
// It orchestrates:
//   - the catalog pipeline (stories directory, hot-reload coordinator,
//     reconciliation engine, in-memory catalog)
//   - the fsnotify watcher driving reload cycles
//   - HTTP routing with Gin and the middleware stack (recovery, metrics,
//     CORS, rate limiting)
//   - Prometheus metrics on a private registry served at /metrics
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger and metrics
//  3. Load stories into the catalog
//  4. Start the watcher (when enabled)
//  5. Serve HTTP until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	err = srv.Run(ctx)
package server
