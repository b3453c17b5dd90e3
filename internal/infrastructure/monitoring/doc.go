/*
Package monitoring provides metrics collection for the showcase server.

# Overview

This package implements Prometheus-based metrics collection, tracking HTTP
requests, reconciliation passes, catalog size and watcher activity.

# Features

- HTTP request metrics (latency, throughput, size)
- Reconciliation pass metrics (outcome, duration, registrations, removals)
- Catalog size gauges
- Watcher event and reload counters
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record reconciliation statistics
	engine.SetRecorder(metrics)

	// Time watcher reloads
	timer := monitoring.NewTimer(metrics)
	// ... reload ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
