package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Reconciliation metrics
	PassesTotal       *prometheus.CounterVec
	PassDuration      prometheus.Histogram
	GroupsRegistered  prometheus.Counter
	GroupsRemoved     prometheus.Counter
	EntriesRegistered prometheus.Counter

	// Catalog metrics
	CatalogGroups  prometheus.Gauge
	CatalogEntries prometheus.Gauge

	// Watcher metrics
	WatchEvents  prometheus.Counter
	WatchReloads *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	Passes          int64   `json:"passes"`
	FailedPasses    int64   `json:"failed_passes"`
	LastPassSeconds float64 `json:"last_pass_seconds"`
	Groups          int64   `json:"groups"`
	Entries         int64   `json:"entries"`
	Reloads         int64   `json:"reloads"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on the default Prometheus registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a metrics collector registered with reg
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showcase_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showcase_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Reconciliation metrics
		PassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_reconcile_passes_total",
				Help: "Total number of reconciliation passes",
			},
			[]string{"outcome"},
		),
		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "showcase_reconcile_pass_duration_seconds",
				Help:    "Reconciliation pass duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		GroupsRegistered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "showcase_groups_registered_total",
				Help: "Total number of group registrations",
			},
		),
		GroupsRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "showcase_groups_removed_total",
				Help: "Total number of group removals",
			},
		),
		EntriesRegistered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "showcase_entries_registered_total",
				Help: "Total number of entry registrations",
			},
		),

		// Catalog metrics
		CatalogGroups: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "showcase_catalog_groups",
				Help: "Number of groups in the catalog",
			},
		),
		CatalogEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "showcase_catalog_entries",
				Help: "Number of entries in the catalog",
			},
		),

		// Watcher metrics
		WatchEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "showcase_watch_events_total",
				Help: "Total number of file system events seen by the watcher",
			},
		),
		WatchReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_watch_reloads_total",
				Help: "Total number of watcher-triggered reloads",
			},
			[]string{"status"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "showcase_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordPass records a reconciliation pass outcome
func (m *Metrics) RecordPass(outcome string, duration time.Duration) {
	m.PassesTotal.WithLabelValues(outcome).Inc()
	m.PassDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Passes++
	if outcome != "success" {
		m.snapshot.FailedPasses++
	}
	m.snapshot.LastPassSeconds = duration.Seconds()
	m.mu.Unlock()
}

// RecordGroupRegistered increments the group registration counter
func (m *Metrics) RecordGroupRegistered() {
	m.GroupsRegistered.Inc()
}

// RecordGroupRemoved increments the group removal counter
func (m *Metrics) RecordGroupRemoved() {
	m.GroupsRemoved.Inc()
}

// RecordEntryRegistered increments the entry registration counter
func (m *Metrics) RecordEntryRegistered() {
	m.EntriesRegistered.Inc()
}

// SetCatalogSize sets the catalog gauges
func (m *Metrics) SetCatalogSize(groups, entries int) {
	m.CatalogGroups.Set(float64(groups))
	m.CatalogEntries.Set(float64(entries))

	m.mu.Lock()
	m.snapshot.Groups = int64(groups)
	m.snapshot.Entries = int64(entries)
	m.mu.Unlock()
}

// RecordWatchEvent increments the watcher event counter
func (m *Metrics) RecordWatchEvent() {
	m.WatchEvents.Inc()
}

// RecordWatchReload records a watcher-triggered reload
func (m *Metrics) RecordWatchReload(status string) {
	m.WatchReloads.WithLabelValues(status).Inc()

	m.mu.Lock()
	m.snapshot.Reloads++
	m.mu.Unlock()
}
