package monitoring

import "time"

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}

// ErrorRate returns the share of HTTP requests that failed
func (m *Metrics) ErrorRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot.TotalRequests == 0 {
		return 0
	}
	return float64(m.snapshot.TotalErrors) / float64(m.snapshot.TotalRequests)
}
