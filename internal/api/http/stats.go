package http

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// StatsSnapshot combines catalog statistics with service metrics
type StatsSnapshot struct {
	Timestamp time.Time                   `json:"timestamp"`
	Catalog   types.CatalogStats          `json:"catalog"`
	Metrics   *monitoring.MetricsSnapshot `json:"metrics,omitempty"`
	Summary   StatsSummary                `json:"summary"`
}

// StatsSummary provides high-level numbers
type StatsSummary struct {
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
	Passes        int64   `json:"passes"`
	FailedPasses  int64   `json:"failed_passes"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Stats returns catalog and metrics statistics
func (h *Handlers) Stats(c *gin.Context) {
	snapshot := StatsSnapshot{
		Timestamp: time.Now(),
		Catalog:   h.catalog.Stats(),
		Summary:   StatsSummary{UptimeSeconds: time.Since(h.started).Seconds()},
	}

	if h.metrics != nil {
		m := h.metrics.Snapshot()
		snapshot.Metrics = &m
		snapshot.Summary = StatsSummary{
			TotalRequests: m.TotalRequests,
			ErrorRate:     h.metrics.ErrorRate(),
			Passes:        m.Passes,
			FailedPasses:  m.FailedPasses,
			UptimeSeconds: m.UptimeSeconds,
		}
	}

	c.JSON(http.StatusOK, snapshot)
}
