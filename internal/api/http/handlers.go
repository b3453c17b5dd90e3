package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GriffinCanCode/showcase/internal/domain/catalog"
	"github.com/GriffinCanCode/showcase/internal/domain/reconcile"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// ErrReloadInProgress may be returned by a Reloader that refuses overlapping cycles
var ErrReloadInProgress = errors.New("reload already in progress")

// Reloader runs a reload cycle against the stories source
type Reloader interface {
	Reload(ctx context.Context) error
	LastResult() *reconcile.Result
}

// Handlers contains all HTTP handlers
type Handlers struct {
	catalog  *catalog.Memory
	reloader Reloader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	hub      *Hub
	started  time.Time
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(store *catalog.Memory, reloader Reloader, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		catalog:  store,
		reloader: reloader,
		metrics:  metrics,
		logger:   logger,
		started:  time.Now(),
	}
}

// WithHub enables the /ws change stream
func (h *Handlers) WithHub(hub *Hub) *Handlers {
	h.hub = hub
	return h
}

// Register mounts every route on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.GET("/groups", h.ListGroups)
	api.GET("/groups/:title", h.GetGroup)
	api.GET("/entries", h.ListEntries)
	api.GET("/entries/:id", h.GetEntry)
	api.POST("/entries/:id/render", h.RenderEntry)
	api.GET("/stats", h.Stats)
	api.POST("/reload", h.Reload)

	if h.hub != nil {
		router.GET("/ws", h.Stream)
	}
}

// Root handles the status check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "showcase",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	groups, entries := h.catalog.Len()
	body := gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.started).Seconds(),
		"catalog":        gin.H{"groups": groups, "entries": entries},
	}
	if h.reloader != nil {
		body["last_pass"] = passSummary(h.reloader.LastResult())
	}
	c.JSON(http.StatusOK, body)
}

// ListGroups lists group summaries in registration order
func (h *Handlers) ListGroups(c *gin.Context) {
	groups := h.catalog.Groups()
	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"total":  len(groups),
	})
}

// GetGroup returns one group with its entries
func (h *Handlers) GetGroup(c *gin.Context) {
	title := c.Param("title")
	group, ok := h.catalog.Group(title)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found", "title": title})
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListEntries lists entries, optionally filtered by ?group=<title>
func (h *Handlers) ListEntries(c *gin.Context) {
	entries := h.catalog.Entries(c.Query("group"))
	if entries == nil {
		entries = []types.EntrySummary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// GetEntry returns one entry; ?render=true includes its rendered output
func (h *Handlers) GetEntry(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.catalog.Entry(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found", "id": id})
		return
	}

	body := gin.H{"entry": entry.Summary()}
	if c.Query("render") == "true" {
		body["output"] = entry.Render(nil)
	}
	c.JSON(http.StatusOK, body)
}

// RenderRequest carries arg overrides for a render
type RenderRequest struct {
	Args types.Args `json:"args"`
}

// RenderEntry renders an entry with the posted arg overrides
func (h *Handlers) RenderEntry(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.catalog.Entry(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found", "id": id})
		return
	}

	var req RenderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     entry.ID,
		"output": entry.Render(req.Args),
	})
}

// Reload runs a reload cycle and reports the resulting pass
func (h *Handlers) Reload(c *gin.Context) {
	if h.reloader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reload not available"})
		return
	}

	if err := h.reloader.Reload(c.Request.Context()); err != nil {
		h.logger.Warn("reload request failed", zap.Error(err))
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrReloadInProgress) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
			"pass":    passSummary(h.reloader.LastResult()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pass":    passSummary(h.reloader.LastResult()),
	})
}

func passSummary(result *reconcile.Result) gin.H {
	if result == nil {
		return nil
	}
	return gin.H{
		"id":                 result.PassID,
		"added":              len(result.Diff.Added),
		"removed":            len(result.Diff.Removed),
		"unchanged":          len(result.Diff.Unchanged),
		"groups_registered":  result.GroupsRegistered,
		"groups_removed":     result.GroupsRemoved,
		"entries_registered": result.EntriesRegistered,
		"duration_ms":        float64(result.Duration.Microseconds()) / 1000,
	}
}
