package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/showcase/internal/api/http"
	"github.com/GriffinCanCode/showcase/internal/api/middleware"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/config"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/logging"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/tracing"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	app      *App
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	registry *prometheus.Registry
	tracer   *tracing.Tracer
	hub      *http.Hub
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	logger := logging.NewFromSettings(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing showcase server",
		zap.String("port", cfg.Server.Port),
		zap.String("stories_dir", cfg.Stories.Dir),
		zap.String("framework", cfg.Stories.Framework),
	)

	// Metrics first; the catalog and engine record into them
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetricsWithRegistry(registry)
	logger.Info("Performance monitoring initialized")

	tracer := tracing.New("showcase", logger.Component("trace"))
	logger.Info("Tracing initialized")

	hub := http.NewHub(logger.Component("ws"))
	app := NewApp(cfg, logger, metrics).WithTracer(tracer).OnPass(hub.Publish)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers := http.NewHandlers(app.Catalog, app, metrics, logger.Component("api")).WithHub(hub)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		app:      app,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: registry,
		tracer:   tracer,
		hub:      hub,
	}, nil
}

// Router returns the HTTP handler
func (s *Server) Router() *gin.Engine {
	return s.router
}

// App returns the catalog pipeline
func (s *Server) App() *App {
	return s.app
}

// Run loads the stories, starts the watcher when enabled and serves HTTP
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.app.Load(); err != nil {
		// Keep serving; the next reload retries from the last good snapshot
		s.logger.Warn("Initial load failed", zap.Error(err))
	} else {
		groups, entries := s.app.Catalog.Len()
		s.logger.Info("Stories loaded", zap.Int("groups", groups), zap.Int("entries", entries))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan struct{})
	if s.config.Watch.Enabled {
		go func() {
			defer close(watchDone)
			if err := s.app.Watch(ctx); err != nil {
				s.logger.Error("Watcher stopped", zap.Error(err))
			}
		}()
	} else {
		close(watchDone)
	}

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	cancel()
	// Hijacked websocket connections are not tracked by Shutdown
	s.hub.Close()
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("failed to shut down http server: %w", err)
	}
	<-watchDone

	return serveErr
}

// Close drains pending spans and flushes the logger. Call it after Run returns.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.tracer.Close()
	_ = s.logger.Sync()
	return nil
}
