package server

import (
	"context"
	"errors"
	"sync"

	"github.com/GriffinCanCode/showcase/internal/api/http"
	"github.com/GriffinCanCode/showcase/internal/domain/catalog"
	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/domain/hotreload"
	"github.com/GriffinCanCode/showcase/internal/domain/reconcile"
	"github.com/GriffinCanCode/showcase/internal/domain/source"
	"github.com/GriffinCanCode/showcase/internal/domain/watch"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/config"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/logging"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/tracing"
	"go.uber.org/zap"
)

// App wires the stories directory through the hot-reload coordinator into an
// in-memory catalog. It is shared by the HTTP server and the CLI.
type App struct {
	Catalog *catalog.Memory
	Source  *source.Dir
	Channel *hotreload.MemoryChannel

	cfg         *config.Config
	logger      *logging.Logger
	metrics     *monitoring.Metrics
	coordinator *hotreload.Coordinator
	tracer      *tracing.Tracer

	reloadMu sync.Mutex
	onPass   []func(*reconcile.Result)
}

// NewApp builds the catalog pipeline. metrics may be nil.
func NewApp(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) *App {
	notifier := deprecation.New(logger.Component("deprecation"))

	store := catalog.NewMemory(logger.Component("catalog"))
	if metrics != nil {
		store.WithMetrics(metrics)
	}

	engine := reconcile.NewEngine(store, notifier, logger.Component("reconcile"))
	if metrics != nil {
		engine.SetRecorder(metrics)
	}

	dir := source.NewDir(cfg.Stories.Dir, source.Options{
		Patterns: cfg.Stories.Patterns,
	}, logger.Component("source"))

	return &App{
		Catalog:     store,
		Source:      dir,
		Channel:     hotreload.NewMemoryChannel(),
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		coordinator: hotreload.NewCoordinator(engine, notifier, logger.Component("hotreload")),
	}
}

// WithTracer records a span for every reload
func (a *App) WithTracer(tracer *tracing.Tracer) *App {
	a.tracer = tracer
	return a
}

// OnPass registers fn to run with the result of every load and reload. Call
// it before Load.
func (a *App) OnPass(fn func(*reconcile.Result)) *App {
	a.onPass = append(a.onPass, fn)
	return a
}

// Load runs the first pass over the stories directory
func (a *App) Load() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	return a.configure()
}

// Reload runs one reload cycle: the channel hands the previous snapshot over
// and the coordinator reconciles the directory against it. Overlapping calls
// fail with http.ErrReloadInProgress.
func (a *App) Reload(ctx context.Context) error {
	if !a.reloadMu.TryLock() {
		return http.ErrReloadInProgress
	}
	defer a.reloadMu.Unlock()

	if a.tracer == nil {
		return a.reload()
	}

	span, _ := a.tracer.StartSpan(ctx, "reload")
	err := a.reload()
	if result := a.coordinator.LastResult(); result != nil {
		span.SetTag("pass_id", result.PassID)
	}
	if err != nil {
		span.SetError(err)
	}
	span.Finish()
	a.tracer.Submit(span)
	return err
}

func (a *App) reload() error {
	a.Channel.Reload()
	return a.configure()
}

func (a *App) configure() error {
	before := a.coordinator.LastResult()
	err := a.coordinator.Configure(a.cfg.Stories.Framework, a.Source, a.Channel, a.cfg.Stories.ShowDeprecations)
	if result := a.coordinator.LastResult(); result != nil && result != before {
		for _, fn := range a.onPass {
			fn(result)
		}
	}
	return err
}

// LastResult returns the most recent pass result
func (a *App) LastResult() *reconcile.Result {
	return a.coordinator.LastResult()
}

// Watch reloads on story file changes until ctx is cancelled
func (a *App) Watch(ctx context.Context) error {
	root := a.Source.Root()
	w := watch.New(root, watch.Options{
		Debounce: a.cfg.Watch.Debounce,
		Filter:   watch.FilterRelative(root, a.Source.Matches),
		Retry:    func(err error) bool { return errors.Is(err, http.ErrReloadInProgress) },
		Logger:   a.logger.Component("watch"),
		Metrics:  a.metrics,
	})

	err := w.Run(ctx, func() error { return a.Reload(ctx) })
	stats := w.Stats()
	a.logger.Info("Watcher finished",
		zap.Int64("events", stats.Events),
		zap.Int64("reloads", stats.Reloads),
		zap.Int64("errors", stats.Errors),
	)
	return err
}
