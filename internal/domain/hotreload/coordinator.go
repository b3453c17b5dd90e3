package hotreload

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/domain/loader"
	"github.com/GriffinCanCode/showcase/internal/domain/reconcile"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"go.uber.org/zap"
)

// ErrInvalidReloadHandle is returned when the reload handle is not a Channel
var ErrInvalidReloadHandle = errors.New("invalid reload handle")

const configureMessage = "Configure is deprecated; export stories from modules and load them " +
	"through a module context instead"

// Channel persists state across reload cycles
type Channel interface {
	// LoadPersisted returns the snapshot handed over by the previous cycle
	LoadPersisted() (types.Snapshot, bool)
	OnBeforeTeardown(hook func() types.Snapshot)
	OnAfterAccept(hook func())
}

// Coordinator owns the snapshot between passes and serializes loads
type Coordinator struct {
	mu       sync.Mutex
	engine   *reconcile.Engine
	notifier *deprecation.Notifier
	logger   *zap.Logger

	snapshot types.Snapshot
	loaded   bool
	last     *reconcile.Result
}

// NewCoordinator creates a coordinator driving engine.
// A nil notifier uses the process-wide one.
func NewCoordinator(engine *reconcile.Engine, notifier *deprecation.Notifier, logger *zap.Logger) *Coordinator {
	if notifier == nil {
		notifier = deprecation.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		engine:   engine,
		notifier: notifier,
		logger:   logger,
	}
}

// Configure is the deprecated entrypoint. reloadHandle must be nil or a Channel.
func (c *Coordinator) Configure(framework string, loadable interface{}, reloadHandle interface{}, showDeprecationWarning bool) error {
	if showDeprecationWarning {
		c.notifier.Notify(deprecation.Configure, configureMessage)
	}

	var channel Channel
	switch h := reloadHandle.(type) {
	case nil:
	case Channel:
		channel = h
	case string:
		return fmt.Errorf("%w: got string %q, expected a reload channel", ErrInvalidReloadHandle, h)
	default:
		return fmt.Errorf("%w: got %T, expected a reload channel", ErrInvalidReloadHandle, reloadHandle)
	}

	return c.Load(framework, loadable, channel)
}

// Load runs one reconciliation pass. With a channel the previous snapshot is
// restored from it and handed back on teardown; without one every call starts
// from an empty snapshot.
func (c *Coordinator) Load(framework string, loadable interface{}, channel Channel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := types.Snapshot{}
	if channel != nil {
		if persisted, ok := channel.LoadPersisted(); ok {
			previous = persisted
		}
		channel.OnBeforeTeardown(c.teardown)
		channel.OnAfterAccept(func() {})
	}

	if c.loaded {
		c.logger.Warn("unexpected repeated load; did you mean to reload through the channel?",
			zap.String("framework", framework))
	}
	c.loaded = true

	units, err := loader.Normalize(loadable, c.logger)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	result, err := c.engine.Reconcile(framework, previous, units)
	c.last = result
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	c.snapshot = types.NewSnapshot(units)
	return nil
}

// teardown clears the load state and returns the latest snapshot
func (c *Coordinator) teardown() types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	return c.snapshot
}

// Loaded reports whether a load is active
func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Snapshot returns the units registered by the last successful pass
func (c *Coordinator) Snapshot() types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// LastResult returns the result of the most recent pass, if any
func (c *Coordinator) LastResult() *reconcile.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
