package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Options tunes the watcher
type Options struct {
	// Debounce is the quiet period after the last event before the action fires.
	// Default: 250ms.
	Debounce time.Duration
	// Filter selects the files whose events count; nil accepts every file
	Filter func(path string) bool
	// Retry reports whether a failed action should run again after the next
	// quiet period without waiting for a new event
	Retry   func(err error) bool
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

func (o *Options) defaults() {
	if o.Debounce <= 0 {
		o.Debounce = 250 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Stats are point-in-time counters
type Stats struct {
	Events        int64         `json:"events"`
	Reloads       int64         `json:"reloads"`
	Errors        int64         `json:"errors"`
	AvgReloadTime time.Duration `json:"avg_reload_time"`
}

// Watcher runs an action when files under a root change
type Watcher struct {
	root string
	opts Options

	// watched is owned by the Run goroutine
	watched map[string]struct{}

	events   atomic.Int64
	reloads  atomic.Int64
	errors   atomic.Int64
	reloadNs atomic.Int64
}

// New creates a watcher for root. Call Run to start it.
func New(root string, opts Options) *Watcher {
	opts.defaults()
	return &Watcher{root: root, opts: opts}
}

// Stats returns the current counters
func (w *Watcher) Stats() Stats {
	s := Stats{
		Events:  w.events.Load(),
		Reloads: w.reloads.Load(),
		Errors:  w.errors.Load(),
	}
	if s.Reloads > 0 {
		s.AvgReloadTime = time.Duration(w.reloadNs.Load() / s.Reloads)
	}
	return s
}

// Run blocks until ctx is cancelled. Each burst of matching events is
// collapsed into one action call once Debounce passes without new events.
// A failing action is logged; the next event triggers it again unless
// Options.Retry asks for another attempt.
func (w *Watcher) Run(ctx context.Context, action func() error) error {
	log := w.opts.Logger

	if info, err := os.Stat(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	} else if !info.IsDir() {
		return fmt.Errorf("failed to watch %s: not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	w.watched = make(map[string]struct{})
	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	pending := false

	log.Info("watch started", zap.String("root", w.root), zap.Duration("debounce", w.opts.Debounce))

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.events.Add(1)
			if w.opts.Metrics != nil {
				w.opts.Metrics.RecordWatchEvent()
			}
			pending = true

			// (Re)start the quiet period
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.opts.Debounce)
			debounceCh = debounceTimer.C
			log.Debug("change detected, debouncing", zap.String("path", event.Name), zap.String("op", event.Op.String()))

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.errors.Add(1)
			log.Warn("watch error", zap.Error(err))

		case <-debounceCh:
			debounceCh = nil
			if pending {
				pending = false
				if err := w.fire(action); err != nil && w.opts.Retry != nil && w.opts.Retry(err) {
					pending = true
					debounceTimer = time.NewTimer(w.opts.Debounce)
					debounceCh = debounceTimer.C
				}
			}
		}
	}
}

// relevant reports whether an event should trigger a reload. New directories
// are added to the watch set; removed or renamed ones leave it.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if w.forget(fsw, event.Name) {
			return true
		}
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.opts.Logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return true
		}
	}
	if w.opts.Filter == nil {
		return true
	}
	return w.opts.Filter(event.Name)
}

// addTree watches dir and every directory below it
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	var mu sync.Mutex
	var dirs []string

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			mu.Lock()
			dirs = append(dirs, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
		w.watched[d] = struct{}{}
	}
	return nil
}

// forget drops dir and everything below it from the watch set and reports
// whether dir was being watched
func (w *Watcher) forget(fsw *fsnotify.Watcher, dir string) bool {
	if _, ok := w.watched[dir]; !ok {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for d := range w.watched {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.watched, d)
			// Already gone when the directory was deleted
			_ = fsw.Remove(d)
		}
	}
	return true
}

func (w *Watcher) fire(action func() error) error {
	timer := monitoring.NewTimer(w.opts.Metrics)
	err := action()
	if err != nil {
		if w.opts.Retry != nil && w.opts.Retry(err) {
			w.opts.Logger.Debug("reload deferred", zap.Error(err))
			return err
		}
		w.errors.Add(1)
		w.opts.Logger.Warn("reload failed", zap.Error(err))
		timer.Stop("error")
		return err
	}
	elapsed := timer.Stop("success")
	w.reloads.Add(1)
	w.reloadNs.Add(elapsed.Nanoseconds())
	w.opts.Logger.Info("reloaded", zap.Duration("duration", elapsed))
	return nil
}

// FilterRelative adapts a root-relative slash path matcher into a Filter
func FilterRelative(root string, match func(rel string) bool) func(path string) bool {
	return func(p string) bool {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return false
		}
		return match(filepath.ToSlash(rel))
	}
}
