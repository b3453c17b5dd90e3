package reconcile

import (
	"time"

	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pass outcomes reported to the Recorder
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder receives pass statistics
type Recorder interface {
	RecordPass(outcome string, duration time.Duration)
	RecordGroupRegistered()
	RecordGroupRemoved()
	RecordEntryRegistered()
}

type nopRecorder struct{}

func (nopRecorder) RecordPass(string, time.Duration) {}
func (nopRecorder) RecordGroupRegistered()           {}
func (nopRecorder) RecordGroupRemoved()              {}
func (nopRecorder) RecordEntryRegistered()           {}

// Diff partitions units by handle
type Diff struct {
	Added     []types.Unit
	Removed   []types.Unit
	Unchanged []types.Unit
}

// Result summarizes one reconciliation pass
type Result struct {
	PassID            string
	Diff              Diff
	GroupsRegistered  []string
	GroupsRemoved     []string
	EntriesRegistered int
	Duration          time.Duration
}

// Engine diffs successive loads and drives registration against a store
type Engine struct {
	store      types.Store
	notifier   *deprecation.Notifier
	recognizer Recognizer
	recorder   Recorder
	logger     *zap.Logger
}

// NewEngine creates an engine writing to store.
// A nil notifier uses the process-wide one.
func NewEngine(store types.Store, notifier *deprecation.Notifier, logger *zap.Logger) *Engine {
	if notifier == nil {
		notifier = deprecation.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		notifier:   notifier,
		recognizer: DefaultRecognizer,
		recorder:   nopRecorder{},
		logger:     logger,
	}
}

// SetRecognizer replaces the entry recognition predicate
func (e *Engine) SetRecognizer(r Recognizer) {
	if r == nil {
		r = DefaultRecognizer
	}
	e.recognizer = r
}

// SetRecorder attaches a statistics recorder
func (e *Engine) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	e.recorder = r
}

// ComputeDiff compares the previous snapshot with the current units by handle.
// Removed keeps snapshot order; Added and Unchanged keep current order.
func ComputeDiff(previous types.Snapshot, current []types.Unit) Diff {
	var diff Diff
	currentSet := make(map[types.Handle]bool, len(current))
	for _, u := range current {
		if currentSet[u.Handle] {
			continue
		}
		currentSet[u.Handle] = true
		if previous.Contains(u.Handle) {
			diff.Unchanged = append(diff.Unchanged, u)
		} else {
			diff.Added = append(diff.Added, u)
		}
	}
	for _, u := range previous.Units() {
		if !currentSet[u.Handle] {
			diff.Removed = append(diff.Removed, u)
		}
	}
	return diff
}

// Reconcile runs one pass: removed groups are unregistered, then added units
// are registered in order. A fatal error stops the pass and leaves earlier
// registrations in place; the partial result is returned with the error.
func (e *Engine) Reconcile(framework string, previous types.Snapshot, current []types.Unit) (*Result, error) {
	start := time.Now()
	diff := ComputeDiff(previous, current)
	result := &Result{
		PassID: uuid.NewString(),
		Diff:   diff,
	}
	logger := e.logger.With(zap.String("pass_id", result.PassID))

	for _, u := range diff.Removed {
		title := u.Title()
		if title == "" {
			continue
		}
		e.store.RemoveGroup(title)
		e.recorder.RecordGroupRemoved()
		result.GroupsRemoved = append(result.GroupsRemoved, title)
		logger.Debug("group removed", zap.String("title", title), zap.String("handle", string(u.Handle)))
	}

	p := &pass{
		engine:    e,
		framework: framework,
		seen:      make(map[string]bool),
		result:    result,
		logger:    logger,
	}
	for _, u := range diff.Added {
		if err := p.registerKind(u); err != nil {
			result.Duration = time.Since(start)
			e.recorder.RecordPass(OutcomeFailed, result.Duration)
			logger.Error("reconciliation pass aborted", zap.Error(err))
			return result, err
		}
	}

	result.Duration = time.Since(start)
	e.recorder.RecordPass(OutcomeSuccess, result.Duration)
	logger.Info("reconciliation pass complete",
		zap.Int("added", len(diff.Added)),
		zap.Int("removed", len(diff.Removed)),
		zap.Int("unchanged", len(diff.Unchanged)),
		zap.Int("entries", result.EntriesRegistered),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// pass holds state scoped to a single Reconcile call
type pass struct {
	engine    *Engine
	framework string
	seen      map[string]bool
	result    *Result
	logger    *zap.Logger
}
