package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"go.uber.org/zap"
)

var (
	// ErrGroupRemoved is returned when an entry is added through a stale group handle
	ErrGroupRemoved = errors.New("group no longer registered")
	// ErrEmptyEntryID is returned for an entry registered without an id
	ErrEmptyEntryID = errors.New("entry id is required")
)

type group struct {
	title      string
	params     types.GroupParams
	decorators []types.Decorator
	entries    []string // Entry ids in registration order
	updatedAt  time.Time
}

type entry struct {
	id     string
	name   string
	group  string
	render types.RenderFunc
	params types.EntryParams
}

// Memory is an in-memory catalog store safe for concurrent readers
type Memory struct {
	mu      sync.RWMutex
	groups  map[string]*group // Protected by mu
	order   []string          // Group titles in creation order, protected by mu
	entries map[string]*entry // Protected by mu
	updated *time.Time        // Protected by mu
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewMemory creates an empty catalog
func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		groups:  make(map[string]*group),
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// WithMetrics adds catalog size tracking to the store
func (m *Memory) WithMetrics(metrics *monitoring.Metrics) *Memory {
	m.metrics = metrics
	return m
}

// CreateOrGetGroup returns the group for title, creating it when missing
func (m *Memory) CreateOrGetGroup(title string) types.GroupHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[title]; !ok {
		m.groups[title] = &group{title: title, updatedAt: time.Now()}
		m.order = append(m.order, title)
		m.touch()
	}
	return &groupHandle{store: m, title: title}
}

// RemoveGroup drops a group and all of its entries
func (m *Memory) RemoveGroup(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[title]
	if !ok {
		return
	}
	for _, id := range g.entries {
		delete(m.entries, id)
	}
	delete(m.groups, title)
	for i, t := range m.order {
		if t == title {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.touch()
}

// touch records a mutation; caller must hold mu
func (m *Memory) touch() {
	now := time.Now()
	m.updated = &now
	if m.metrics != nil {
		m.metrics.SetCatalogSize(len(m.groups), len(m.entries))
	}
}

// groupHandle is the registration view of one group
type groupHandle struct {
	store *Memory
	title string
}

// SetParameters overwrites the group metadata and clears its decorators,
// so registering the same title again is idempotent.
func (h *groupHandle) SetParameters(params types.GroupParams) {
	m := h.store
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[h.title]
	if !ok {
		return
	}
	g.params = params
	g.decorators = nil
	g.updatedAt = time.Now()
	m.touch()
}

// AddDecorator appends a group decorator
func (h *groupHandle) AddDecorator(decorator types.Decorator) {
	if decorator == nil {
		return
	}
	m := h.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.groups[h.title]; ok {
		g.decorators = append(g.decorators, decorator)
	}
}

// AddEntry registers an entry. An entry already registered under the same id
// is replaced.
func (h *groupHandle) AddEntry(name string, render types.RenderFunc, params types.EntryParams) error {
	if params.ID == "" {
		return fmt.Errorf("%w: %q in %q", ErrEmptyEntryID, name, h.title)
	}

	m := h.store
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[h.title]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupRemoved, h.title)
	}

	if existing, ok := m.entries[params.ID]; ok {
		m.logger.Warn("duplicate entry id; replacing earlier entry",
			zap.String("id", params.ID),
			zap.String("previous_group", existing.group),
			zap.String("group", h.title))
		if prev, ok := m.groups[existing.group]; ok {
			prev.entries = without(prev.entries, params.ID)
		}
	}

	m.entries[params.ID] = &entry{
		id:     params.ID,
		name:   name,
		group:  h.title,
		render: render,
		params: params,
	}
	g.entries = append(g.entries, params.ID)
	g.updatedAt = time.Now()
	m.touch()
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Len returns the number of groups and entries
func (m *Memory) Len() (groups, entries int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups), len(m.entries)
}

// Groups returns group summaries in creation order
func (m *Memory) Groups() []types.GroupSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]types.GroupSummary, 0, len(m.order))
	for _, title := range m.order {
		summaries = append(summaries, m.groups[title].summary())
	}
	return summaries
}

// Group returns a group with its entries
func (m *Memory) Group(title string) (*Group, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[title]
	if !ok {
		return nil, false
	}

	view := &Group{
		GroupSummary: g.summary(),
		Component:    g.params.Component,
		Parameters:   g.params.Parameters,
		Args:         g.params.Args,
		ArgTypes:     g.params.ArgTypes,
		Entries:      make([]types.EntrySummary, 0, len(g.entries)),
	}
	for _, id := range g.entries {
		view.Entries = append(view.Entries, m.entryView(m.entries[id]).Summary())
	}
	return view, true
}

// Entry returns a renderable entry by id
func (m *Memory) Entry(id string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return m.entryView(e), true
}

// Entries returns entry summaries grouped in group order, optionally filtered by group title
func (m *Memory) Entries(groupTitle string) []types.EntrySummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var summaries []types.EntrySummary
	for _, title := range m.order {
		if groupTitle != "" && title != groupTitle {
			continue
		}
		for _, id := range m.groups[title].entries {
			summaries = append(summaries, m.entryView(m.entries[id]).Summary())
		}
	}
	return summaries
}

// Stats returns catalog statistics
func (m *Memory) Stats() types.CatalogStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.CatalogStats{
		TotalGroups:  len(m.groups),
		TotalEntries: len(m.entries),
		Frameworks:   make(map[string]int),
	}
	for _, g := range m.groups {
		stats.Frameworks[g.params.Framework]++
	}
	if m.updated != nil {
		last := *m.updated
		stats.LastUpdated = &last
	}
	return stats
}

// Titles returns the sorted group titles
func (m *Memory) Titles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	titles := make([]string, 0, len(m.groups))
	for title := range m.groups {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

func (g *group) summary() types.GroupSummary {
	return types.GroupSummary{
		Title:      g.title,
		Framework:  g.params.Framework,
		FileName:   g.params.FileName,
		EntryCount: len(g.entries),
		UpdatedAt:  g.updatedAt,
	}
}

// entryView copies an entry together with its group context; caller must hold mu
func (m *Memory) entryView(e *entry) *Entry {
	view := &Entry{
		ID:         e.id,
		Name:       e.name,
		Group:      e.group,
		render:     e.render,
		params:     e.params,
		decorators: append([]types.Decorator(nil), e.params.Decorators...),
	}
	if g, ok := m.groups[e.group]; ok {
		view.groupParams = g.params
		view.groupDecorators = append([]types.Decorator(nil), g.decorators...)
	}
	return view
}
