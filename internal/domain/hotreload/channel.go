package hotreload

import (
	"sync"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// MemoryChannel is an in-process Channel. Reload runs one reload cycle.
type MemoryChannel struct {
	mu        sync.Mutex
	persisted *types.Snapshot
	teardown  []func() types.Snapshot
	accept    []func()
}

// NewMemoryChannel creates an empty channel
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{}
}

// LoadPersisted returns the snapshot stored by the last Reload
func (m *MemoryChannel) LoadPersisted() (types.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.persisted == nil {
		return types.Snapshot{}, false
	}
	return *m.persisted, true
}

// OnBeforeTeardown registers a hook run at the start of the next Reload
func (m *MemoryChannel) OnBeforeTeardown(hook func() types.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown = append(m.teardown, hook)
}

// OnAfterAccept registers a hook run at the end of the next Reload
func (m *MemoryChannel) OnAfterAccept(hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accept = append(m.accept, hook)
}

// Reload runs teardown hooks, persists the snapshot they return, then runs
// accept hooks. Hooks are consumed; the next load registers new ones.
func (m *MemoryChannel) Reload() {
	m.mu.Lock()
	teardown, accept := m.teardown, m.accept
	m.teardown, m.accept = nil, nil
	m.mu.Unlock()

	for _, hook := range teardown {
		snapshot := hook()
		m.mu.Lock()
		m.persisted = &snapshot
		m.mu.Unlock()
	}
	for _, hook := range accept {
		hook()
	}
}
