package deprecation

import (
	"sync"

	"go.uber.org/zap"
)

// Advisory ids used by the registration pipeline
const (
	LegacyStoryAnnotation = "legacy-story-annotation"
	Configure             = "configure"
	duplicateTitlePrefix  = "duplicate-title:"
)

// DuplicateTitle returns the advisory id for a repeated group title
func DuplicateTitle(title string) string {
	return duplicateTitlePrefix + title
}

// Notifier logs each advisory the first time its id is requested
type Notifier struct {
	mu     sync.Mutex
	fired  map[string]bool
	logger *zap.Logger
}

// New creates a notifier that writes advisories to logger
func New(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		fired:  make(map[string]bool),
		logger: logger,
	}
}

var (
	defaultOnce     sync.Once
	defaultNotifier *Notifier
)

// Default returns the process-wide notifier
func Default() *Notifier {
	defaultOnce.Do(func() {
		defaultNotifier = New(zap.L().Named("deprecation"))
	})
	return defaultNotifier
}

// Notify logs message under id unless id has already fired.
// Returns true when the warning was emitted.
func (n *Notifier) Notify(id, message string) bool {
	n.mu.Lock()
	if n.fired[id] {
		n.mu.Unlock()
		return false
	}
	n.fired[id] = true
	logger := n.logger
	n.mu.Unlock()

	logger.Warn(message, zap.String("advisory", id))
	return true
}

// Fired reports whether id has been emitted
func (n *Notifier) Fired(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fired[id]
}

// Reset forgets every fired id
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fired = make(map[string]bool)
}
