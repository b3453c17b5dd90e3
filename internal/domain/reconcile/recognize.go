package reconcile

import (
	"strings"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// Recognizer decides whether a named export is a displayable entry
type Recognizer func(key string, meta *types.Meta, story *types.Story) bool

// DefaultRecognizer accepts story exports that are not reserved (__ prefixed)
// and pass the group's include/exclude matchers.
func DefaultRecognizer(key string, meta *types.Meta, story *types.Story) bool {
	if story == nil || strings.HasPrefix(key, "__") {
		return false
	}
	if meta == nil {
		return true
	}
	if meta.IncludeStories != nil && !meta.IncludeStories.Match(key) {
		return false
	}
	if meta.ExcludeStories != nil && meta.ExcludeStories.Match(key) {
		return false
	}
	return true
}
