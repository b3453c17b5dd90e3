package reconcile

import (
	"fmt"

	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/GriffinCanCode/showcase/internal/shared/utils"
	"go.uber.org/zap"
)

const legacyAnnotationMessage = "Entry annotations on a nested story object are deprecated; " +
	"set name, parameters, decorators, args and argTypes on the entry itself"

func (p *pass) registerStories(u types.Unit, group types.GroupHandle) error {
	exports := u.Exports
	meta := exports.Default

	groupID := meta.ID
	if groupID == "" {
		groupID = meta.Title
	}

	count := 0
	for _, key := range orderedKeys(exports) {
		named, ok := exports.Lookup(key)
		if !ok || !p.engine.recognizer(key, meta, named.Story) || named.Story == nil {
			continue
		}
		story := named.Story

		if story.Legacy != nil {
			p.engine.notifier.Notify(deprecation.LegacyStoryAnnotation, legacyAnnotationMessage)
		}

		exportName := utils.StoryNameFromExport(key)
		entryID, err := utils.ToID(groupID, exportName)
		if err != nil {
			return fmt.Errorf("entry %q in %q: %w", key, meta.Title, err)
		}

		merged := MergeAnnotations(story)
		if err := group.AddEntry(DisplayName(key, story), story.Render, types.EntryParams{
			Parameters: merged.Parameters,
			ID:         entryID,
			Decorators: merged.Decorators,
			Args:       merged.Args,
			ArgTypes:   merged.ArgTypes,
		}); err != nil {
			return fmt.Errorf("failed to register entry %s: %w", entryID, err)
		}

		count++
		p.result.EntriesRegistered++
		p.engine.recorder.RecordEntryRegistered()
	}

	if count == 0 {
		p.logger.Warn("group has no exported entries",
			zap.String("title", meta.Title),
			zap.String("path", u.Path))
	}
	return nil
}

// orderedKeys returns the export keys to process. An explicit order restricts
// and orders the keys; otherwise declaration order is used.
func orderedKeys(exports *types.Exports) []string {
	if exports.NamedExportsOrder == nil {
		keys := make([]string, 0, len(exports.Named))
		for _, named := range exports.Named {
			keys = append(keys, named.Key)
		}
		return keys
	}

	seen := make(map[string]bool, len(exports.NamedExportsOrder))
	keys := make([]string, 0, len(exports.NamedExportsOrder))
	for _, key := range exports.NamedExportsOrder {
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := exports.Lookup(key); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// DisplayName picks the explicit name, then the legacy name, then one derived from key
func DisplayName(key string, story *types.Story) string {
	if story != nil {
		if story.Name != "" {
			return story.Name
		}
		if story.Legacy != nil && story.Legacy.Name != "" {
			return story.Legacy.Name
		}
	}
	return utils.StoryNameFromExport(key)
}
