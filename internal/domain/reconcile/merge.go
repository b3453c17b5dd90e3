package reconcile

import "github.com/GriffinCanCode/showcase/internal/shared/types"

// Merged is the canonical annotation set of one entry
type Merged struct {
	Parameters types.Parameters
	Decorators []types.Decorator
	Args       types.Args
	ArgTypes   types.ArgTypes
}

// MergeAnnotations folds the legacy nested annotations into the current ones.
// Current values win on every overlapping key:
//   - parameters: shallow merge, legacy then current
//   - decorators: current followed by legacy
//   - args: shallow merge, legacy then current
//   - argTypes: shallow merge, legacy then current
func MergeAnnotations(story *types.Story) Merged {
	if story == nil {
		return Merged{}
	}

	legacy := story.Legacy
	if legacy == nil {
		legacy = &types.Annotations{}
	}

	merged := Merged{
		Parameters: shallowMerge(legacy.Parameters, story.Parameters),
		Args:       shallowMerge(legacy.Args, story.Args),
		ArgTypes:   shallowMerge(legacy.ArgTypes, story.ArgTypes),
	}
	if n := len(story.Decorators) + len(legacy.Decorators); n > 0 {
		merged.Decorators = make([]types.Decorator, 0, n)
		merged.Decorators = append(merged.Decorators, story.Decorators...)
		merged.Decorators = append(merged.Decorators, legacy.Decorators...)
	}
	return merged
}

// shallowMerge copies base then overlay into a new map; nil when both are empty
func shallowMerge[M ~map[string]interface{}](base, overlay M) M {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(M, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
