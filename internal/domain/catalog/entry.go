package catalog

import "github.com/GriffinCanCode/showcase/internal/shared/types"

// Group is a read-only view of a registered group
type Group struct {
	types.GroupSummary
	Component  interface{}          `json:"component,omitempty"`
	Parameters types.Parameters     `json:"parameters,omitempty"`
	Args       types.Args           `json:"args,omitempty"`
	ArgTypes   types.ArgTypes       `json:"arg_types,omitempty"`
	Entries    []types.EntrySummary `json:"entries"`
}

// Entry is a renderable copy of a registered entry and its group context
type Entry struct {
	ID    string
	Name  string
	Group string

	render          types.RenderFunc
	params          types.EntryParams
	decorators      []types.Decorator
	groupParams     types.GroupParams
	groupDecorators []types.Decorator
}

// Parameters returns group parameters overlaid with entry parameters
func (e *Entry) Parameters() types.Parameters {
	return overlay(e.groupParams.Parameters, e.params.Parameters)
}

// Args returns group args overlaid with entry args
func (e *Entry) Args() types.Args {
	return overlay(e.groupParams.Args, e.params.Args)
}

// ArgTypes returns group argTypes overlaid with entry argTypes
func (e *Entry) ArgTypes() types.ArgTypes {
	return overlay(e.groupParams.ArgTypes, e.params.ArgTypes)
}

// Compose wraps the render function with entry decorators, then group
// decorators, then globals. Within each list the first decorator is innermost.
func (e *Entry) Compose(globals ...types.Decorator) types.RenderFunc {
	fn := e.render
	if fn == nil {
		fn = e.defaultRender
	}
	for _, list := range [][]types.Decorator{e.decorators, e.groupDecorators, globals} {
		for _, decorator := range list {
			if decorator != nil {
				fn = decorator(fn)
			}
		}
	}
	return fn
}

// Render invokes the composed render function with the entry args overlaid by overrides
func (e *Entry) Render(overrides types.Args, globals ...types.Decorator) interface{} {
	return e.Compose(globals...)(overlay(e.Args(), overrides))
}

// defaultRender is used for entries without a render function
func (e *Entry) defaultRender(args types.Args) interface{} {
	return map[string]interface{}{
		"component": e.groupParams.Component,
		"args":      args,
	}
}

// Summary returns the JSON summary of the entry
func (e *Entry) Summary() types.EntrySummary {
	return types.EntrySummary{
		ID:         e.ID,
		Name:       e.Name,
		Group:      e.Group,
		Parameters: e.Parameters(),
		Args:       e.Args(),
		ArgTypes:   e.ArgTypes(),
		Decorators: len(e.decorators) + len(e.groupDecorators),
	}
}

func overlay[M ~map[string]interface{}](base, top M) M {
	if len(base) == 0 && len(top) == 0 {
		return nil
	}
	out := make(M, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}
