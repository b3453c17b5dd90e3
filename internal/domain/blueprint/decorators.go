package blueprint

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// ErrUnknownDecorator is returned when a decorator name is not registered
var ErrUnknownDecorator = errors.New("unknown decorator")

// DecoratorSet maps decorator names to decorators
type DecoratorSet map[string]types.Decorator

// Builtins returns the built-in container decorators
func Builtins() DecoratorSet {
	return DecoratorSet{
		"centered": Container("centered", map[string]interface{}{"align": "center", "justify": "center"}),
		"padded":   Container("padded", map[string]interface{}{"padding": "1rem"}),
		"card":     Container("card", map[string]interface{}{"border": true, "shadow": "sm", "padding": "1rem"}),
	}
}

// Container returns a decorator that wraps the rendered output in a container
// component with the given role and props
func Container(role string, props map[string]interface{}) types.Decorator {
	return func(next types.RenderFunc) types.RenderFunc {
		return func(args types.Args) interface{} {
			containerProps := make(map[string]interface{}, len(props)+2)
			for k, v := range props {
				containerProps[k] = v
			}
			containerProps["role"] = role
			containerProps["layout"] = "vertical"

			return map[string]interface{}{
				"type":     "container",
				"id":       role + "-decorator",
				"props":    containerProps,
				"children": []interface{}{next(args)},
			}
		}
	}
}

// Resolve returns the decorators for names, in order
func (s DecoratorSet) Resolve(names []string) ([]types.Decorator, error) {
	if len(names) == 0 {
		return nil, nil
	}
	decorators := make([]types.Decorator, 0, len(names))
	for _, name := range names {
		d, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownDecorator, name, s.Names())
		}
		decorators = append(decorators, d)
	}
	return decorators, nil
}

// With returns a copy of the set extended with extra decorators
func (s DecoratorSet) With(extra DecoratorSet) DecoratorSet {
	out := make(DecoratorSet, len(s)+len(extra))
	for name, d := range s {
		out[name] = d
	}
	for name, d := range extra {
		out[name] = d
	}
	return out
}

// Names returns the sorted decorator names
func (s DecoratorSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
