package source

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/showcase/internal/domain/blueprint"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidModule is returned for a document that does not follow the module schema
var ErrInvalidModule = errors.New("invalid story module")

// Declarative decodes data-only story modules. YAML, JSON and TOML share one
// schema:
//
//	default:           {title, id, component, subcomponents, parameters, args,
//	                    argTypes, decorators, includeStories, excludeStories}
//	namedExportsOrder: [export, ...]
//	templates:         {name: props}
//	stories:           [{export, name, parameters, args, argTypes, decorators,
//	                     ui, story: {name, parameters, args, argTypes, decorators}}]
type Declarative struct {
	format     string
	unmarshal  func(data []byte, v interface{}) error
	decorators blueprint.DecoratorSet
}

// NewYAMLDecoder decodes YAML modules
func NewYAMLDecoder(decorators blueprint.DecoratorSet) *Declarative {
	return &Declarative{format: "yaml", unmarshal: yaml.Unmarshal, decorators: decorators}
}

// NewJSONDecoder decodes JSON modules
func NewJSONDecoder(decorators blueprint.DecoratorSet) *Declarative {
	return &Declarative{format: "json", unmarshal: sonic.Unmarshal, decorators: decorators}
}

// NewTOMLDecoder decodes TOML modules
func NewTOMLDecoder(decorators blueprint.DecoratorSet) *Declarative {
	return &Declarative{format: "toml", unmarshal: toml.Unmarshal, decorators: decorators}
}

// Decode parses data and converts it to exports
func (d *Declarative) Decode(key string, data []byte) (*types.Exports, error) {
	var doc map[string]interface{}
	if err := d.unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", d.format, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidModule, key)
	}
	return d.convert(doc)
}

func (d *Declarative) convert(doc map[string]interface{}) (*types.Exports, error) {
	exports := &types.Exports{}

	if raw, ok := doc["default"]; ok {
		meta, err := d.convertMeta(asMap(raw))
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		exports.Default = meta
	}

	if raw, ok := doc["namedExportsOrder"]; ok {
		order, err := asStrings(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: namedExportsOrder: %v", ErrInvalidModule, err)
		}
		if order == nil {
			order = []string{}
		}
		exports.NamedExportsOrder = order
	}

	var component interface{}
	if exports.Default != nil {
		component = exports.Default.Component
	}
	expander := blueprint.NewExpander(asMap(doc["templates"]))

	for i, raw := range asList(doc["stories"]) {
		entry := asMap(raw)
		if entry == nil {
			return nil, fmt.Errorf("%w: stories[%d] is not an object", ErrInvalidModule, i)
		}
		key := asString(entry["export"])
		if key == "" {
			return nil, fmt.Errorf("%w: stories[%d] has no export name", ErrInvalidModule, i)
		}
		if _, exists := exports.Lookup(key); exists {
			return nil, fmt.Errorf("%w: export %q declared twice", ErrInvalidModule, key)
		}

		story, err := d.convertStory(entry, component, expander)
		if err != nil {
			return nil, fmt.Errorf("stories[%d] %q: %w", i, key, err)
		}
		exports.Named = append(exports.Named, types.NamedExport{Key: key, Story: story, Value: entry})
	}

	return exports, nil
}

func (d *Declarative) convertMeta(m map[string]interface{}) (*types.Meta, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidModule)
	}

	decorators, err := d.resolveDecorators(m["decorators"])
	if err != nil {
		return nil, err
	}
	include, err := asMatcher(m["includeStories"])
	if err != nil {
		return nil, fmt.Errorf("includeStories: %w", err)
	}
	exclude, err := asMatcher(m["excludeStories"])
	if err != nil {
		return nil, fmt.Errorf("excludeStories: %w", err)
	}

	return &types.Meta{
		Title:          asString(m["title"]),
		ID:             asString(m["id"]),
		Parameters:     asParameters(m["parameters"]),
		Decorators:     decorators,
		Component:      m["component"],
		Subcomponents:  asMap(m["subcomponents"]),
		Args:           asArgs(m["args"]),
		ArgTypes:       asArgTypes(m["argTypes"]),
		IncludeStories: include,
		ExcludeStories: exclude,
	}, nil
}

func (d *Declarative) convertStory(m map[string]interface{}, component interface{}, expander *blueprint.Expander) (*types.Story, error) {
	decorators, err := d.resolveDecorators(m["decorators"])
	if err != nil {
		return nil, err
	}

	story := &types.Story{
		Name:       asString(m["name"]),
		Parameters: asParameters(m["parameters"]),
		Decorators: decorators,
		Args:       asArgs(m["args"]),
		ArgTypes:   asArgTypes(m["argTypes"]),
		Render:     Document(component, expander.Expand(m["ui"])),
	}

	if raw, ok := m["story"]; ok {
		legacy := asMap(raw)
		if legacy == nil {
			return nil, fmt.Errorf("%w: story must be an object", ErrInvalidModule)
		}
		legacyDecorators, err := d.resolveDecorators(legacy["decorators"])
		if err != nil {
			return nil, fmt.Errorf("story: %w", err)
		}
		story.Legacy = &types.Annotations{
			Name:       asString(legacy["name"]),
			Parameters: asParameters(legacy["parameters"]),
			Decorators: legacyDecorators,
			Args:       asArgs(legacy["args"]),
			ArgTypes:   asArgTypes(legacy["argTypes"]),
		}
	}

	return story, nil
}

func (d *Declarative) resolveDecorators(raw interface{}) ([]types.Decorator, error) {
	names, err := asStrings(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decorators: %v", ErrInvalidModule, err)
	}
	return d.decorators.Resolve(names)
}

// Document returns a render function producing {component, args, tree}
func Document(component, tree interface{}) types.RenderFunc {
	return func(args types.Args) interface{} {
		return map[string]interface{}{
			"component": component,
			"args":      args,
			"tree":      tree,
		}
	}
}
