package blueprint

import (
	"testing"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandText(t *testing.T) {
	out := NewExpander(nil).Expand("Hello")

	comp, ok := out.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "text", comp["type"])
	assert.Equal(t, "text-0", comp["id"])
	assert.Equal(t, map[string]interface{}{"content": "Hello"}, comp["props"])
}

func TestExpandExplicit(t *testing.T) {
	ui := map[string]interface{}{
		"type":     "button",
		"props":    map[string]interface{}{"label": "Save"},
		"on_event": map[string]interface{}{"click": "save"},
		"children": []interface{}{"icon"},
	}

	comp := NewExpander(nil).Expand(ui).(map[string]interface{})
	assert.Equal(t, "button", comp["type"])
	assert.Equal(t, "button-0", comp["id"])
	assert.Equal(t, map[string]interface{}{"click": "save"}, comp["on_event"])

	children := comp["children"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "text-1", children[0].(map[string]interface{})["id"])
}

func TestExpandShorthand(t *testing.T) {
	ui := map[string]interface{}{
		"button#save": map[string]interface{}{
			"label":  "Save",
			"@click": "save",
			"$if":    "dirty",
		},
	}

	comp := NewExpander(nil).Expand(ui).(map[string]interface{})
	assert.Equal(t, "button", comp["type"])
	assert.Equal(t, "save", comp["id"])
	assert.Equal(t, map[string]interface{}{"label": "Save"}, comp["props"])
	assert.Equal(t, map[string]interface{}{"click": "save"}, comp["on_event"])
	assert.Equal(t, "dirty", comp["$if"])
}

func TestExpandLayoutShortcuts(t *testing.T) {
	tests := []struct {
		key        string
		wantLayout string
		wantRole   interface{}
	}{
		{"row", "horizontal", nil},
		{"col", "vertical", nil},
		{"sidebar", "vertical", "sidebar"},
		{"header", "vertical", "header"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ui := map[string]interface{}{tt.key: map[string]interface{}{}}
			comp := NewExpander(nil).Expand(ui).(map[string]interface{})

			props := comp["props"].(map[string]interface{})
			assert.Equal(t, "container", comp["type"])
			assert.Equal(t, tt.wantLayout, props["layout"])
			assert.Equal(t, tt.wantRole, props["role"])
		})
	}
}

func TestExpandTemplate(t *testing.T) {
	templates := map[string]interface{}{
		"primary": map[string]interface{}{"variant": "primary", "size": "md"},
	}
	ui := map[string]interface{}{
		"button": map[string]interface{}{"$template": "primary", "size": "lg"},
	}

	comp := NewExpander(templates).Expand(ui).(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"variant": "primary", "size": "lg"}, comp["props"])
}

func TestExpandList(t *testing.T) {
	ui := []interface{}{
		"Title",
		map[string]interface{}{"row": map[string]interface{}{
			"children": []interface{}{"a", "b"},
		}},
		42,
	}

	list := NewExpander(nil).Expand(ui).([]interface{})
	require.Len(t, list, 2)
	row := list[1].(map[string]interface{})
	assert.Len(t, row["children"], 2)
}

func TestExpandIsRepeatable(t *testing.T) {
	ui := map[string]interface{}{"col": map[string]interface{}{"children": []interface{}{"x"}}}
	e := NewExpander(nil)

	assert.Equal(t, e.Expand(ui), e.Expand(ui))
	// The declared tree is not rewritten by expansion.
	assert.NotContains(t, ui["col"].(map[string]interface{}), "layout")
}

func TestExpandNil(t *testing.T) {
	assert.Nil(t, NewExpander(nil).Expand(nil))
}

func TestBuiltinDecorators(t *testing.T) {
	set := Builtins()
	assert.Equal(t, []string{"card", "centered", "padded"}, set.Names())

	decorators, err := set.Resolve([]string{"centered", "card"})
	require.NoError(t, err)
	require.Len(t, decorators, 2)

	inner := func(types.Args) interface{} { return "leaf" }
	out := decorators[0](inner)(nil).(map[string]interface{})
	assert.Equal(t, "container", out["type"])
	assert.Equal(t, "centered-decorator", out["id"])
	assert.Equal(t, []interface{}{"leaf"}, out["children"])
	assert.Equal(t, "centered", out["props"].(map[string]interface{})["role"])
}

func TestResolveUnknownDecorator(t *testing.T) {
	_, err := Builtins().Resolve([]string{"centered", "sparkles"})
	assert.ErrorIs(t, err, ErrUnknownDecorator)
	assert.Contains(t, err.Error(), "sparkles")

	decorators, err := Builtins().Resolve(nil)
	assert.NoError(t, err)
	assert.Nil(t, decorators)
}

func TestDecoratorSetWith(t *testing.T) {
	custom := DecoratorSet{"framed": Container("framed", nil)}
	set := Builtins().With(custom)

	assert.Contains(t, set.Names(), "framed")
	assert.NotContains(t, Builtins().Names(), "framed")
}
