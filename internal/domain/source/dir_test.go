package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/showcase/internal/shared/id"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/GriffinCanCode/showcase/internal/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonYAML = `
default:
  title: Design System/Button
  component: button
  decorators: [centered]
  args:
    variant: primary
stories:
  - export: primary
    args:
      label: Save
    ui:
      button#save:
        "@click": save
  - export: secondary
    name: Secondary action
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestKeys(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.stories.yaml", buttonYAML)
	writeFile(t, root, "forms/input.stories.json", `{"default": {"title": "Input"}}`)
	writeFile(t, root, "forms/deep/select.stories.toml", "[default]\ntitle = \"Select\"\n")
	writeFile(t, root, "README.md", "# stories")
	writeFile(t, root, "button.yaml", "default: {title: Nope}")

	d := NewDir(root, Options{}, nil)
	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"button.stories.yaml",
		"forms/deep/select.stories.toml",
		"forms/input.stories.json",
	}, keys)
}

func TestKeysCustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/one.stories.yaml", buttonYAML)
	writeFile(t, root, "b/two.stories.yaml", buttonYAML)

	d := NewDir(root, Options{Patterns: []string{"b/**/*.yaml"}}, nil)
	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b/two.stories.yaml"}, keys)
}

func TestKeysMissingRoot(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"), Options{}, nil)
	_, err := d.Keys()
	assert.Error(t, err)
}

func TestGetYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.stories.yaml", buttonYAML)
	d := NewDir(root, Options{}, nil)

	exports, err := d.Get("button.stories.yaml")
	require.NoError(t, err)

	require.NotNil(t, exports.Default)
	assert.Equal(t, "Design System/Button", exports.Default.Title)
	assert.Equal(t, "button", exports.Default.Component)
	assert.Len(t, exports.Default.Decorators, 1)
	assert.Equal(t, types.Args{"variant": "primary"}, exports.Default.Args)

	require.Len(t, exports.Named, 2)
	assert.Equal(t, "primary", exports.Named[0].Key)
	assert.Equal(t, "Secondary action", exports.Named[1].Story.Name)
	assert.Nil(t, exports.NamedExportsOrder)

	doc := exports.Named[0].Story.Render(types.Args{"label": "Save"}).(map[string]interface{})
	assert.Equal(t, "button", doc["component"])
	tree := doc["tree"].(map[string]interface{})
	assert.Equal(t, "save", tree["id"])
	assert.Equal(t, map[string]interface{}{"click": "save"}, tree["on_event"])

	assert.Equal(t, filepath.Join(root, "button.stories.yaml"), d.Resolve("button.stories.yaml"))
}

func TestGetHandleStability(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.stories.yaml", buttonYAML)
	d := NewDir(root, Options{}, nil)

	first, err := d.Get("button.stories.yaml")
	require.NoError(t, err)
	second, err := d.Get("button.stories.yaml")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.NotEmpty(t, first.Handle)

	// A fresh source over identical content derives the same handle.
	other, err := NewDir(root, Options{}, nil).Get("button.stories.yaml")
	require.NoError(t, err)
	assert.Equal(t, first.Handle, other.Handle)

	writeFile(t, root, "button.stories.yaml", buttonYAML+"\n  - export: tertiary\n")
	changed, err := d.Get("button.stories.yaml")
	require.NoError(t, err)
	assert.NotEqual(t, first.Handle, changed.Handle)
	assert.Len(t, changed.Named, 3)
}

func TestGetHandleDependsOnKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.stories.yaml", buttonYAML)
	writeFile(t, root, "copy.stories.yaml", buttonYAML)
	d := NewDir(root, Options{}, nil)

	button, err := d.Get("button.stories.yaml")
	require.NoError(t, err)
	copied, err := d.Get("copy.stories.yaml")
	require.NoError(t, err)

	assert.NotEqual(t, button.Handle, copied.Handle)
	assert.Equal(t, id.HandleFromDigest(utils.DefaultHasher().HashFields("button.stories.yaml", utils.DefaultHasher().Hash([]byte(buttonYAML)))), button.Handle)
}

func TestGetJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "input.stories.json", `{
		"default": {"title": "Forms/Input", "id": "input", "excludeStories": "Data$"},
		"namedExportsOrder": ["filled", "empty"],
		"templates": {"field": {"size": "md"}},
		"stories": [
			{"export": "empty", "ui": {"input": {"$template": "field"}}},
			{"export": "filled", "args": {"value": "hello"},
			 "story": {"name": "Filled (legacy)", "parameters": {"docs": "legacy"}}},
			{"export": "mockData"}
		]
	}`)
	d := NewDir(root, Options{}, nil)

	exports, err := d.Get("input.stories.json")
	require.NoError(t, err)

	assert.Equal(t, "input", exports.Default.ID)
	assert.True(t, exports.Default.ExcludeStories.Match("mockData"))
	assert.Equal(t, []string{"filled", "empty"}, exports.NamedExportsOrder)

	filled, ok := exports.Lookup("filled")
	require.True(t, ok)
	require.NotNil(t, filled.Story.Legacy)
	assert.Equal(t, "Filled (legacy)", filled.Story.Legacy.Name)

	empty, _ := exports.Lookup("empty")
	tree := empty.Story.Render(nil).(map[string]interface{})["tree"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"size": "md"}, tree["props"])
}

func TestGetTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "card.stories.toml", `
namedExportsOrder = ["basic"]

[default]
title = "Card"
decorators = ["padded"]
includeStories = ["basic"]

[[stories]]
export = "basic"
name = "Basic card"
decorators = ["card"]

[stories.args]
heading = "Hello"
`)
	d := NewDir(root, Options{}, nil)

	exports, err := d.Get("card.stories.toml")
	require.NoError(t, err)
	assert.Equal(t, "Card", exports.Default.Title)
	assert.Equal(t, []string{"basic"}, exports.Default.IncludeStories.Names)
	require.Len(t, exports.Named, 1)
	assert.Equal(t, "Basic card", exports.Named[0].Story.Name)
	assert.Equal(t, types.Args{"heading": "Hello"}, exports.Named[0].Story.Args)
	assert.Len(t, exports.Named[0].Story.Decorators, 1)
}

func TestGetErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"unknown decorator", "a.stories.yaml", "default: {title: A, decorators: [sparkles]}", nil},
		{"story without export", "b.stories.yaml", "default: {title: B}\nstories:\n  - name: x\n", ErrInvalidModule},
		{"duplicate export", "c.stories.yaml", "stories:\n  - export: x\n  - export: x\n", ErrInvalidModule},
		{"malformed json", "d.stories.json", "{", nil},
		{"bad pattern", "e.stories.yaml", "default: {title: E, includeStories: \"(\"}", nil},
		{"unsupported extension", "f.stories.txt", "hello", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, tt.file, tt.content)
			d := NewDir(root, Options{}, nil)

			_, err := d.Get(tt.file)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetMissingFile(t *testing.T) {
	d := NewDir(t.TempDir(), Options{}, nil)
	_, err := d.Get("gone.stories.yaml")
	assert.Error(t, err)
}

func TestRegisterDecoder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.stories.bp", "ignored")
	d := NewDir(root, Options{Patterns: []string{"**/*.stories.bp"}}, nil)
	d.Register(".bp", NewJSONDecoder(nil))

	writeFile(t, root, "x.stories.bp", `{"default": {"title": "BP"}}`)
	exports, err := d.Get("x.stories.bp")
	require.NoError(t, err)
	assert.Equal(t, "BP", exports.Default.Title)
}
