package source

import (
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonScript = `
module.exports = {
  default: {
    title: "Script/Button",
    args: { size: "md" },
    decorators: [(story) => ({ frame: story() })],
  },
  Primary: {
    args: { label: "Save" },
    render: (args) => ({ type: "button", label: args.label }),
  },
  Plain: (args) => "plain:" + args.label,
  Legacy: {
    story: { name: "Old style", parameters: { docs: true } },
  },
  helper: 42,
  __namedExportsOrder: ["Plain", "Primary", "Legacy"],
};
`

func decodeScript(t *testing.T, script string) *types.Exports {
	t.Helper()
	exports, err := NewScriptDecoder(time.Second).Decode("button.stories.js", []byte(script))
	require.NoError(t, err)
	return exports
}

func TestScriptExports(t *testing.T) {
	exports := decodeScript(t, buttonScript)

	require.NotNil(t, exports.Default)
	assert.Equal(t, "Script/Button", exports.Default.Title)
	assert.Equal(t, types.Args{"size": "md"}, exports.Default.Args)
	assert.Len(t, exports.Default.Decorators, 1)
	assert.Equal(t, []string{"Plain", "Primary", "Legacy"}, exports.NamedExportsOrder)

	var keys []string
	for _, named := range exports.Named {
		keys = append(keys, named.Key)
	}
	assert.Equal(t, []string{"Primary", "Plain", "Legacy", "helper"}, keys)

	helper, _ := exports.Lookup("helper")
	assert.Nil(t, helper.Story)

	legacy, _ := exports.Lookup("Legacy")
	require.NotNil(t, legacy.Story.Legacy)
	assert.Equal(t, "Old style", legacy.Story.Legacy.Name)
	assert.Nil(t, legacy.Story.Render)
}

func TestScriptRender(t *testing.T) {
	exports := decodeScript(t, buttonScript)

	primary, _ := exports.Lookup("Primary")
	out := primary.Story.Render(types.Args{"label": "Save"})
	assert.Equal(t, map[string]interface{}{"type": "button", "label": "Save"}, out)

	plain, _ := exports.Lookup("Plain")
	assert.Equal(t, "plain:Go", plain.Story.Render(types.Args{"label": "Go"}))
}

func TestScriptDecoratorWrapsRender(t *testing.T) {
	exports := decodeScript(t, buttonScript)
	primary, _ := exports.Lookup("Primary")

	decorated := exports.Default.Decorators[0](primary.Story.Render)
	out := decorated(types.Args{"label": "Save"}).(map[string]interface{})

	assert.Equal(t, map[string]interface{}{"type": "button", "label": "Save"}, out["frame"])
}

func TestScriptConcurrentRenders(t *testing.T) {
	exports := decodeScript(t, buttonScript)
	plain, _ := exports.Lookup("Plain")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "plain:x", plain.Story.Render(types.Args{"label": "x"}))
		}()
	}
	wg.Wait()
}

func TestScriptTimeout(t *testing.T) {
	decoder := NewScriptDecoder(50 * time.Millisecond)
	exports, err := decoder.Decode("spin.stories.js", []byte(`
module.exports = { default: { title: "Spin" }, Forever: () => { while (true) {} } };
`))
	require.NoError(t, err)

	forever, _ := exports.Lookup("Forever")
	out := forever.Story.Render(types.Args{}).(map[string]interface{})
	assert.Contains(t, out["error"], "timeout")
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"syntax error", "module.exports = {"},
		{"throws", "throw new Error('broken')"},
		{"timeout during evaluation", "while (true) {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScriptDecoder(50*time.Millisecond).Decode("bad.stories.js", []byte(tt.script))
			assert.ErrorIs(t, err, ErrScript)
		})
	}
}

func TestScriptExportsShorthand(t *testing.T) {
	exports := decodeScript(t, `
exports.default = { title: "Short" };
exports.One = () => 1;
`)
	assert.Equal(t, "Short", exports.Default.Title)
	require.Len(t, exports.Named, 1)
	assert.Equal(t, int64(1), exports.Named[0].Story.Render(types.Args{}))
}

func TestScriptDecoratorsMustBeArray(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"array-like object", `module.exports = { default: { title: "T", decorators: { length: 2000000000 } } };`},
		{"sparse array", `const d = []; d.length = 2000000000; module.exports = { default: { title: "T", decorators: d } };`},
		{"story decorators", `module.exports = { default: { title: "T" }, One: { decorators: "wrap" } };`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := NewScriptDecoder(time.Second).Decode("bad.stories.js", []byte(tt.script))
			assert.ErrorIs(t, err, ErrInvalidModule)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

func TestScriptConversionTimeout(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"meta getter", `module.exports = { default: { get title() { while (true) {} } } };`},
		{"decorators element getter", `const d = []; Object.defineProperty(d, 0, { get() { while (true) {} } }); module.exports = { default: { title: "T", decorators: d } };`},
		{"story getter", `module.exports = { default: { title: "T" }, One: { get args() { while (true) {} } } };`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := NewScriptDecoder(50*time.Millisecond).Decode("spin.stories.js", []byte(tt.script))
			assert.ErrorIs(t, err, ErrScript)
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestScriptRenderResultGetterTimeout(t *testing.T) {
	decoder := NewScriptDecoder(50 * time.Millisecond)
	exports, err := decoder.Decode("spin.stories.js", []byte(`
module.exports = { default: { title: "Spin" }, Trap: () => ({ get label() { while (true) {} } }) };
`))
	require.NoError(t, err)

	trap, _ := exports.Lookup("Trap")
	out := trap.Story.Render(types.Args{}).(map[string]interface{})
	assert.Contains(t, out["error"], "timeout")
}
