package source

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/dop251/goja"
)

// DefaultScriptTimeout bounds module evaluation and each render or decorator call
const DefaultScriptTimeout = 2 * time.Second

// maxDecorators caps a decorators array read from a script
const maxDecorators = 256

// ErrScript is returned when a script module fails to evaluate
var ErrScript = errors.New("script module error")

// ScriptDecoder decodes CommonJS story modules:
//
//	module.exports = {
//	  default: { title: "Button", decorators: [(story) => ({ wrapped: story() })] },
//	  Primary: { args: { label: "Save" }, render: (args) => ({ type: "button", props: args }) },
//	  Secondary: (args) => ({ type: "button" }),
//	  __namedExportsOrder: ["Primary", "Secondary"],
//	};
//
// Functions stay in the script; every call runs on a pooled VM so calls can
// nest and run concurrently.
type ScriptDecoder struct {
	timeout time.Duration
}

// NewScriptDecoder creates a decoder with a per-call timeout
func NewScriptDecoder(timeout time.Duration) *ScriptDecoder {
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &ScriptDecoder{timeout: timeout}
}

// Decode evaluates the script once to read its exports
func (s *ScriptDecoder) Decode(key string, data []byte) (*types.Exports, error) {
	m := &scriptModule{
		name:    key,
		source:  string(data),
		timeout: s.timeout,
	}
	program, err := goja.Compile(key, m.source, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	m.program = program

	inst, err := m.instantiate()
	if err != nil {
		return nil, err
	}
	defer m.release(inst)

	var exports *types.Exports
	err = m.guard(inst.vm, func() error {
		var convErr error
		exports, convErr = m.convert(inst)
		return convErr
	})
	if err != nil {
		return nil, err
	}
	return exports, nil
}

// scriptModule is one compiled module and its VM pool
type scriptModule struct {
	name    string
	source  string
	program *goja.Program
	timeout time.Duration
	pool    sync.Pool
}

// instance is one VM with the module evaluated in it
type instance struct {
	vm      *goja.Runtime
	exports *goja.Object
}

func (m *scriptModule) instantiate() (*instance, error) {
	if pooled, ok := m.pool.Get().(*instance); ok {
		return pooled, nil
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(1024)

	// CommonJS shape only; no loader or host access
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	vm.Set("module", module)
	vm.Set("exports", exports)
	vm.Set("require", goja.Undefined())
	vm.Set("process", goja.Undefined())

	if _, err := m.run(vm, func() (goja.Value, error) { return vm.RunProgram(m.program) }); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, m.name, err)
	}

	value := module.Get("exports")
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, fmt.Errorf("%w: %s: module.exports is empty", ErrScript, m.name)
	}
	return &instance{vm: vm, exports: value.ToObject(vm)}, nil
}

func (m *scriptModule) release(inst *instance) {
	inst.vm.ClearInterrupt()
	m.pool.Put(inst)
}

// run executes fn with the module timeout
func (m *scriptModule) run(vm *goja.Runtime, fn func() (goja.Value, error)) (goja.Value, error) {
	// A timer from an earlier call may have fired after its call returned
	vm.ClearInterrupt()
	timer := time.AfterFunc(m.timeout, func() {
		vm.Interrupt("execution timeout exceeded")
	})
	defer timer.Stop()
	return fn()
}

// guard runs fn as a native function inside the VM under the module timeout.
// Getters and proxy traps reached from fn are interrupted and any script
// exception they raise comes back as an ErrScript error.
func (m *scriptModule) guard(vm *goja.Runtime, fn func() error) error {
	var inner error
	wrapped, _ := goja.AssertFunction(vm.ToValue(func(goja.FunctionCall) goja.Value {
		inner = fn()
		return goja.Undefined()
	}))
	if _, err := m.run(vm, func() (goja.Value, error) { return wrapped(goja.Undefined()) }); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrScript, m.name, err)
	}
	return inner
}

// lookup finds a function in the module exports by path
type lookup func(inst *instance) goja.Value

func (m *scriptModule) call(find lookup, args ...func(inst *instance) goja.Value) (interface{}, error) {
	inst, err := m.instantiate()
	if err != nil {
		return nil, err
	}
	defer m.release(inst)

	var fn goja.Callable
	var values []goja.Value
	err = m.guard(inst.vm, func() error {
		var ok bool
		if fn, ok = goja.AssertFunction(find(inst)); !ok {
			return fmt.Errorf("%w: %s: not a function", ErrScript, m.name)
		}
		values = make([]goja.Value, 0, len(args))
		for _, arg := range args {
			values = append(values, arg(inst))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out, err := m.run(inst.vm, func() (goja.Value, error) {
		return fn(goja.Undefined(), values...)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, m.name, err)
	}

	var result interface{}
	err = m.guard(inst.vm, func() error {
		result = export(out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// renderFunc wraps a script function as a render function
func (m *scriptModule) renderFunc(find lookup) types.RenderFunc {
	return func(args types.Args) interface{} {
		out, err := m.call(find, func(inst *instance) goja.Value {
			return inst.vm.ToValue(map[string]interface{}(args))
		})
		if err != nil {
			return map[string]interface{}{"error": err.Error()}
		}
		return out
	}
}

// decorator wraps a script function (storyFn, args) => value as a decorator
func (m *scriptModule) decorator(find lookup) types.Decorator {
	return func(next types.RenderFunc) types.RenderFunc {
		return func(args types.Args) interface{} {
			out, err := m.call(find,
				func(inst *instance) goja.Value {
					return inst.vm.ToValue(func(call goja.FunctionCall) goja.Value {
						callArgs := args
						if len(call.Arguments) > 0 {
							if override, ok := export(call.Arguments[0]).(map[string]interface{}); ok {
								callArgs = types.Args(override)
							}
						}
						return inst.vm.ToValue(next(callArgs))
					})
				},
				func(inst *instance) goja.Value {
					return inst.vm.ToValue(map[string]interface{}(args))
				},
			)
			if err != nil {
				return map[string]interface{}{"error": err.Error()}
			}
			return out
		}
	}
}

func export(v goja.Value) interface{} {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// member returns a lookup for exports[key][field], or exports[key] when field is empty
func member(key, field string) lookup {
	return func(inst *instance) goja.Value {
		v := inst.exports.Get(key)
		if field == "" || v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			return v
		}
		return v.ToObject(inst.vm).Get(field)
	}
}

// element returns a lookup for exports[key][field][index]
func element(key, field string, index int) lookup {
	return func(inst *instance) goja.Value {
		list := member(key, field)(inst)
		if list == nil || goja.IsUndefined(list) || goja.IsNull(list) {
			return list
		}
		return list.ToObject(inst.vm).Get(fmt.Sprint(index))
	}
}

// nested returns a lookup for exports[key][field][sub][index]
func nested(key, field, sub string, index int) lookup {
	return func(inst *instance) goja.Value {
		obj := member(key, field)(inst)
		if obj == nil || goja.IsUndefined(obj) || goja.IsNull(obj) {
			return obj
		}
		list := obj.ToObject(inst.vm).Get(sub)
		if list == nil || goja.IsUndefined(list) || goja.IsNull(list) {
			return list
		}
		return list.ToObject(inst.vm).Get(fmt.Sprint(index))
	}
}

func (m *scriptModule) convert(inst *instance) (*types.Exports, error) {
	exports := &types.Exports{}

	for _, key := range inst.exports.Keys() {
		value := inst.exports.Get(key)

		switch key {
		case "default":
			meta, err := m.convertMeta(value)
			if err != nil {
				return nil, fmt.Errorf("default: %w", err)
			}
			exports.Default = meta
			continue
		case "__namedExportsOrder":
			order, err := asStrings(export(value))
			if err != nil {
				return nil, fmt.Errorf("%w: __namedExportsOrder: %v", ErrInvalidModule, err)
			}
			if order == nil {
				order = []string{}
			}
			exports.NamedExportsOrder = order
			continue
		}

		named := types.NamedExport{Key: key}
		if _, isFunc := goja.AssertFunction(value); isFunc {
			named.Story = &types.Story{Render: m.renderFunc(member(key, ""))}
		} else if obj, ok := value.(*goja.Object); ok && obj.ClassName() == "Object" {
			story, err := m.convertStory(key, obj)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			named.Story = story
		}
		named.Value = export(value)
		exports.Named = append(exports.Named, named)
	}

	return exports, nil
}

func (m *scriptModule) convertMeta(value goja.Value) (*types.Meta, error) {
	obj, ok := value.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidModule)
	}
	decorators, err := m.decorators(obj, "default", "")
	if err != nil {
		return nil, err
	}
	data := asMap(obj.Export())

	include, err := asMatcher(data["includeStories"])
	if err != nil {
		return nil, fmt.Errorf("includeStories: %w", err)
	}
	exclude, err := asMatcher(data["excludeStories"])
	if err != nil {
		return nil, fmt.Errorf("excludeStories: %w", err)
	}

	return &types.Meta{
		Title:          asString(data["title"]),
		ID:             asString(data["id"]),
		Parameters:     asParameters(data["parameters"]),
		Decorators:     decorators,
		Component:      data["component"],
		Subcomponents:  asMap(data["subcomponents"]),
		Args:           asArgs(data["args"]),
		ArgTypes:       asArgTypes(data["argTypes"]),
		IncludeStories: include,
		ExcludeStories: exclude,
	}, nil
}

func (m *scriptModule) convertStory(key string, obj *goja.Object) (*types.Story, error) {
	decorators, err := m.decorators(obj, key, "")
	if err != nil {
		return nil, err
	}
	data := asMap(obj.Export())

	story := &types.Story{
		Name:       asString(data["name"]),
		Parameters: asParameters(data["parameters"]),
		Decorators: decorators,
		Args:       asArgs(data["args"]),
		ArgTypes:   asArgTypes(data["argTypes"]),
	}
	if story.Name == "" {
		story.Name = asString(data["storyName"])
	}
	if _, ok := goja.AssertFunction(obj.Get("render")); ok {
		story.Render = m.renderFunc(member(key, "render"))
	}

	if legacy, ok := obj.Get("story").(*goja.Object); ok {
		legacyDecorators, err := m.decorators(legacy, key, "story")
		if err != nil {
			return nil, fmt.Errorf("story: %w", err)
		}
		legacyData := asMap(legacy.Export())
		story.Legacy = &types.Annotations{
			Name:       asString(legacyData["name"]),
			Parameters: asParameters(legacyData["parameters"]),
			Decorators: legacyDecorators,
			Args:       asArgs(legacyData["args"]),
			ArgTypes:   asArgTypes(legacyData["argTypes"]),
		}
	}
	return story, nil
}

// decorators wraps the function elements of obj.decorators. sub is set when
// obj is the nested exports[key][sub] object.
func (m *scriptModule) decorators(obj *goja.Object, key, sub string) ([]types.Decorator, error) {
	value := obj.Get("decorators")
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, nil
	}
	list, ok := value.(*goja.Object)
	if !ok || list.ClassName() != "Array" {
		return nil, fmt.Errorf("%w: decorators must be an array", ErrInvalidModule)
	}
	length := list.Get("length").ToInteger()
	if length > maxDecorators {
		return nil, fmt.Errorf("%w: %d decorators exceeds the limit of %d", ErrInvalidModule, length, maxDecorators)
	}

	var out []types.Decorator
	for i := 0; i < int(length); i++ {
		if _, isFunc := goja.AssertFunction(list.Get(fmt.Sprint(i))); !isFunc {
			continue
		}
		if sub == "" {
			out = append(out, m.decorator(element(key, "decorators", i)))
		} else {
			out = append(out, m.decorator(nested(key, sub, "decorators", i)))
		}
	}
	return out, nil
}
