package types

import "regexp"

// Args holds the argument values handed to a render function
type Args map[string]interface{}

// Parameters is a free-form metadata bag attached to groups and entries
type Parameters map[string]interface{}

// ArgTypes describes the arguments an entry accepts
type ArgTypes map[string]interface{}

// RenderFunc produces the displayable value for an entry
type RenderFunc func(args Args) interface{}

// Decorator wraps a render function with additional behavior
type Decorator func(next RenderFunc) RenderFunc

// Handle is the opaque identity of one loaded module.
// Two units are the same module only when their handles are equal.
type Handle string

// Matcher selects export keys by explicit name or by pattern
type Matcher struct {
	Names   []string
	Pattern *regexp.Regexp
}

// Match reports whether key is selected by the matcher
func (m *Matcher) Match(key string) bool {
	if m == nil {
		return false
	}
	if m.Pattern != nil && m.Pattern.MatchString(key) {
		return true
	}
	for _, name := range m.Names {
		if name == key {
			return true
		}
	}
	return false
}

// Meta is the default export of a module: the group ("kind") description
type Meta struct {
	Title          string
	ID             string
	Parameters     Parameters
	Decorators     []Decorator
	Component      interface{}
	Subcomponents  map[string]interface{}
	Args           Args
	ArgTypes       ArgTypes
	IncludeStories *Matcher
	ExcludeStories *Matcher
}

// Annotations is the deprecated nested annotation object carried by a story
type Annotations struct {
	Name       string
	Parameters Parameters
	Decorators []Decorator
	Args       Args
	ArgTypes   ArgTypes
}

// Story is a named export that describes one entry
type Story struct {
	Render     RenderFunc
	Name       string
	Parameters Parameters
	Decorators []Decorator
	Args       Args
	ArgTypes   ArgTypes

	// Legacy holds the deprecated nested annotations, if any
	Legacy *Annotations
}

// NamedExport is one non-default export of a module.
// Story is nil for values that cannot describe an entry.
type NamedExport struct {
	Key   string
	Story *Story
	Value interface{}
}

// Exports is the export object of one loaded module
type Exports struct {
	Handle  Handle
	Default *Meta
	Named   []NamedExport

	// NamedExportsOrder, when non-nil, restricts and orders the processed keys
	NamedExportsOrder []string
}

// Lookup returns the named export for key
func (e *Exports) Lookup(key string) (NamedExport, bool) {
	for _, named := range e.Named {
		if named.Key == key {
			return named, true
		}
	}
	return NamedExport{}, false
}

// Unit is one module export object plus the path it was loaded from.
// Path is empty when the source cannot resolve one.
type Unit struct {
	Handle  Handle
	Exports *Exports
	Path    string
}

// Title returns the group title of the unit, or "" when it has no default export
func (u Unit) Title() string {
	if u.Exports == nil || u.Exports.Default == nil {
		return ""
	}
	return u.Exports.Default.Title
}
