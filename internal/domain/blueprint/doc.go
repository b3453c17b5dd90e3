// Package blueprint expands declarative UI component trees.
//
// Declarative story modules describe what an entry renders as a compact
// component tree. The Expander turns that tree into explicit form so every
// node carries a type, an id and its props.
//
// Supported shortcuts:
//   - "Hello": text component
//   - {"button#save": {...}}: type#id shorthand
//   - row / col: horizontal and vertical containers
//   - sidebar, main, header, footer, content, section: containers with a role
//   - "@click": event handlers, collected under on_event
//   - "$template": props merged over a named template
//   - "$if" / "$for": directives kept for the renderer
//
// The package also provides the built-in container decorators (centered,
// padded, card) that declarative modules reference by name.
//
// Example:
//
//	expander := blueprint.NewExpander(templates)
//	tree := expander.Expand(ui)
package blueprint
