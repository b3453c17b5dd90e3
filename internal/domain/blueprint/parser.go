package blueprint

import (
	"fmt"
	"sort"
	"strings"
)

// Expander normalizes declarative component trees into explicit form:
// {"type", "id", "props", "on_event", "children"}
type Expander struct {
	templates map[string]interface{}
}

// NewExpander creates an expander resolving $template references against templates
func NewExpander(templates map[string]interface{}) *Expander {
	if templates == nil {
		templates = make(map[string]interface{})
	}
	return &Expander{templates: templates}
}

// expansion carries the id counter of a single Expand call
type expansion struct {
	templates map[string]interface{}
	idCounter int
}

// Expand expands a component, or a list of components, with all shortcuts.
// Generated ids restart for each call so the same tree always expands the same way.
func (e *Expander) Expand(ui interface{}) interface{} {
	x := &expansion{templates: e.templates}
	if list, ok := ui.([]interface{}); ok {
		return x.expandComponents(list)
	}
	if expanded := x.expandComponent(ui); expanded != nil {
		return expanded
	}
	return nil
}

// expandComponents recursively expands components
func (x *expansion) expandComponents(components []interface{}) []interface{} {
	result := make([]interface{}, 0, len(components))

	for _, comp := range components {
		expanded := x.expandComponent(comp)
		if expanded != nil {
			result = append(result, expanded)
		}
	}

	return result
}

func (x *expansion) nextID(compType string) string {
	id := fmt.Sprintf("%s-%d", compType, x.idCounter)
	x.idCounter++
	return id
}

// expandComponent expands a single component with all shortcuts
func (x *expansion) expandComponent(comp interface{}) map[string]interface{} {
	switch v := comp.(type) {
	case string:
		// Simple string: "Hello" -> text component
		return map[string]interface{}{
			"type": "text",
			"id":   x.nextID("text"),
			"props": map[string]interface{}{
				"content": v,
			},
		}

	case map[string]interface{}:
		if explicitType, hasType := v["type"].(string); hasType {
			return x.expandExplicit(explicitType, v)
		}

		// Shorthand format: {"button#id": {...props}}; the first key wins
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			propsMap, ok := v[key].(map[string]interface{})
			if !ok {
				continue
			}
			return x.expandShorthand(key, propsMap)
		}
	}

	return nil
}

// expandExplicit handles {"type": "button", "id": "...", "props": {...}, "on_event": {...}}
func (x *expansion) expandExplicit(compType string, v map[string]interface{}) map[string]interface{} {
	compID, _ := v["id"].(string)
	propsMap, _ := v["props"].(map[string]interface{})
	if propsMap == nil {
		propsMap = make(map[string]interface{})
	}
	onEventMap, _ := v["on_event"].(map[string]interface{})
	childrenList, _ := v["children"].([]interface{})

	result := map[string]interface{}{
		"type":  compType,
		"props": propsMap,
	}

	// Ensure every component has an ID
	if compID != "" {
		result["id"] = compID
	} else {
		result["id"] = x.nextID(compType)
	}

	if len(onEventMap) > 0 {
		result["on_event"] = onEventMap
	}

	if len(childrenList) > 0 {
		result["children"] = x.expandComponents(childrenList)
	}

	return result
}

func (x *expansion) expandShorthand(key string, propsMap map[string]interface{}) map[string]interface{} {
	// Parse "type#id" or just "type"
	parts := strings.SplitN(key, "#", 2)
	compType := parts[0]
	var compID string
	if len(parts) > 1 {
		compID = parts[1]
	}

	// Work on a copy; the declared tree is shared by every render
	props := make(map[string]interface{}, len(propsMap))
	for k, v := range propsMap {
		props[k] = v
	}

	// Handle layout shortcuts
	switch compType {
	case "row":
		compType = "container"
		props["layout"] = "horizontal"
	case "col":
		compType = "container"
		props["layout"] = "vertical"
	case "sidebar", "main", "header", "footer", "content", "section":
		role := compType
		compType = "container"
		props["role"] = role
		if _, hasLayout := props["layout"]; !hasLayout {
			props["layout"] = "vertical"
		}
	}

	// Merge template with current props (current overrides template)
	if templateName, ok := props["$template"].(string); ok {
		if templateMap, ok := x.templates[templateName].(map[string]interface{}); ok {
			merged := make(map[string]interface{}, len(templateMap)+len(props))
			for k, v := range templateMap {
				merged[k] = v
			}
			for k, v := range props {
				if k != "$template" {
					merged[k] = v
				}
			}
			props = merged
		}
	}

	// Extract event handlers, children, and directives
	events := make(map[string]interface{})
	cleanProps := make(map[string]interface{})
	var children []interface{}
	var conditional interface{}
	var loopConfig interface{}

	for k, v := range props {
		switch {
		case strings.HasPrefix(k, "@"):
			events[strings.TrimPrefix(k, "@")] = v
		case k == "children":
			if childList, ok := v.([]interface{}); ok {
				children = append(children, childList...)
			}
		case k == "$if":
			conditional = v
		case k == "$for":
			loopConfig = v
		case !strings.HasPrefix(k, "$"):
			cleanProps[k] = v
		}
	}

	result := map[string]interface{}{
		"type":  compType,
		"props": cleanProps,
	}

	if compID != "" {
		result["id"] = compID
	} else {
		result["id"] = x.nextID(compType)
	}

	if len(events) > 0 {
		result["on_event"] = events
	}

	if len(children) > 0 {
		result["children"] = x.expandComponents(children)
	}

	if conditional != nil {
		result["$if"] = conditional
	}

	if loopConfig != nil {
		result["$for"] = loopConfig
	}

	return result
}
