package source

import (
	"fmt"
	"regexp"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// Generic value helpers shared by the decoders. Decoded documents arrive as
// map[string]interface{} / []interface{} trees regardless of format.

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asList(v interface{}) []interface{} {
	list, _ := v.([]interface{})
	return list
}

func asStrings(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", v)
}

func asParameters(v interface{}) types.Parameters {
	if m := asMap(v); m != nil {
		return types.Parameters(m)
	}
	return nil
}

func asArgs(v interface{}) types.Args {
	if m := asMap(v); m != nil {
		return types.Args(m)
	}
	return nil
}

func asArgTypes(v interface{}) types.ArgTypes {
	if m := asMap(v); m != nil {
		return types.ArgTypes(m)
	}
	return nil
}

// asMatcher accepts a list of export names or a single regular expression
func asMatcher(v interface{}) (*types.Matcher, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case string:
		pattern, err := regexp.Compile(m)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", m, err)
		}
		return &types.Matcher{Pattern: pattern}, nil
	default:
		names, err := asStrings(v)
		if err != nil {
			return nil, err
		}
		return &types.Matcher{Names: names}, nil
	}
}
