package loader

import (
	"fmt"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// Static is an in-memory Context over a fixed set of modules
type Static struct {
	order   []string
	modules map[string]*types.Exports
	paths   map[string]string
}

// NewStatic creates an empty static context
func NewStatic() *Static {
	return &Static{
		modules: make(map[string]*types.Exports),
		paths:   make(map[string]string),
	}
}

// Add registers exports under key; re-adding a key keeps its position
func (s *Static) Add(key string, exports *types.Exports) *Static {
	if _, exists := s.modules[key]; !exists {
		s.order = append(s.order, key)
	}
	s.modules[key] = exports
	return s
}

// AddPath registers exports with an explicit source path
func (s *Static) AddPath(key, path string, exports *types.Exports) *Static {
	s.Add(key, exports)
	s.paths[key] = path
	return s
}

// Remove drops a module
func (s *Static) Remove(key string) {
	if _, exists := s.modules[key]; !exists {
		return
	}
	delete(s.modules, key)
	delete(s.paths, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Keys returns module keys in insertion order
func (s *Static) Keys() ([]string, error) {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys, nil
}

// Get returns the exports for key
func (s *Static) Get(key string) (*types.Exports, error) {
	exports, ok := s.modules[key]
	if !ok {
		return nil, fmt.Errorf("module not found: %s", key)
	}
	return exports, nil
}

// Resolve returns the registered path, or the key itself
func (s *Static) Resolve(key string) string {
	if path, ok := s.paths[key]; ok {
		return path
	}
	return key
}
