package loader

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/showcase/internal/shared/id"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"go.uber.org/zap"
)

// ErrUnsupportedLoadable is returned when the input is none of the accepted shapes
var ErrUnsupportedLoadable = errors.New("unsupported loadable")

// Context enumerates module keys and loads the export object for a key
type Context interface {
	Keys() ([]string, error)
	Get(key string) (*types.Exports, error)
}

// Resolver maps a module key to its source path
type Resolver interface {
	Resolve(key string) string
}

// Func returns export objects directly; each must carry a default export
type Func func() []*types.Exports

// Normalize turns any accepted loadable into an ordered list of units.
// Accepted inputs are a Context, a []Context, or a Func.
func Normalize(input interface{}, logger *zap.Logger) ([]types.Unit, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch v := input.(type) {
	case Context:
		return fromContext(v, logger), nil
	case []Context:
		var units []types.Unit
		for _, ctx := range v {
			units = append(units, fromContext(ctx, logger)...)
		}
		return units, nil
	case Func:
		return fromFunc(v, logger), nil
	case func() []*types.Exports:
		return fromFunc(v, logger), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedLoadable, input)
	}
}

func fromContext(ctx Context, logger *zap.Logger) []types.Unit {
	if ctx == nil {
		return nil
	}

	keys, err := ctx.Keys()
	if err != nil {
		logger.Warn("failed to enumerate modules", zap.Error(err))
		return nil
	}

	resolver, _ := ctx.(Resolver)
	units := make([]types.Unit, 0, len(keys))
	for _, key := range keys {
		exports, err := safeGet(ctx, key)
		if err != nil {
			logger.Warn("unexpected error while loading module",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		if exports == nil {
			logger.Warn("module returned no exports", zap.String("key", key))
			continue
		}

		path := key
		if resolver != nil {
			path = resolver.Resolve(key)
		}
		units = append(units, newUnit(exports, path))
	}
	return units
}

// safeGet isolates a single module failure, including panics, from the pass
func safeGet(ctx Context, key string) (exports *types.Exports, err error) {
	defer func() {
		if r := recover(); r != nil {
			exports = nil
			err = fmt.Errorf("panic loading %s: %v", key, r)
		}
	}()
	return ctx.Get(key)
}

func fromFunc(fn Func, logger *zap.Logger) []types.Unit {
	if fn == nil {
		return nil
	}

	result := fn()
	if len(result) == 0 {
		return nil
	}

	for i, exports := range result {
		if exports == nil || exports.Default == nil {
			logger.Warn("loader function must return module exports with a default export; ignoring result",
				zap.Int("index", i),
				zap.Int("count", len(result)))
			return nil
		}
	}

	units := make([]types.Unit, 0, len(result))
	for _, exports := range result {
		units = append(units, newUnit(exports, ""))
	}
	return units
}

func newUnit(exports *types.Exports, path string) types.Unit {
	if exports.Handle == "" {
		exports.Handle = id.NewHandleID()
	}
	return types.Unit{
		Handle:  exports.Handle,
		Exports: exports,
		Path:    path,
	}
}
