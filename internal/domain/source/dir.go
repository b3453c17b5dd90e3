package source

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/showcase/internal/domain/blueprint"
	"github.com/GriffinCanCode/showcase/internal/shared/id"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/GriffinCanCode/showcase/internal/shared/utils"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for a file with no registered decoder
var ErrUnsupportedFormat = errors.New("unsupported story module format")

// Decoder turns the content of one module file into exports
type Decoder interface {
	Decode(key string, data []byte) (*types.Exports, error)
}

// Options configures a Dir
type Options struct {
	// Patterns are doublestar globs matched against root-relative slash paths
	Patterns []string
	// Decorators resolves decorator names in declarative modules
	Decorators blueprint.DecoratorSet
	// ScriptTimeout bounds each script call; zero uses DefaultScriptTimeout
	ScriptTimeout time.Duration
}

// DefaultPatterns matches every supported story module extension
func DefaultPatterns() []string {
	return []string{"**/*.stories.{yaml,yml,json,toml,js}"}
}

type cached struct {
	digest  string
	exports *types.Exports
}

// Dir is a module context over story files under a root directory
type Dir struct {
	root     string
	patterns []string
	decoders map[string]Decoder
	hasher   *utils.Hasher
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]cached // Protected by mu
}

// NewDir creates a module context rooted at root
func NewDir(root string, opts Options, logger *zap.Logger) *Dir {
	if logger == nil {
		logger = zap.NewNop()
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	decorators := opts.Decorators
	if decorators == nil {
		decorators = blueprint.Builtins()
	}
	timeout := opts.ScriptTimeout
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}

	yamlDecoder := NewYAMLDecoder(decorators)
	return &Dir{
		root:     root,
		patterns: patterns,
		decoders: map[string]Decoder{
			".yaml": yamlDecoder,
			".yml":  yamlDecoder,
			".json": NewJSONDecoder(decorators),
			".toml": NewTOMLDecoder(decorators),
			".js":   NewScriptDecoder(timeout),
		},
		hasher: utils.DefaultHasher(),
		logger: logger,
		cache:  make(map[string]cached),
	}
}

// Root returns the root directory
func (d *Dir) Root() string {
	return d.root
}

// Register adds or replaces the decoder for a file extension (".ext")
func (d *Dir) Register(ext string, decoder Decoder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decoders[strings.ToLower(ext)] = decoder
}

// Keys returns the root-relative slash paths of matching files, sorted
func (d *Dir) Keys() ([]string, error) {
	if _, err := os.Stat(d.root); err != nil {
		return nil, fmt.Errorf("stories directory unavailable: %w", err)
	}

	var mu sync.Mutex
	var keys []string

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, d.root, func(p string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !d.Matches(rel) {
			return nil
		}

		// walkFn runs concurrently
		mu.Lock()
		keys = append(keys, rel)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.root, err)
	}

	sort.Strings(keys)
	d.prune(keys)
	return keys, nil
}

// Matches reports whether a root-relative slash path matches any pattern
func (d *Dir) Matches(rel string) bool {
	for _, pattern := range d.patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// prune drops cache entries for files that no longer exist
func (d *Dir) prune(keys []string) {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.cache {
		if !present[k] {
			delete(d.cache, k)
		}
	}
}

// Get loads the module for key. Unchanged content returns the cached exports,
// so the module keeps its handle across loads.
func (d *Dir) Get(key string) (*types.Exports, error) {
	data, err := os.ReadFile(d.Resolve(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	digest := d.hasher.Hash(data)

	d.mu.Lock()
	if c, ok := d.cache[key]; ok && c.digest == digest {
		d.mu.Unlock()
		return c.exports, nil
	}
	decoder, ok := d.decoders[strings.ToLower(path.Ext(key))]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, key)
	}

	exports, err := decoder.Decode(key, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	exports.Handle = id.HandleFromDigest(d.hasher.HashFields(key, digest))

	d.mu.Lock()
	d.cache[key] = cached{digest: digest, exports: exports}
	d.mu.Unlock()

	d.logger.Debug("module decoded",
		zap.String("key", key),
		zap.String("digest", utils.ShortHash(digest)),
		zap.String("handle", string(exports.Handle)),
	)
	return exports, nil
}

// Resolve returns the file path for key
func (d *Dir) Resolve(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}
