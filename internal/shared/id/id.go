// Package id provides centralized ID generation for the catalog.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: Handles issued later sort later
//   - Prefixed types: Type-specific prefixes for debugging (mod_*)
//   - Type safety: Separate types prevent ID misuse
//
// Handles identify loaded modules across reconciliation passes. A module keeps
// the handle it was stamped with for as long as the same export object is
// handed back by its source.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
)

// ============================================================================
// ID Prefixes (for debugging and type identification)
// ============================================================================

const (
	HandlePrefix = "mod"
	TracePrefix  = "trc"
	SpanPrefix   = "spn"
)

// ============================================================================
// ULID Generator (Primary)
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	// Default generator with cryptographically secure entropy
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewHandleID generates a new module handle
func NewHandleID() types.Handle {
	return types.Handle(Default().GenerateWithPrefix(HandlePrefix))
}

// HandleFromDigest derives a stable handle from a content digest.
// The same digest always yields the same handle.
func HandleFromDigest(digest string) types.Handle {
	if len(digest) > 26 {
		digest = digest[:26]
	}
	return types.Handle(fmt.Sprintf("%s_%s", HandlePrefix, strings.ToLower(digest)))
}

// ============================================================================
// Type Conversion and Validation
// ============================================================================

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// IsValidWithPrefix checks that id is prefix_<ULID>
func IsValidWithPrefix(prefix, id string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	return ok && IsValid(rest)
}
