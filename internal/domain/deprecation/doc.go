// Package deprecation provides first-use-only advisory warnings.
//
// Each advisory is keyed by an id; the first Notify for an id logs a zap
// warning and every later call for that id is a no-op until Reset.
package deprecation
