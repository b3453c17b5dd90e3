// Package loader normalizes the accepted module inputs into ordered units.
//
// Three shapes are accepted:
//   - Context: enumerates keys and loads exports per key, optionally resolving paths
//   - []Context: several contexts, concatenated in order
//   - Func: returns export objects directly
//
// A failing module is logged and skipped; the rest of the load continues.
// Every unit leaves Normalize with a handle, stamped onto its exports when missing.
//
// Example Usage:
//
//	units, err := loader.Normalize(source.NewDir(root, nil, logger), logger)
package loader
