// Package types provides shared data structures for the showcase catalog.
//
// This package defines the module export model consumed by the loader and
// the registration engine, and the store contract the engine registers into.
//
// Module Types:
//   - Exports: One loaded module (default export plus named exports)
//   - Meta: Group ("kind") description carried by the default export
//   - Story: Entry description carried by a named export
//   - Unit: Exports plus the path it was loaded from
//   - Snapshot: Units registered by the last successful pass
//
// Store Contract:
//   - Store: CreateOrGetGroup / RemoveGroup
//   - GroupHandle: SetParameters / AddDecorator / AddEntry
//
// Example Usage:
//
//	exports := &types.Exports{
//	    Default: &types.Meta{Title: "Button"},
//	    Named: []types.NamedExport{
//	        {Key: "Primary", Story: &types.Story{Render: render}},
//	    },
//	}
package types
