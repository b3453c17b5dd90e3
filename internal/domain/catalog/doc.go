// Package catalog provides the in-memory catalog store.
//
// Memory implements the registration contract used by reconciliation passes
// and serves read-only views to the HTTP API. Groups are keyed by title and
// kept in creation order; entries are keyed by id. Registering an id twice
// replaces the earlier entry and logs a warning.
//
// Example Usage:
//
//	store := catalog.NewMemory(logger).WithMetrics(metrics)
//	engine := reconcile.NewEngine(store, nil, logger)
//	entry, ok := store.Entry("button--primary")
//	out := entry.Render(types.Args{"label": "Save"})
package catalog
