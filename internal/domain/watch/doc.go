// Package watch triggers reloads when story files change.
//
// The watcher follows every directory below the root with fsnotify, filters
// events, and collapses bursts into a single action call after a quiet
// period. Action failures are logged and counted; the loop keeps running
// until its context is cancelled.
//
// Typical usage:
//
//	w := watch.New(root, watch.Options{Debounce: 250 * time.Millisecond, Filter: filter})
//	go w.Run(ctx, func() error { return reload() })
package watch
