// Package hotreload coordinates reconciliation passes across reload cycles.
//
// The Coordinator keeps the snapshot of the last successful pass and hands it
// to the reconcile engine as the previous state. A Channel carries that
// snapshot across a reload: before teardown the coordinator returns its
// snapshot to the channel and clears its load state, and the next load
// restores it.
//
// Example Usage:
//
//	channel := hotreload.NewMemoryChannel()
//	coord := hotreload.NewCoordinator(engine, nil, logger)
//	err := coord.Load("blueprint", dir, channel)
//	channel.Reload()
//	err = coord.Load("blueprint", dir, channel)
package hotreload
