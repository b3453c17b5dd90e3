// Package reconcile implements the incremental registration pass.
//
// A pass diffs the units of the previous load against the current one by
// handle. Groups of removed units are unregistered by title; added units are
// registered as a group followed by their recognized entries. Unchanged units
// are left alone.
//
// Components:
//   - Engine: diff, removal and pass bookkeeping
//   - kind registration: group metadata and decorators
//   - story registration: ordering, legacy annotation merge and ids
//
// A fatal error (missing title, invalid id, store failure) stops the pass.
// Registrations made earlier in the same pass are not rolled back.
package reconcile
