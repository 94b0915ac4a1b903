// Package genstore tracks one generation counter per registered name.
//
// names.Store reads the generation before resolving a binding and writes only
// if it has not moved, so an Unregister racing a RegisterWithGen always wins.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use Local for a single process, or Redis when several peers share a registry.
type GenStore interface {
	// Snapshot returns the current generation of name; unknown names are 0.
	Snapshot(ctx context.Context, name string) (uint64, error)
	// SnapshotMany returns generations for many names; unknown names are 0.
	SnapshotMany(ctx context.Context, names []string) (map[string]uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, name string) (uint64, error)
	// Cleanup drops counters idle longer than retention (no-op where the
	// backend expires keys itself).
	Cleanup(retention time.Duration)
	Close(context.Context) error
}
