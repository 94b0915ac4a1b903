// Package provider defines the byte store behind names.Store.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// []byte passed to Set. Stored entries hold external-format terms whose raw
// fields must survive untouched, so no transcoding, no added metadata.
//
// The keyspace "name:<ns>:" is owned by names.Store. Foreign values under it
// fail frame validation and are deleted on read.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0 means no expiry where the
	// backend supports it). May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
