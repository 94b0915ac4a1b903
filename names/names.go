// Package names binds registered names to terms, the way register/2 and
// whereis/1 do on a node, and keeps each binding as its exact wire encoding
// in a provider.Provider.
//
// Every name has a generation (see genstore). A binding is written only if
// the generation observed before the write is still current, and it is
// served only while its stored generation matches. Unregister bumps the
// generation first, so a slow writer holding an old snapshot can never
// resurrect a name. Entries that fail any check are deleted on read.
//
//	st, _ := names.New(names.Options[etf.PidTerm]{
//		Namespace: "node1",
//		Provider:  p,
//		Codec:     codec.ETF[etf.PidTerm]{},
//	})
//	g := st.SnapshotGen(ctx, "logger")
//	_ = st.RegisterWithGen(ctx, "logger", pid, g, 0)
//	pid, ok, err := st.Whereis(ctx, "logger")
package names

import (
	"context"
	"time"

	"github.com/unkn0wn-root/etf"
	c "github.com/unkn0wn-root/etf/codec"
	gen "github.com/unkn0wn-root/etf/genstore"
	pr "github.com/unkn0wn-root/etf/provider"
)

// CostFunc returns the provider cost of storing entry under key.
type CostFunc func(key string, entry []byte) int64

// Store is the name registry. V is usually etf.PidTerm.
type Store[V any] interface {
	Close(context.Context) error

	Whereis(ctx context.Context, name etf.Atom) (v V, ok bool, err error)
	// WhereisMany resolves names one by one; unresolved names are returned
	// in input order.
	WhereisMany(ctx context.Context, names []etf.Atom) (found map[etf.Atom]V, missing []etf.Atom, err error)

	// Register snapshots the generation and writes in one call. It cannot
	// detect an Unregister that happened before the caller decided to write.
	Register(ctx context.Context, name etf.Atom, v V, ttl time.Duration) error
	RegisterWithGen(ctx context.Context, name etf.Atom, v V, observedGen uint64, ttl time.Duration) error
	Unregister(ctx context.Context, name etf.Atom) error

	SnapshotGen(ctx context.Context, name etf.Atom) uint64
	SnapshotGens(ctx context.Context, names []etf.Atom) map[etf.Atom]uint64
}

// Options configure a Store. Namespace, Provider and Codec are required.
type Options[V any] struct {
	Namespace string // isolates registries sharing a provider, e.g. a node name
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger          etf.Logger    // nil => etf.NopLogger
	GenStore        gen.GenStore  // nil => genstore.Local owned by the Store
	TTL             time.Duration // default binding lifetime; 0 => no expiry
	CleanupInterval time.Duration // local gens sweep; 0 => 1h
	GenRetention    time.Duration // local gens idle retention; 0 => 30d
	Cost            CostFunc      // nil => entry size in bytes
}

func New[V any](opts Options[V]) (Store[V], error) {
	return newStore(opts)
}
