package names

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/etf"
	c "github.com/unkn0wn-root/etf/codec"
	gen "github.com/unkn0wn-root/etf/genstore"
	"github.com/unkn0wn-root/etf/internal/wire"
	pr "github.com/unkn0wn-root/etf/provider"
)

const (
	defaultSweep        = time.Hour
	defaultGenRetention = 30 * 24 * time.Hour
)

type store[V any] struct {
	ns       string
	provider pr.Provider
	codec    c.Codec[V]
	log      etf.Logger
	gen      gen.GenStore
	ownsGen  bool
	ttl      time.Duration
	cost     CostFunc
}

var _ Store[etf.PidTerm] = (*store[etf.PidTerm])(nil)

func newStore[V any](opts Options[V]) (*store[V], error) {
	if opts.Namespace == "" {
		return nil, errors.New("names: namespace is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("names: provider is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("names: codec is required")
	}

	s := &store[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		log:      cmp.Or[etf.Logger](opts.Logger, etf.NopLogger{}),
		ttl:      opts.TTL,
		cost:     opts.Cost,
	}
	if s.cost == nil {
		s.cost = func(_ string, entry []byte) int64 { return int64(len(entry)) }
	}
	if opts.GenStore != nil {
		s.gen = opts.GenStore
	} else {
		s.gen = gen.NewLocal(
			cmp.Or(opts.CleanupInterval, defaultSweep),
			cmp.Or(opts.GenRetention, defaultGenRetention),
		)
		s.ownsGen = true
	}
	return s, nil
}

// Close closes the provider, and the generation store if the Store created it.
func (s *store[V]) Close(ctx context.Context) error {
	if s.ownsGen {
		_ = s.gen.Close(ctx)
	}
	return s.provider.Close(ctx)
}

func (s *store[V]) Whereis(ctx context.Context, name etf.Atom) (V, bool, error) {
	var zero V
	if err := validName(name); err != nil {
		return zero, false, err
	}
	k := s.key(name)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}

	g, payload, err := decodeEntry(raw)
	if err != nil {
		s.drop(ctx, k, "corrupt entry", name)
		return zero, false, nil
	}
	if cur := s.snapshot(ctx, name); g != cur {
		s.drop(ctx, k, "stale entry", name)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.drop(ctx, k, "undecodable entry", name)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *store[V]) WhereisMany(ctx context.Context, names []etf.Atom) (map[etf.Atom]V, []etf.Atom, error) {
	found := make(map[etf.Atom]V, len(names))
	var missing []etf.Atom
	for _, n := range names {
		v, ok, err := s.Whereis(ctx, n)
		if err != nil {
			return found, nil, err
		}
		if ok {
			found[n] = v
		} else {
			missing = append(missing, n)
		}
	}
	return found, missing, nil
}

func (s *store[V]) Register(ctx context.Context, name etf.Atom, v V, ttl time.Duration) error {
	if err := validName(name); err != nil {
		return err
	}
	return s.RegisterWithGen(ctx, name, v, s.snapshot(ctx, name), ttl)
}

// RegisterWithGen is a no-op when the generation has moved past observedGen.
// ttl 0 uses Options.TTL.
func (s *store[V]) RegisterWithGen(ctx context.Context, name etf.Atom, v V, observedGen uint64, ttl time.Duration) error {
	if err := validName(name); err != nil {
		return err
	}
	if s.snapshot(ctx, name) != observedGen {
		s.log.Debug("register skipped (gen moved)", etf.Fields{"name": string(name), "obs": observedGen})
		return nil
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("names: encode %q: %w", name, err)
	}
	if ttl == 0 {
		ttl = s.ttl
	}

	k := s.key(name)
	entry := encodeEntry(observedGen, payload)
	ok, err := s.provider.Set(ctx, k, entry, s.cost(k, entry), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("register rejected by provider", etf.Fields{"name": string(name)})
	}
	return nil
}

func (s *store[V]) Unregister(ctx context.Context, name etf.Atom) error {
	if err := validName(name); err != nil {
		return err
	}
	k := s.key(name)
	newGen, bumpErr := s.gen.Bump(ctx, name.String())
	delErr := s.provider.Del(ctx, k)
	if bumpErr != nil || delErr != nil {
		s.log.Error("unregister failed", etf.Fields{"name": string(name), "bumpErr": bumpErr, "delErr": delErr})
		return &UnregisterError{Name: string(name), BumpErr: bumpErr, DelErr: delErr}
	}
	s.log.Debug("unregistered", etf.Fields{"name": string(name), "gen": newGen})
	return nil
}

func (s *store[V]) SnapshotGen(ctx context.Context, name etf.Atom) uint64 {
	return s.snapshot(ctx, name)
}

func (s *store[V]) SnapshotGens(ctx context.Context, names []etf.Atom) map[etf.Atom]uint64 {
	out := make(map[etf.Atom]uint64, len(names))
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = n.String()
	}
	m, err := s.gen.SnapshotMany(ctx, keys)
	if err != nil {
		s.log.Warn("gen snapshot error", etf.Fields{"count": len(names), "err": err})
		for _, n := range names {
			out[n] = s.snapshot(ctx, n)
		}
		return out
	}
	for _, n := range names {
		out[n] = m[n.String()]
	}
	return out
}

// snapshot treats a failing generation store as generation 0. Registrations
// observed at a higher generation then skip, and reads self-heal.
func (s *store[V]) snapshot(ctx context.Context, name etf.Atom) uint64 {
	g, err := s.gen.Snapshot(ctx, name.String())
	if err != nil {
		s.log.Warn("gen snapshot error", etf.Fields{"name": string(name), "err": err})
		return 0
	}
	return g
}

func (s *store[V]) drop(ctx context.Context, key, why string, name etf.Atom) {
	s.log.Debug("dropping "+why, etf.Fields{"name": string(name)})
	_ = s.provider.Del(ctx, key)
}

func (s *store[V]) key(name etf.Atom) string {
	return "name:" + s.ns + ":" + string(name)
}

// validName accepts what fits an atom on the wire.
func validName(name etf.Atom) error {
	if name == "" || len(name) > wire.MaxSmallAtomLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
