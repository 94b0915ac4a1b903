package genstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares generations across peers and survives restarts. With a TTL set,
// idle counters expire; readers then observe 0 and stale entries self-heal.
type Redis struct {
	rdb redis.UniversalClient
	ns  string        // should match names.Options.Namespace
	ttl time.Duration // 0 disables expiry
}

var _ GenStore = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(name string) string { return "gen:" + s.ns + ":" + name }

func (s *Redis) Snapshot(ctx context.Context, name string) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseGen(name, res)
}

// SnapshotMany issues a single MGET.
func (s *Redis) SnapshotMany(ctx context.Context, names []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(names))
	if len(names) == 0 {
		return out, nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = s.key(n)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if v == nil {
			out[names[i]] = 0
			continue
		}
		g, err := parseGen(names[i], fmt.Sprint(v))
		if err != nil {
			return nil, err
		}
		out[names[i]] = g
	}
	return out, nil
}

// Bump pipelines INCR and EXPIRE when a TTL is configured.
func (s *Redis) Bump(ctx context.Context, name string) (uint64, error) {
	k := s.key(name)
	if s.ttl <= 0 {
		v, err := s.rdb.Incr(ctx, k).Result()
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}

	var incr *redis.IntCmd
	if _, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	}); err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

func (s *Redis) Cleanup(time.Duration) {}

// Close leaves the client open; it is owned by the caller.
func (s *Redis) Close(context.Context) error { return nil }

func parseGen(name, s string) (uint64, error) {
	g, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("genstore: generation of %q: %w", name, err)
	}
	return g, nil
}
