package genstore

import (
	"context"
	"sync"
	"time"
)

type localGen struct {
	gen     uint64
	touched time.Time
}

// Local keeps generations in-process. A background sweep prunes idle names
// when both interval and retention are positive.
type Local struct {
	mu   sync.RWMutex
	gens map[string]localGen

	stop chan struct{}
	done sync.WaitGroup
	now  func() time.Time
}

var _ GenStore = (*Local)(nil)

func NewLocal(interval, retention time.Duration) *Local {
	s := &Local{gens: make(map[string]localGen), now: time.Now}
	if interval <= 0 || retention <= 0 {
		return s
	}
	s.stop = make(chan struct{})
	s.done.Add(1)
	go s.sweep(interval, retention)
	return s
}

func (s *Local) sweep(interval, retention time.Duration) {
	defer s.done.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Cleanup(retention)
		case <-s.stop:
			return
		}
	}
}

func (s *Local) Snapshot(_ context.Context, name string) (uint64, error) {
	s.mu.RLock()
	g := s.gens[name].gen
	s.mu.RUnlock()
	return g, nil
}

// SnapshotMany reads all names under one read lock.
func (s *Local) SnapshotMany(_ context.Context, names []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(names))
	s.mu.RLock()
	for _, n := range names {
		out[n] = s.gens[n].gen
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Local) Bump(_ context.Context, name string) (uint64, error) {
	now := s.now()
	s.mu.Lock()
	g := s.gens[name]
	g.gen++
	g.touched = now
	s.gens[name] = g
	s.mu.Unlock()
	return g.gen, nil
}

// Cleanup forgets names not bumped within retention. A forgotten name reads
// as generation 0 again: entries stored at a higher generation go stale, but
// a writer still holding a generation-0 snapshot from before the name's first
// Unregister can write it back. Pick a retention longer than any
// snapshot-to-write window.
func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := s.now().Add(-retention)
	s.mu.Lock()
	for n, g := range s.gens {
		if g.touched.Before(cutoff) {
			delete(s.gens, n)
		}
	}
	s.mu.Unlock()
}

// Close stops the sweep. Safe to call more than once.
func (s *Local) Close(context.Context) error {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
		s.done.Wait()
	}
	return nil
}
