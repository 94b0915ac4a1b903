// Package asynchook moves etf.Hooks calls off the decode path onto a small
// worker pool. Events are dropped when the queue is full.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{UnknownTagEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
//
//	reg, _ := etf.NewRegistry(etf.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/etf"
)

type Hooks struct {
	inner   etf.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards q against send after close
	closed  bool
	dropped atomic.Uint64
}

var _ etf.Hooks = (*Hooks)(nil)

func New(inner etf.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) UnknownTag(tag byte, off int) { h.try(func() { h.inner.UnknownTag(tag, off) }) }
func (h *Hooks) DecodeFailed(tag byte, off int, err error) {
	h.try(func() { h.inner.DecodeFailed(tag, off, err) })
}
func (h *Hooks) EncodeFailed(tag byte, err error) { h.try(func() { h.inner.EncodeFailed(tag, err) }) }
