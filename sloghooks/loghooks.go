// Package sloghooks reports etf.Hooks events through log/slog, sampling the
// noisy ones.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	UnknownTagEvery   uint64
	DecodeFailedEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	unknownCtr atomic.Uint64
	decodeCtr  atomic.Uint64
}

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) UnknownTag(tag byte, offset int) {
	if h.l == nil || !sample(h.opts.UnknownTagEvery, &h.unknownCtr) {
		return
	}
	h.l.Debug("etf.unknown_tag",
		"tag", tag,
		"offset", offset)
}

func (h *Hooks) DecodeFailed(tag byte, offset int, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Info("etf.decode_failed",
		"tag", tag,
		"offset", offset,
		"err", err)
}

func (h *Hooks) EncodeFailed(tag byte, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("etf.encode_failed",
		"tag", tag,
		"err", err)
}
