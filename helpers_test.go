package etf

import (
	"sync"

	"github.com/unkn0wn-root/etf/internal/wire"
)

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func smallUTF8Atom(name string) []byte {
	return append([]byte{wire.SmallAtomUTF8, byte(len(name))}, name...)
}

func latin1Atom(name string) []byte {
	return append(wire.AppendUint16([]byte{wire.Atom}, uint16(len(name))), name...)
}

func pidBytes(node []byte, id, serial, creation uint32) []byte {
	return concat([]byte{wire.NewPid}, node, wire.AppendUint32s(nil, id, serial, creation))
}

func refBytes(node []byte, creation uint32, ids ...uint32) []byte {
	return concat(
		wire.AppendUint16([]byte{wire.NewerReference}, uint16(len(ids))),
		node,
		wire.AppendUint32s(nil, creation),
		wire.AppendUint32s(nil, ids...),
	)
}

type hookEvent struct {
	kind   string
	tag    byte
	offset int
	err    error
}

type recordingHooks struct {
	mu     sync.Mutex
	events []hookEvent
}

func (h *recordingHooks) add(e hookEvent) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) UnknownTag(tag byte, offset int) {
	h.add(hookEvent{kind: "unknown_tag", tag: tag, offset: offset})
}
func (h *recordingHooks) DecodeFailed(tag byte, offset int, err error) {
	h.add(hookEvent{kind: "decode_failed", tag: tag, offset: offset, err: err})
}
func (h *recordingHooks) EncodeFailed(tag byte, err error) {
	h.add(hookEvent{kind: "encode_failed", tag: tag, err: err})
}

func (h *recordingHooks) kinds() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.kind
	}
	return out
}

type logLine struct {
	level string
	msg   string
	f     Fields
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	l.lines = append(l.lines, logLine{level, msg, f})
	l.mu.Unlock()
}

func (l *recordingLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recordingLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recordingLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recordingLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

// intTerm is a SMALL_INTEGER_EXT stand-in used to feed a non-atom node.
type intTerm uint8

func (intTerm) Tag() byte { return 97 }
func (i intTerm) AppendTerm(dst []byte) ([]byte, error) {
	return append(dst, 97, byte(i)), nil
}

type smallIntCodec struct{}

func (smallIntCodec) Tag() byte { return 97 }
func (smallIntCodec) Decode(d *Decoder) (Term, error) {
	v, err := d.ReadUint8()
	if err != nil {
		return nil, err
	}
	return intTerm(v), nil
}
