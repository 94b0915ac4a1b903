package etf

import (
	"fmt"

	"github.com/unkn0wn-root/etf/internal/wire"
)

// Pid is a process identifier. Equality uses these fields only.
//
// Without the DFLAG_V4_NC distribution capability only the low 15 bits of
// Serial are significant and the rest must be zero. That is left to the
// caller; nothing here masks or checks it.
type Pid struct {
	Node     Atom   `json:"node" cbor:"node" msgpack:"node"`
	ID       uint32 `json:"id" cbor:"id" msgpack:"id"`
	Serial   uint32 `json:"serial" cbor:"serial" msgpack:"serial"`
	Creation uint32 `json:"creation" cbor:"creation" msgpack:"creation"`
}

func NewPid(node Atom, id, serial, creation uint32) Pid {
	return Pid{Node: node, ID: id, Serial: serial, Creation: creation}
}

func (p Pid) Equal(o Pid) bool { return p == o }

func (p Pid) String() string {
	return fmt.Sprintf("#Pid<%s.%d.%d.%d>", p.Node, p.ID, p.Serial, p.Creation)
}

// PidRaw holds wire values that override the Pid's fields on encode.
type PidRaw struct {
	Node     Opt[Term]
	ID       Opt[uint32]
	Serial   Opt[uint32]
	Creation Opt[uint32]
}

func (r PidRaw) IsZero() bool {
	return !r.Node.IsSet() && !r.ID.IsSet() && !r.Serial.IsSet() && !r.Creation.IsSet()
}

// PidTerm is a NEW_PID_EXT term: a Pid plus the raw fields it was decoded
// from. Decoded terms carry every raw field and re-encode byte for byte.
type PidTerm struct {
	pid Pid
	raw PidRaw
}

// NewPidTerm pairs p with raw overrides. Pass PidRaw{} to encode from p alone.
func NewPidTerm(p Pid, raw PidRaw) PidTerm {
	return PidTerm{pid: p, raw: raw}
}

// WrapPid builds a PidTerm with no raw overrides from a Pid or *Pid.
// Any other value fails with ErrTypeMismatch.
func WrapPid(v any) (PidTerm, error) {
	switch p := v.(type) {
	case Pid:
		return NewPidTerm(p, PidRaw{}), nil
	case *Pid:
		if p != nil {
			return NewPidTerm(*p, PidRaw{}), nil
		}
	}
	return PidTerm{}, fmt.Errorf("%w: want etf.Pid, got %T", ErrTypeMismatch, v)
}

func (t PidTerm) Pid() Pid    { return t.pid }
func (t PidTerm) Raw() PidRaw { return t.raw }
func (t PidTerm) Tag() byte   { return wire.NewPid }

func (t PidTerm) AppendTerm(dst []byte) ([]byte, error) {
	n0 := len(dst)
	node := t.raw.Node.Or(t.pid.Node)
	if node == nil {
		return dst, fmt.Errorf("%w: pid node is nil", ErrTypeMismatch)
	}

	out := append(dst, wire.NewPid)
	out, err := node.AppendTerm(out)
	if err != nil {
		return dst[:n0], fmt.Errorf("pid node: %w", err)
	}
	out = wire.AppendUint32s(out,
		t.raw.ID.Or(t.pid.ID),
		t.raw.Serial.Or(t.pid.Serial),
		t.raw.Creation.Or(t.pid.Creation),
	)
	return out, nil
}

// PidCodec decodes NEW_PID_EXT:
//
//	88 | node(term) | id(u32 be) | serial(u32 be) | creation(u32 be)
type PidCodec struct{}

func (PidCodec) Tag() byte { return wire.NewPid }

func (PidCodec) Decode(d *Decoder) (Term, error) {
	nodeTerm, err := d.ReadTerm()
	if err != nil {
		return nil, subTermError("pid node", err)
	}
	node, err := nodeAtom(nodeTerm)
	if err != nil {
		return nil, err
	}

	head, err := d.Next(wire.PidHeadSize)
	if err != nil {
		return nil, err
	}
	id := wire.Uint32At(head, 0)
	serial := wire.Uint32At(head, 4)
	creation := wire.Uint32At(head, 8)

	return NewPidTerm(NewPid(node, id, serial, creation), PidRaw{
		Node:     Some(nodeTerm),
		ID:       Some(id),
		Serial:   Some(serial),
		Creation: Some(creation),
	}), nil
}
