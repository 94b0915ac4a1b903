package etf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/unkn0wn-root/etf/internal/wire"
)

// RefKind tells which wire encoding a Reference belongs to.
type RefKind uint8

const (
	// RefNewer is NEWER_REFERENCE_EXT (4-byte creation). Zero value.
	RefNewer RefKind = iota
	// RefNew is the legacy NEW_REFERENCE_EXT (1-byte creation).
	RefNew
	// RefPlain is the legacy REFERENCE_EXT.
	RefPlain
)

func (k RefKind) String() string {
	switch k {
	case RefNewer:
		return "newer"
	case RefNew:
		return "new"
	case RefPlain:
		return "plain"
	default:
		return fmt.Sprintf("RefKind(%d)", uint8(k))
	}
}

// Reference is a unique reference. Order of IDs is significant.
// Kind is an encoding detail and is not part of equality.
type Reference struct {
	Node     Atom     `json:"node" cbor:"node" msgpack:"node"`
	Creation uint32   `json:"creation" cbor:"creation" msgpack:"creation"`
	IDs      []uint32 `json:"ids" cbor:"ids" msgpack:"ids"`
	Kind     RefKind  `json:"-" cbor:"-" msgpack:"-"`
}

// NewReference returns a newer-kind reference. ids are copied.
func NewReference(node Atom, creation uint32, ids ...uint32) Reference {
	return Reference{Node: node, Creation: creation, IDs: slices.Clone(ids), Kind: RefNewer}
}

// NewLegacyReference returns a reference of the given kind. Such references
// are decoded by legacy codecs and cannot be wrapped in a ReferenceTerm.
func NewLegacyReference(kind RefKind, node Atom, creation uint32, ids ...uint32) Reference {
	r := NewReference(node, creation, ids...)
	r.Kind = kind
	return r
}

func (r Reference) Newer() bool { return r.Kind == RefNewer }

func (r Reference) Equal(o Reference) bool {
	return r.Node == o.Node && r.Creation == o.Creation && slices.Equal(r.IDs, o.IDs)
}

func (r Reference) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#Ref<%s.%d", r.Node, r.Creation)
	for _, id := range r.IDs {
		fmt.Fprintf(&sb, ".%d", id)
	}
	sb.WriteByte('>')
	return sb.String()
}

// ReferenceRaw holds wire values that override the Reference's fields on
// encode. The length field is always derived from the ids written.
type ReferenceRaw struct {
	Node     Opt[Term]
	Creation Opt[uint32]
	IDs      Opt[[]uint32]
}

func (r ReferenceRaw) IsZero() bool {
	return !r.Node.IsSet() && !r.Creation.IsSet() && !r.IDs.IsSet()
}

// ReferenceTerm is a NEWER_REFERENCE_EXT term: a newer-kind Reference plus
// the raw fields it was decoded from.
type ReferenceTerm struct {
	ref Reference
	raw ReferenceRaw
}

// NewReferenceTerm pairs r with raw overrides. r must be a newer-kind
// reference, otherwise ErrTypeMismatch. Id slices are copied.
func NewReferenceTerm(r Reference, raw ReferenceRaw) (ReferenceTerm, error) {
	if !r.Newer() {
		return ReferenceTerm{}, fmt.Errorf("%w: reference kind %s is not newer", ErrTypeMismatch, r.Kind)
	}
	r.IDs = slices.Clone(r.IDs)
	if ids, ok := raw.IDs.Get(); ok {
		raw.IDs = Some(slices.Clone(ids))
	}
	return ReferenceTerm{ref: r, raw: raw}, nil
}

// WrapReference builds a ReferenceTerm with no raw overrides from a
// Reference or *Reference. Any other value, or a legacy-kind reference, fails
// with ErrTypeMismatch.
func WrapReference(v any) (ReferenceTerm, error) {
	switch r := v.(type) {
	case Reference:
		return NewReferenceTerm(r, ReferenceRaw{})
	case *Reference:
		if r != nil {
			return NewReferenceTerm(*r, ReferenceRaw{})
		}
	}
	return ReferenceTerm{}, fmt.Errorf("%w: want etf.Reference, got %T", ErrTypeMismatch, v)
}

// Reference returns a copy of the semantic value.
func (t ReferenceTerm) Reference() Reference {
	r := t.ref
	r.IDs = slices.Clone(r.IDs)
	return r
}

// Raw returns the raw overrides. The ids are a copy.
func (t ReferenceTerm) Raw() ReferenceRaw {
	raw := t.raw
	if ids, ok := raw.IDs.Get(); ok {
		raw.IDs = Some(slices.Clone(ids))
	}
	return raw
}
func (t ReferenceTerm) Tag() byte { return wire.NewerReference }

func (t ReferenceTerm) AppendTerm(dst []byte) ([]byte, error) {
	n0 := len(dst)
	ids := t.raw.IDs.Or(t.ref.IDs)
	if len(ids) > wire.MaxIDCount {
		return dst, fmt.Errorf("%w: reference has %d ids, max %d", ErrValueOutOfRange, len(ids), wire.MaxIDCount)
	}
	node := t.raw.Node.Or(t.ref.Node)
	if node == nil {
		return dst, fmt.Errorf("%w: reference node is nil", ErrTypeMismatch)
	}

	out := append(dst, wire.NewerReference)
	out = wire.AppendUint16(out, uint16(len(ids)))
	out, err := node.AppendTerm(out)
	if err != nil {
		return dst[:n0], fmt.Errorf("reference node: %w", err)
	}
	out = wire.AppendUint32(out, t.raw.Creation.Or(t.ref.Creation))
	out = wire.AppendUint32s(out, ids...)
	return out, nil
}

// NewerReferenceCodec decodes NEWER_REFERENCE_EXT:
//
//	90 | len(u16 be) | node(term) | creation(u32 be) | id(u32 be) * len
type NewerReferenceCodec struct{}

func (NewerReferenceCodec) Tag() byte { return wire.NewerReference }

func (NewerReferenceCodec) Decode(d *Decoder) (Term, error) {
	n, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	if limit := d.MaxIDs(); int(n) > limit {
		return nil, fmt.Errorf("%w: reference declares %d ids, limit %d", ErrValueOutOfRange, n, limit)
	}

	nodeTerm, err := d.ReadTerm()
	if err != nil {
		return nil, subTermError("reference node", err)
	}
	node, err := nodeAtom(nodeTerm)
	if err != nil {
		return nil, err
	}

	body, err := d.Next(wire.Uint32Size + wire.Uint32Size*int(n))
	if err != nil {
		return nil, err
	}
	creation := wire.Uint32At(body, 0)
	ids := wire.Uint32s(body[wire.Uint32Size:])

	t, err := NewReferenceTerm(NewReference(node, creation, ids...), ReferenceRaw{
		Node:     Some(nodeTerm),
		Creation: Some(creation),
		IDs:      Some(ids),
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
