package etf

import (
	"fmt"
	"unicode/utf8"

	"github.com/unkn0wn-root/etf/internal/wire"
)

// Atom is an atom value, held as UTF-8. Node names are atoms.
// As a Term it encodes with the UTF-8 atom tags, picking the small form when
// the name fits in 255 bytes.
type Atom string

func (a Atom) Atom() Atom     { return a }
func (a Atom) String() string { return string(a) }

func (a Atom) Tag() byte {
	if len(a) <= wire.MaxSmallAtomLen {
		return wire.SmallAtomUTF8
	}
	return wire.AtomUTF8
}

func (a Atom) AppendTerm(dst []byte) ([]byte, error) {
	return appendAtom(dst, a.Tag(), string(a))
}

// AtomTerm is an atom together with the tag and raw name bytes it was read
// with, so a decoded atom re-encodes to the same bytes (latin-1 tags included).
type AtomTerm struct {
	atom Atom
	tag  byte
	raw  Opt[string]
}

// NewAtomTerm wraps a with its default UTF-8 tag and no raw bytes.
func NewAtomTerm(a Atom) AtomTerm { return AtomTerm{atom: a, tag: a.Tag()} }

func (t AtomTerm) Atom() Atom     { return t.atom }
func (t AtomTerm) Tag() byte      { return t.tag }
func (t AtomTerm) String() string { return string(t.atom) }

func (t AtomTerm) AppendTerm(dst []byte) ([]byte, error) {
	if name, ok := t.raw.Get(); ok {
		return appendAtom(dst, t.tag, name)
	}
	return appendAtom(dst, t.tag, string(t.atom))
}

// AtomCodec decodes one of the four atom tags.
type AtomCodec struct{ tag byte }

// AtomCodecs returns codecs for ATOM_EXT, SMALL_ATOM_EXT, ATOM_UTF8_EXT and
// SMALL_ATOM_UTF8_EXT.
func AtomCodecs() []Codec {
	return []Codec{
		AtomCodec{tag: wire.Atom},
		AtomCodec{tag: wire.SmallAtom},
		AtomCodec{tag: wire.AtomUTF8},
		AtomCodec{tag: wire.SmallAtomUTF8},
	}
}

func (c AtomCodec) Tag() byte { return c.tag }

func (c AtomCodec) Decode(d *Decoder) (Term, error) {
	var n int
	if isSmallAtomTag(c.tag) {
		l, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}
		n = int(l)
	} else {
		l, err := d.ReadUint16()
		if err != nil {
			return nil, err
		}
		n = int(l)
	}
	b, err := d.Next(n)
	if err != nil {
		return nil, err
	}
	raw := string(b)
	name := raw
	if isLatin1Tag(c.tag) {
		name = latin1ToUTF8(b)
	} else if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: atom is not valid utf-8", ErrMalformedTerm)
	}
	return AtomTerm{atom: Atom(name), tag: c.tag, raw: Some(raw)}, nil
}

func appendAtom(dst []byte, tag byte, name string) ([]byte, error) {
	n0 := len(dst)
	switch {
	case isSmallAtomTag(tag):
		if len(name) > wire.MaxSmallAtomLen {
			return dst, fmt.Errorf("%w: atom of %d bytes under small tag %d", ErrValueOutOfRange, len(name), tag)
		}
		dst = append(dst, tag, byte(len(name)))
	case tag == wire.Atom || tag == wire.AtomUTF8:
		if len(name) > wire.MaxAtomLen {
			return dst, fmt.Errorf("%w: atom of %d bytes", ErrValueOutOfRange, len(name))
		}
		dst = append(dst, tag)
		dst = wire.AppendUint16(dst, uint16(len(name)))
	default:
		return dst[:n0], fmt.Errorf("%w: tag %d is not an atom tag", ErrTypeMismatch, tag)
	}
	return append(dst, name...), nil
}

func isSmallAtomTag(tag byte) bool { return tag == wire.SmallAtom || tag == wire.SmallAtomUTF8 }
func isLatin1Tag(tag byte) bool    { return tag == wire.Atom || tag == wire.SmallAtom }

func latin1ToUTF8(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}
