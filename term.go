package etf

import "fmt"

// Term is one encodable wire term.
// AppendTerm appends the term's full encoding, tag byte included, to dst.
// On error the returned slice has dst's original length.
type Term interface {
	Tag() byte
	AppendTerm(dst []byte) ([]byte, error)
}

// Codec decodes the body of the term identified by Tag. The decoder is
// positioned just past the tag byte. Encoding is the job of the Term that
// Decode returns.
type Codec interface {
	Tag() byte
	Decode(d *Decoder) (Term, error)
}

// atomer is satisfied by atom-like terms usable as a node name.
type atomer interface {
	Atom() Atom
}

func nodeAtom(t Term) (Atom, error) {
	if a, ok := t.(atomer); ok {
		return a.Atom(), nil
	}
	return "", fmt.Errorf("%w: node must be an atom, got tag %d", ErrMalformedTerm, t.Tag())
}
