package codec

import (
	"fmt"

	"github.com/unkn0wn-root/etf"
)

// ETF stores terms in the external term format (version byte 131 first).
// Decoded terms keep their raw fields, so Encode(Decode(b)) == b.
//
// T narrows the decoded term: ETF[etf.PidTerm] rejects anything that is not
// a pid with etf.ErrTypeMismatch. Use ETF[etf.Term] to accept any term.
// A nil Registry means etf.Default().
type ETF[T etf.Term] struct {
	Registry *etf.Registry
}

var _ Codec[etf.Term] = ETF[etf.Term]{}

func (c ETF[T]) reg() *etf.Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return etf.Default()
}

func (c ETF[T]) Encode(t T) ([]byte, error) {
	return c.reg().Marshal(t)
}

func (c ETF[T]) Decode(b []byte) (T, error) {
	var zero T
	term, err := c.reg().Unmarshal(b)
	if err != nil {
		return zero, err
	}
	v, ok := term.(T)
	if !ok {
		return zero, fmt.Errorf("%w: decoded %T, want %T", etf.ErrTypeMismatch, term, zero)
	}
	return v, nil
}
