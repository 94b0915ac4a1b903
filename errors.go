package etf

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a wrapper built from a value of the wrong kind.
	ErrTypeMismatch = errors.New("etf: type mismatch")
	// ErrShortRead reports fewer remaining bytes than a fixed-width field needs.
	ErrShortRead = errors.New("etf: short read")
	// ErrMalformedTerm reports a term (or nested sub-term) that cannot be decoded.
	ErrMalformedTerm = errors.New("etf: malformed term")
	// ErrValueOutOfRange reports a value that does not fit its wire field.
	ErrValueOutOfRange = errors.New("etf: value out of range")

	ErrUnknownTag    = fmt.Errorf("%w: unknown tag", ErrMalformedTerm)
	ErrVersion       = fmt.Errorf("%w: missing version magic", ErrMalformedTerm)
	ErrTrailingBytes = fmt.Errorf("%w: trailing bytes", ErrMalformedTerm)
	ErrTooDeep       = fmt.Errorf("%w: terms nested too deep", ErrMalformedTerm)

	ErrCodecExists = errors.New("etf: codec already registered for tag")
	ErrNilCodec    = errors.New("etf: codec is nil")
)

// DecodeError locates a failed term decode in the input buffer.
// Offset is the position of the term's tag byte.
type DecodeError struct {
	Tag    byte
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Tag == 0 {
		return fmt.Sprintf("etf: decode at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("etf: decode tag %d at offset %d: %v", e.Tag, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// subTermError marks a nested decode failure as malformed while keeping the
// cause reachable through errors.Is / errors.As.
func subTermError(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMalformedTerm, field, err)
}

func shortRead(need, have, off int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, need, off, have)
}
