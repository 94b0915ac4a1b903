package etf

import (
	"github.com/unkn0wn-root/etf/internal/wire"
)

// Decoder reads terms from a caller-owned buffer. It is not safe for
// concurrent use; give each goroutine its own Decoder.
//
// Slices returned by Next alias the buffer. Codecs must copy whatever they
// keep, so no term outlives its buffer.
type Decoder struct {
	reg   *Registry
	data  []byte
	pos   int
	depth int
}

// ReadTerm decodes one term starting at the current offset and advances past
// it. On error the offset is restored to where the term began.
func (d *Decoder) ReadTerm() (Term, error) {
	start := d.pos
	if d.pos >= len(d.data) {
		err := &DecodeError{Offset: start, Err: shortRead(wire.TagSize, 0, start)}
		if d.depth == 0 {
			d.reg.hooks.DecodeFailed(0, start, err)
		}
		return nil, err
	}

	tag := d.data[d.pos]
	c, ok := d.reg.codecs[tag]
	if !ok {
		d.reg.log.Debug("unknown term tag", Fields{"tag": tag, "offset": start})
		d.reg.hooks.UnknownTag(tag, start)
		return nil, &DecodeError{Tag: tag, Offset: start, Err: ErrUnknownTag}
	}

	if d.depth >= d.reg.maxDepth {
		return nil, &DecodeError{Tag: tag, Offset: start, Err: ErrTooDeep}
	}

	d.pos += wire.TagSize
	d.depth++
	t, err := c.Decode(d)
	d.depth--
	if err != nil {
		d.pos = start
		if d.depth == 0 {
			d.reg.hooks.DecodeFailed(tag, start, err)
		}
		return nil, &DecodeError{Tag: tag, Offset: start, Err: err}
	}
	return t, nil
}

// Next returns the next n bytes and advances past them. If fewer than n
// remain it fails with ErrShortRead and does not advance.
func (d *Decoder) Next(n int) ([]byte, error) {
	if !wire.Fits(d.data, d.pos, n) {
		return nil, shortRead(n, d.Remaining(), d.pos)
	}
	b := d.data[d.pos : d.pos+n : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.Next(wire.Uint8Size)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.Next(wire.Uint16Size)
	if err != nil {
		return 0, err
	}
	return wire.Uint16At(b, 0), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.Next(wire.Uint32Size)
	if err != nil {
		return 0, err
	}
	return wire.Uint32At(b, 0), nil
}

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.pos }

// Remaining is the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.data) - d.pos }

// MaxIDs is the registry's cap on reference id counts.
func (d *Decoder) MaxIDs() int { return d.reg.maxIDs }
