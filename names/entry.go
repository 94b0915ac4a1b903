package names

import (
	"bytes"

	"github.com/unkn0wn-root/etf/internal/wire"
)

const entryVersion byte = 1

var entryMagic = [...]byte{'E', 'T', 'F', 'N'}

// magic(4) | ver(1)
const entryHeadSize = len(entryMagic) + 1

// magic(4) | ver(1) | gen(u64 be) | vlen(u32 be)
const entryHeaderSize = entryHeadSize + wire.Uint64Size + wire.Uint32Size

// encodeEntry frames a binding's payload with the generation it was written at:
//
//	magic "ETFN" | ver(1) | gen(u64 be) | vlen(u32 be) | payload(vlen)
func encodeEntry(gen uint64, payload []byte) []byte {
	b := make([]byte, 0, entryHeaderSize+len(payload))
	b = append(b, entryMagic[:]...)
	b = append(b, entryVersion)
	b = wire.AppendUint64(b, gen)
	b = wire.AppendUint32(b, uint32(len(payload)))
	return append(b, payload...)
}

// decodeEntry returns the generation and the payload, which aliases b.
// Bytes after the payload make the entry corrupt.
func decodeEntry(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < entryHeaderSize || !bytes.Equal(b[:len(entryMagic)], entryMagic[:]) || b[len(entryMagic)] != entryVersion {
		return 0, nil, ErrCorrupt
	}
	off := entryHeadSize
	gen = wire.Uint64At(b, off)
	off += wire.Uint64Size
	vlen := int(wire.Uint32At(b, off))
	off += wire.Uint32Size
	if !wire.Fits(b, off, vlen) || off+vlen != len(b) {
		return 0, nil, ErrCorrupt
	}
	return gen, b[off : off+vlen], nil
}
