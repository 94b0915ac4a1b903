// Package wire holds the tag bytes, field widths and big-endian packing
// primitives shared by the term codecs.
package wire

import "encoding/binary"

// Term tags of the external term format.
const (
	VersionMagic byte = 131

	NewPid         byte = 88
	NewerReference byte = 90
	Atom           byte = 100
	Reference      byte = 101 // legacy, not decoded here
	Pid            byte = 103 // legacy, not decoded here
	NewReference   byte = 114 // legacy, not decoded here
	SmallAtom      byte = 115
	AtomUTF8       byte = 118
	SmallAtomUTF8  byte = 119
)

// Field widths in bytes.
const (
	TagSize    = 1
	Uint8Size  = 1
	Uint16Size = 2
	Uint32Size = 4
	Uint64Size = 8

	// id | serial | creation
	PidHeadSize = 3 * Uint32Size
)

const (
	MaxSmallAtomLen = 0xFF
	MaxAtomLen      = 0xFFFF
	MaxIDCount      = 0xFFFF
)

// Fits reports whether n bytes are available in b starting at off.
func Fits(b []byte, off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(b) && n <= len(b)-off // overflow-safe
}

func AppendUint16(dst []byte, v uint16) []byte {
	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], v)
	return append(dst, u2[:]...)
}

func AppendUint32(dst []byte, v uint32) []byte {
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], v)
	return append(dst, u4[:]...)
}

func AppendUint64(dst []byte, v uint64) []byte {
	var u8 [8]byte
	binary.BigEndian.PutUint64(u8[:], v)
	return append(dst, u8[:]...)
}

// AppendUint32s packs vs back to back.
func AppendUint32s(dst []byte, vs ...uint32) []byte {
	for _, v := range vs {
		dst = AppendUint32(dst, v)
	}
	return dst
}

// Uint16At reads a big-endian uint16 at off. Callers check Fits first.
func Uint16At(b []byte, off int) uint16 {
	return binary.BigEndian.Uint16(b[off : off+Uint16Size])
}

// Uint32At reads a big-endian uint32 at off. Callers check Fits first.
func Uint32At(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+Uint32Size])
}

// Uint64At reads a big-endian uint64 at off. Callers check Fits first.
func Uint64At(b []byte, off int) uint64 {
	return binary.BigEndian.Uint64(b[off : off+Uint64Size])
}

// Uint32s splits b into consecutive big-endian words. len(b) must be a
// multiple of 4.
func Uint32s(b []byte) []uint32 {
	out := make([]uint32, len(b)/Uint32Size)
	for i := range out {
		out[i] = Uint32At(b, i*Uint32Size)
	}
	return out
}
