// Package etf encodes and decodes the Erlang external term format for process
// identifiers (NEW_PID_EXT, tag 88) and references (NEWER_REFERENCE_EXT,
// tag 90), plus the atom terms they embed as node names.
//
// Decoding keeps every raw sub-field next to the semantic value, and encoding
// replays raw fields ahead of the semantic ones, so for any valid input
//
//	t, _, _ := etf.Decode(b)
//	out, _ := etf.Encode(t) // bytes.Equal(out, b)
//
// even when a field would not survive a semantic round trip.
//
// Components:
//   - Term: an encodable term. PidTerm, ReferenceTerm, AtomTerm and Atom.
//   - Codec: decodes the body of one tag. Encoding lives on the Term.
//   - Registry: fixed tag -> Codec table; Default() holds the builtins.
//   - Decoder: position-tracking reader over a caller-owned buffer; a failed
//     ReadTerm rolls the position back to the start of the term.
//
// Wire layouts (all integers big-endian, unsigned):
//
//	88 | node | id(4) | serial(4) | creation(4)
//	90 | len(2) | node | creation(4) | id(4) * len
//
// Codecs and terms are stateless values and safe for concurrent use as long
// as each goroutine decodes its own buffer.
package etf
