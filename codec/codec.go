// Package codec converts values to and from bytes for storage or transport.
// ETF keeps terms byte-exact; CBOR, Msgpack and JSON serialize the semantic
// etf.Pid / etf.Reference structs.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
