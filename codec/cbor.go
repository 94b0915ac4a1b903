package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/etf"
)

// CBOR tag numbers wrapping semantic etf values. Chosen from the
// first-come-first-served range; the low digits mirror the ETF tags.
const (
	CBORTagPid       uint64 = 38088
	CBORTagReference uint64 = 38090
)

// CBOR is a Codec that serializes values using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// etf.Pid and etf.Reference (anywhere inside V) are written as tagged
// values (CBORTagPid / CBORTagReference) and the tags are required on decode.
// Use deterministic=true for RFC 8949 Core Deterministic encoding when the
// output is hashed or compared byte for byte.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[etf.Pid] = CBOR[etf.Pid]{}

func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	tags, err := etfTagSet()
	if err != nil {
		return CBOR[V]{}, err
	}

	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncModeWithTags(tags)
	if err != nil {
		return CBOR[V]{}, err
	}
	dm, err := (cbor.DecOptions{}).DecModeWithTags(tags)
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables in tests/examples.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func etfTagSet() (cbor.TagSet, error) {
	ts := cbor.NewTagSet()
	opts := cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired}
	if err := ts.Add(opts, reflect.TypeOf(etf.Pid{}), CBORTagPid); err != nil {
		return nil, err
	}
	if err := ts.Add(opts, reflect.TypeOf(etf.Reference{}), CBORTagReference); err != nil {
		return nil, err
	}
	return ts, nil
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
