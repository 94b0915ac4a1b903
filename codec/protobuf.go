package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/unkn0wn-root/etf"
)

// Protobuf serializes generated protobuf messages.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.Envelope { return &mypb.Envelope{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// Envelope carries a term's external-format bytes inside a
// google.protobuf.BytesValue, for services that only speak protobuf.
// The term bytes are untouched, so the byte-exact guarantee holds.
type Envelope[T etf.Term] struct {
	Term ETF[T]
}

func (c Envelope[T]) pb() Protobuf[*wrapperspb.BytesValue] {
	return NewProtobuf(func() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} })
}

func (c Envelope[T]) Encode(t T) ([]byte, error) {
	b, err := c.Term.Encode(t)
	if err != nil {
		return nil, err
	}
	return c.pb().Encode(wrapperspb.Bytes(b))
}

func (c Envelope[T]) Decode(b []byte) (T, error) {
	m, err := c.pb().Decode(b)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Term.Decode(m.GetValue())
}
