package codec

import "fmt"

// Limit wraps another codec and refuses to decode payloads larger than
// MaxDecode bytes, without invoking Inner. Encode is forwarded unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// A NEWER_REFERENCE_EXT may declare up to 65535 ids (~256KiB); put a Limit
// in front of ETF when terms come from an untrusted peer.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
