package etf

// Hooks lightweight callbacks for high-signal registry events.
// Implementations MUST be cheap and non-blocking.
// The registry calls them on the decode/encode path.
type Hooks interface {
	// A tag byte with no registered codec was read at offset.
	UnknownTag(tag byte, offset int)

	// A top-level term failed to decode. Nested failures are reported once,
	// through the enclosing term.
	DecodeFailed(tag byte, offset int, err error)

	// Encoding a term failed (e.g. a field did not fit its wire width).
	EncodeFailed(tag byte, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) UnknownTag(byte, int)          {}
func (NopHooks) DecodeFailed(byte, int, error) {}
func (NopHooks) EncodeFailed(byte, error)      {}
