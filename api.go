package etf

// Decode reads one term from the start of b using the Default registry and
// returns it with the number of bytes consumed.
func Decode(b []byte) (Term, int, error) { return Default().Decode(b) }

// Encode returns t's encoding, tag byte first.
func Encode(t Term) ([]byte, error) { return Default().Encode(t) }

// Marshal encodes t in the external term format (version byte 131 first).
func Marshal(t Term) ([]byte, error) { return Default().Marshal(t) }

// Unmarshal decodes exactly one external-format term using the Default
// registry.
func Unmarshal(b []byte) (Term, error) { return Default().Unmarshal(b) }
