package etf

import (
	"fmt"
	"strings"
)

// Formatting is for humans only; it plays no part in encode or decode.
// A term without raw overrides prints as its semantic value. A term carrying
// raw fields prints every raw slot, unset ones as "nil".

func (t PidTerm) String() string {
	if t.raw.IsZero() {
		return "etf.PidTerm[" + t.pid.String() + "]"
	}
	return inspect("etf.PidTerm", t.pid,
		optString(t.raw.Node),
		optString(t.raw.ID),
		optString(t.raw.Serial),
		optString(t.raw.Creation),
	)
}

func (t ReferenceTerm) String() string {
	if t.raw.IsZero() {
		return "etf.ReferenceTerm[" + t.ref.String() + "]"
	}
	return inspect("etf.ReferenceTerm", t.ref,
		optString(t.raw.Node),
		optString(t.raw.Creation),
		optString(t.raw.IDs),
	)
}

// Inspect renders any term. Terms without a String method fall back to
// their tag.
func Inspect(t Term) string {
	if t == nil {
		return "nil"
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("etf.Term[tag=%d]", t.Tag())
}

func inspect(name string, v fmt.Stringer, raw ...string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('[')
	sb.WriteString(v.String())
	for _, r := range raw {
		sb.WriteString(", ")
		sb.WriteString(r)
	}
	sb.WriteByte(']')
	return sb.String()
}

func optString[T any](o Opt[T]) string {
	v, ok := o.Get()
	if !ok {
		return "nil"
	}
	return fmt.Sprint(v)
}
