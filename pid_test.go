package etf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/etf/internal/wire"
)

func TestPidDecodeNonodeScenario(t *testing.T) {
	in := []byte{
		88,
		119, 13, 'n', 'o', 'n', 'o', 'd', 'e', '@', 'n', 'o', 'h', 'o', 's', 't',
		0x00, 0x00, 0x00, 0x2A,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
	}

	term, n, err := Decode(in)
	require.NoError(t, err)
	assert.Equal(t, len(in), n)

	pt, ok := term.(PidTerm)
	require.True(t, ok, "got %T", term)
	assert.Equal(t, NewPid("nonode@nohost", 42, 0, 1), pt.Pid())

	id, ok := pt.Raw().ID.Get()
	require.True(t, ok)
	assert.Equal(t, uint32(42), id)
	assert.True(t, pt.Raw().Node.IsSet())
	assert.True(t, pt.Raw().Serial.IsSet())
	assert.True(t, pt.Raw().Creation.IsSet())

	out, err := Encode(term)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPidByteExactRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
	}{
		{"small utf8 node", pidBytes(smallUTF8Atom("a@b"), 1, 2, 3)},
		{"latin1 node", pidBytes(latin1Atom("nonode@nohost"), 42, 0, 1)},
		{"latin1 high byte node", pidBytes(latin1Atom("n\xe9@host"), 7, 0, 0)},
		{"serial high bits", pidBytes(smallUTF8Atom("x@y"), 1, 0xFFFF8000, 9)},
		{"max fields", pidBytes(smallUTF8Atom("x@y"), math.MaxUint32, math.MaxUint32, math.MaxUint32)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term, n, err := Decode(tc.in)
			require.NoError(t, err)
			assert.Equal(t, len(tc.in), n)

			out, err := Encode(term)
			require.NoError(t, err)
			assert.Equal(t, tc.in, out)
		})
	}
}

func TestPidLatin1NodeDecodesToUTF8(t *testing.T) {
	term, _, err := Decode(pidBytes(latin1Atom("n\xe9@host"), 7, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, Atom("né@host"), term.(PidTerm).Pid().Node)
}

func TestPidSemanticRoundTrip(t *testing.T) {
	pids := []Pid{
		NewPid("nonode@nohost", 0, 0, 0),
		NewPid("nonode@nohost", 42, 0, 1),
		NewPid("node@127.0.0.1", 1<<15-1, 1<<13, 0x5F3759DF),
		NewPid("max@host", math.MaxUint32, math.MaxUint32, math.MaxUint32),
	}
	for _, p := range pids {
		pt, err := WrapPid(p)
		require.NoError(t, err)
		assert.True(t, pt.Raw().IsZero())

		b, err := Encode(pt)
		require.NoError(t, err)

		got, n, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, len(b), n)
		assert.True(t, got.(PidTerm).Pid().Equal(p), "got %v want %v", got, p)
	}
}

func TestPidRawOverridesWin(t *testing.T) {
	p := NewPid("a@b", 1, 2, 3)
	pt := NewPidTerm(p, PidRaw{
		Node: Some[Term](Atom("other@host")),
		ID:   Some[uint32](7),
	})

	b, err := Encode(pt)
	require.NoError(t, err)
	assert.Equal(t, pidBytes(smallUTF8Atom("other@host"), 7, 2, 3), b)

	got, _, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, NewPid("other@host", 7, 2, 3), got.(PidTerm).Pid())
	// the wrapper itself keeps its semantic value
	assert.Equal(t, p, pt.Pid())
}

func TestWrapPidRejectsOtherKinds(t *testing.T) {
	p := NewPid("a@b", 1, 2, 3)
	pt, err := WrapPid(&p)
	require.NoError(t, err)
	assert.Equal(t, p, pt.Pid())

	for _, v := range []any{
		nil,
		"a@b",
		(*Pid)(nil),
		NewReference("a@b", 1, 1, 2, 3),
		Atom("a@b"),
		pt,
	} {
		_, err := WrapPid(v)
		assert.ErrorIs(t, err, ErrTypeMismatch, "value %#v", v)
	}
}

func TestPidShortReadAfterNode(t *testing.T) {
	full := pidBytes(smallUTF8Atom("nonode@nohost"), 42, 0, 1)
	in := full[:len(full)-1] // 11 bytes after the node

	d := Default().NewDecoder(in)
	_, err := d.ReadTerm()
	require.ErrorIs(t, err, ErrShortRead)
	assert.NotErrorIs(t, err, ErrMalformedTerm)
	assert.Equal(t, 0, d.Offset(), "position must roll back to the term start")

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, wire.NewPid, de.Tag)
	assert.Equal(t, 0, de.Offset)
}

func TestPidNodeFailuresAreMalformed(t *testing.T) {
	t.Run("unknown node tag", func(t *testing.T) {
		in := pidBytes([]byte{97, 5}, 1, 2, 3)
		_, _, err := Decode(in)
		assert.ErrorIs(t, err, ErrMalformedTerm)
		assert.ErrorIs(t, err, ErrUnknownTag)
	})

	t.Run("truncated node", func(t *testing.T) {
		in := []byte{wire.NewPid, wire.SmallAtomUTF8, 10, 'a', 'b'}
		_, _, err := Decode(in)
		assert.ErrorIs(t, err, ErrMalformedTerm)
		assert.ErrorIs(t, err, ErrShortRead)
	})

	t.Run("missing node", func(t *testing.T) {
		_, _, err := Decode([]byte{wire.NewPid})
		assert.ErrorIs(t, err, ErrMalformedTerm)
	})

	t.Run("non-atom node", func(t *testing.T) {
		reg, err := NewRegistry(Options{}, smallIntCodec{})
		require.NoError(t, err)
		_, _, err = reg.Decode(pidBytes([]byte{97, 5}, 1, 2, 3))
		assert.ErrorIs(t, err, ErrMalformedTerm)
		assert.NotErrorIs(t, err, ErrUnknownTag)
	})
}

func TestPidEncodeErrors(t *testing.T) {
	prefix := []byte{0xAA}

	pt := NewPidTerm(NewPid("a@b", 1, 2, 3), PidRaw{Node: Some[Term](nil)})
	out, err := pt.AppendTerm(prefix)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, prefix, out)

	long := make([]byte, wire.MaxAtomLen+1)
	for i := range long {
		long[i] = 'a'
	}
	pt = NewPidTerm(NewPid(Atom(long), 1, 2, 3), PidRaw{})
	out, err = pt.AppendTerm(prefix)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
	assert.Equal(t, prefix, out)
}
