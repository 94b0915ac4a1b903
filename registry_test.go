package etf

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/etf/internal/wire"
)

func TestDefaultRegistryTags(t *testing.T) {
	assert.Equal(t, []byte{
		wire.NewPid,
		wire.NewerReference,
		wire.Atom,
		wire.SmallAtom,
		wire.AtomUTF8,
		wire.SmallAtomUTF8,
	}, Default().Tags())
	assert.Same(t, Default(), Default())

	c, ok := Default().Lookup(wire.NewPid)
	require.True(t, ok)
	assert.IsType(t, PidCodec{}, c)

	_, ok = Default().Lookup(wire.Pid)
	assert.False(t, ok, "legacy PID_EXT is not handled here")
}

func TestNewRegistryValidation(t *testing.T) {
	_, err := NewRegistry(Options{}, PidCodec{})
	assert.ErrorIs(t, err, ErrCodecExists)

	_, err = NewRegistry(Options{}, nil)
	assert.ErrorIs(t, err, ErrNilCodec)

	_, err = NewRegistry(Options{MaxIDs: -1})
	assert.Error(t, err)

	_, err = NewRegistry(Options{MaxIDs: wire.MaxIDCount + 1})
	assert.Error(t, err)

	_, err = NewRegistry(Options{MaxDepth: -1})
	assert.Error(t, err)

	log := &recordingLogger{}
	reg, err := NewRegistry(Options{Logger: log}, smallIntCodec{})
	require.NoError(t, err)
	assert.Contains(t, reg.Tags(), byte(97))
	require.Len(t, log.lines, 1)
	assert.Equal(t, "registered codec", log.lines[0].msg)
}

func TestUnknownTagReportsHookAndLog(t *testing.T) {
	hooks := &recordingHooks{}
	log := &recordingLogger{}
	reg, err := NewRegistry(Options{Hooks: hooks, Logger: log})
	require.NoError(t, err)

	_, _, err = reg.Decode([]byte{wire.Pid, 1, 2, 3})
	require.ErrorIs(t, err, ErrUnknownTag)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, wire.Pid, de.Tag)

	assert.Equal(t, []string{"unknown_tag"}, hooks.kinds())
	require.Len(t, log.lines, 1)
	assert.Equal(t, "debug", log.lines[0].level)
}

func TestDecodeFailedFiresOncePerTopLevelTerm(t *testing.T) {
	hooks := &recordingHooks{}
	reg, err := NewRegistry(Options{Hooks: hooks})
	require.NoError(t, err)

	// truncated node inside a pid: nested failure, reported once for tag 88
	_, _, err = reg.Decode([]byte{wire.NewPid, wire.SmallAtomUTF8, 10, 'a'})
	require.Error(t, err)

	require.Equal(t, []string{"decode_failed"}, hooks.kinds())
	assert.Equal(t, wire.NewPid, hooks.events[0].tag)
	assert.Equal(t, 0, hooks.events[0].offset)
}

func TestEncodeFailedHook(t *testing.T) {
	hooks := &recordingHooks{}
	reg, err := NewRegistry(Options{Hooks: hooks})
	require.NoError(t, err)

	rt, err := NewReferenceTerm(NewReference("a@b", 1, make([]uint32, wire.MaxIDCount+1)...), ReferenceRaw{})
	require.NoError(t, err)

	_, err = reg.Encode(rt)
	require.ErrorIs(t, err, ErrValueOutOfRange)
	assert.Equal(t, []string{"encode_failed"}, hooks.kinds())

	_, err = reg.Encode(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, _, err := Decode(nil)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestDecoderReadsSequentialTerms(t *testing.T) {
	pid := pidBytes(smallUTF8Atom("a@b"), 1, 2, 3)
	ref := refBytes(smallUTF8Atom("a@b"), 4, 5, 6)
	in := concat(pid, ref, []byte{0xFF})

	term, n, err := Decode(in)
	require.NoError(t, err)
	assert.Equal(t, len(pid), n, "Decode must stop after one term")
	assert.IsType(t, PidTerm{}, term)

	d := Default().NewDecoder(in)
	_, err = d.ReadTerm()
	require.NoError(t, err)
	_, err = d.ReadTerm()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Remaining())

	off := d.Offset()
	_, err = d.ReadTerm()
	require.ErrorIs(t, err, ErrUnknownTag)
	assert.Equal(t, off, d.Offset())
}

func TestMarshalUnmarshal(t *testing.T) {
	pt, err := WrapPid(NewPid("nonode@nohost", 42, 0, 1))
	require.NoError(t, err)

	b, err := Marshal(pt)
	require.NoError(t, err)
	assert.Equal(t, wire.VersionMagic, b[0])
	assert.Equal(t, pidBytes(smallUTF8Atom("nonode@nohost"), 42, 0, 1), b[1:])

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, pt.Pid(), got.(PidTerm).Pid())

	_, err = Unmarshal(b[1:])
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Unmarshal(nil)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Unmarshal(append(append([]byte(nil), b...), 0xDE, 0xAD))
	assert.ErrorIs(t, err, ErrTrailingBytes)

	_, err = Unmarshal([]byte{wire.VersionMagic})
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestConcurrentDecodeEncode(t *testing.T) {
	inputs := [][]byte{
		pidBytes(smallUTF8Atom("nonode@nohost"), 42, 0, 1),
		refBytes(smallUTF8Atom("foo@bar"), 2, 1, 2, 3),
		pidBytes(latin1Atom("a@b"), 7, 8, 9),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*len(inputs))
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				in := inputs[i%len(inputs)]
				term, _, err := Decode(in)
				if err != nil {
					errs <- err
					return
				}
				out, err := Encode(term)
				if err != nil {
					errs <- err
					return
				}
				if string(out) != string(in) {
					errs <- assert.AnError
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent round trip: %v", err)
	}
}

func TestDeeplyNestedNodesAreRejected(t *testing.T) {
	cases := map[string][]byte{
		"pids":       bytes.Repeat([]byte{wire.NewPid}, 1<<20),
		"references": bytes.Repeat([]byte{wire.NewerReference, 0, 0}, 1<<18),
	}
	for name, in := range cases {
		hooks := &recordingHooks{}
		reg, err := NewRegistry(Options{Hooks: hooks})
		require.NoError(t, err)

		_, n, err := reg.Decode(in)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrMalformedTerm, name)
		assert.ErrorIs(t, err, ErrTooDeep, name)
		assert.Zero(t, n, name)
		assert.Less(t, len(err.Error()), 4096, name)

		var de *DecodeError
		require.ErrorAs(t, err, &de, name)
		assert.Equal(t, 0, de.Offset, name)
		assert.Len(t, hooks.events, 1, name)
	}
}

func TestMaxDepthBoundsNodeNesting(t *testing.T) {
	in := pidBytes(smallUTF8Atom("a@b"), 1, 0, 1)

	shallow, err := NewRegistry(Options{MaxDepth: 1})
	require.NoError(t, err)
	_, _, err = shallow.Decode(in)
	assert.ErrorIs(t, err, ErrTooDeep)

	exact, err := NewRegistry(Options{MaxDepth: 2})
	require.NoError(t, err)
	term, n, err := exact.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, len(in), n)
	assert.IsType(t, PidTerm{}, term)
}
