package etf

import (
	"fmt"
	"sort"
	"sync"

	"github.com/unkn0wn-root/etf/internal/wire"
)

// Options tune a Registry. The zero value is usable.
type Options struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
	MaxIDs int    // max reference ids accepted on decode; 0 => 65535

	// MaxDepth caps term nesting on decode; 0 => DefaultMaxDepth.
	// A pid or reference with its node atom is two levels.
	MaxDepth int
}

const DefaultMaxDepth = 16

// Registry maps a tag byte to its Codec. The mapping is fixed at
// construction, so a Registry is safe for concurrent use.
type Registry struct {
	codecs   map[byte]Codec
	log      Logger
	hooks    Hooks
	maxIDs   int
	maxDepth int
}

// Builtin returns the codecs every registry starts with: the four atom
// codecs, NEW_PID_EXT and NEWER_REFERENCE_EXT.
func Builtin() []Codec {
	return append(AtomCodecs(), PidCodec{}, NewerReferenceCodec{})
}

// NewRegistry builds a registry from the builtin codecs plus extra.
// A tag registered twice fails with ErrCodecExists.
func NewRegistry(opts Options, extra ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[byte]Codec)}
	r.log = coalesce[Logger](opts.Logger, NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	r.maxIDs = coalesce(opts.MaxIDs, wire.MaxIDCount)
	if r.maxIDs < 0 || r.maxIDs > wire.MaxIDCount {
		return nil, fmt.Errorf("etf: MaxIDs %d outside [0, %d]", opts.MaxIDs, wire.MaxIDCount)
	}
	r.maxDepth = coalesce(opts.MaxDepth, DefaultMaxDepth)
	if r.maxDepth < 0 {
		return nil, fmt.Errorf("etf: MaxDepth %d is negative", opts.MaxDepth)
	}

	for _, c := range Builtin() {
		if err := r.register(c); err != nil {
			return nil, err
		}
	}
	for _, c := range extra {
		if err := r.register(c); err != nil {
			return nil, err
		}
		r.log.Debug("registered codec", Fields{"tag": c.Tag(), "codec": fmt.Sprintf("%T", c)})
	}
	return r, nil
}

func (r *Registry) register(c Codec) error {
	if c == nil {
		return ErrNilCodec
	}
	if _, ok := r.codecs[c.Tag()]; ok {
		return fmt.Errorf("%w: %d", ErrCodecExists, c.Tag())
	}
	r.codecs[c.Tag()] = c
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry holding the builtin codecs.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(Options{})
		if err != nil {
			panic(err) // builtin tags are distinct
		}
		defaultReg = r
	})
	return defaultReg
}

func (r *Registry) Lookup(tag byte) (Codec, bool) {
	c, ok := r.codecs[tag]
	return c, ok
}

// Tags lists registered tags in ascending order.
func (r *Registry) Tags() []byte {
	out := make([]byte, 0, len(r.codecs))
	for t := range r.codecs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewDecoder returns a decoder reading terms from b.
func (r *Registry) NewDecoder(b []byte) *Decoder {
	return &Decoder{reg: r, data: b}
}

// Decode reads one term from the start of b and returns it with the number
// of bytes consumed. Bytes after the term are left alone.
func (r *Registry) Decode(b []byte) (Term, int, error) {
	d := r.NewDecoder(b)
	t, err := d.ReadTerm()
	if err != nil {
		return nil, 0, err
	}
	return t, d.Offset(), nil
}

// Encode returns t's encoding.
func (r *Registry) Encode(t Term) ([]byte, error) {
	return r.AppendTerm(nil, t)
}

// AppendTerm appends t's encoding to dst.
func (r *Registry) AppendTerm(dst []byte, t Term) ([]byte, error) {
	if t == nil {
		return dst, fmt.Errorf("%w: nil term", ErrTypeMismatch)
	}
	out, err := t.AppendTerm(dst)
	if err != nil {
		r.hooks.EncodeFailed(t.Tag(), err)
		return dst, err
	}
	return out, nil
}

// Marshal encodes t in the external term format: version byte 131 followed
// by the term.
func (r *Registry) Marshal(t Term) ([]byte, error) {
	return r.AppendTerm([]byte{wire.VersionMagic}, t)
}

// Unmarshal decodes one external-format term. b must start with the version
// byte and hold exactly one term.
func (r *Registry) Unmarshal(b []byte) (Term, error) {
	if len(b) == 0 || b[0] != wire.VersionMagic {
		return nil, ErrVersion
	}
	d := r.NewDecoder(b)
	d.pos = 1
	t, err := d.ReadTerm()
	if err != nil {
		return nil, err
	}
	if n := d.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d after term", ErrTrailingBytes, n)
	}
	return t, nil
}
