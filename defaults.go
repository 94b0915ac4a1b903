package etf

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Opt is an explicitly optional value. The zero Opt is unset.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }
func (o Opt[T]) IsSet() bool    { return o.ok }

// Or returns the held value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}
