package property

import (
	"context"
	"fmt"

	"github.com/randalmurphal/propbox/pkg/propbox/box"
	"github.com/randalmurphal/propbox/pkg/propbox/observability"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// Property is a keyed value whose type may change over its lifetime.
//
// The key is fixed at construction. The value lives in a box.Box, which is
// the only place the current type is recorded; Property carries no tag of
// its own.
//
// A Property is not safe for concurrent use. Guard it externally, or keep it
// in a propset.Set.
type Property[K comparable] struct {
	key K
	b   box.Box
}

// New creates a property holding v as type T.
func New[K comparable, T any](key K, k *tags.Kind[T], v T) (*Property[K], error) {
	b, err := box.New(k, v)
	if err != nil {
		return nil, fmt.Errorf("property %v: %w", key, err)
	}
	return &Property[K]{key: key, b: b}, nil
}

// NewZero creates a property holding the zero value of T.
func NewZero[K comparable, T any](key K, k *tags.Kind[T]) (*Property[K], error) {
	var zero T
	return New(key, k, zero)
}

// MustNew is like New but panics if k is unregistered.
func MustNew[K comparable, T any](key K, k *tags.Kind[T], v T) *Property[K] {
	p, err := New(key, k, v)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the property key.
func (p *Property[K]) Key() K { return p.key }

// Tag returns the tag of the currently held type. It is meaningless for the
// zero Property, which holds nothing; see Empty.
func (p *Property[K]) Tag() tags.Tag { return p.b.Tag() }

// Empty reports whether p holds no value. Only the zero Property is empty.
func (p *Property[K]) Empty() bool { return p.b.Empty() }

// TypeName returns the registered name of the currently held type.
func (p *Property[K]) TypeName() string { return p.b.TypeName() }

// Registry returns the registry that tagged the current value.
func (p *Property[K]) Registry() *tags.Registry { return p.b.Registry() }

// Clone returns a property with the same key and an independent copy of
// the value. Later Set calls on either side do not affect the other.
func (p *Property[K]) Clone() *Property[K] {
	return &Property[K]{key: p.key, b: p.b.Clone()}
}

// String formats the property as "key:type(tag)".
func (p *Property[K]) String() string {
	return fmt.Sprintf("%v:%s", p.key, p.b)
}

// Get returns a copy of the value if the property holds type T.
// If it holds another type, Get returns a *tags.TypeMismatchError.
func Get[K comparable, T any](p *Property[K], k *tags.Kind[T]) (T, error) {
	v, err := box.UnboxFor(p.b, k, "get")
	if err != nil {
		err = fmt.Errorf("property %v: %w", p.key, err)
	}
	observe(p, k, "get", err)
	return v, err
}

// MustGet is like Get but panics on mismatch.
func MustGet[K comparable, T any](p *Property[K], k *tags.Kind[T]) T {
	v, err := Get(p, k)
	if err != nil {
		panic(err)
	}
	return v
}

// Is reports whether the property currently holds type T.
func Is[K comparable, T any](p *Property[K], k *tags.Kind[T]) bool {
	return box.Holds(p.b, k)
}

// Set replaces the value, and with it the type, of the property.
// The previous value is dropped. On error the property is unchanged.
func Set[K comparable, T any](p *Property[K], k *tags.Kind[T], v T) error {
	b, err := box.New(k, v)
	if err != nil {
		err = fmt.Errorf("property %v: set: %w", p.key, err)
		observe(p, k, "set", err)
		return err
	}

	prev := p.b
	p.b = b
	if prev.Empty() || prev.Tag() != b.Tag() || prev.Registry() != b.Registry() {
		observability.LogTypeChange(b.Registry().Logger(), p.key, prev.TypeName(), b.TypeName())
	}
	observe(p, k, "set", nil)
	return nil
}

// observe records the access on whichever registry is reachable.
func observe[K comparable, T any](p *Property[K], k *tags.Kind[T], op string, err error) {
	reg := p.b.Registry()
	name := "<unregistered>"
	if k.Valid() == nil {
		reg = k.Registry()
		name = k.Name()
	}
	if reg == nil {
		return
	}
	reg.ObserveAccess(context.Background(), op, name, err)
}
