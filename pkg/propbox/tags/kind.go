package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/propbox/pkg/propbox/observability"
)

// Kind is the registration token for type T in one registry.
//
// A *Kind[T] can only be obtained from Register or MustRegister, so every
// typed operation that takes one is inexpressible for an unregistered type.
type Kind[T any] struct {
	reg  *Registry
	tag  Tag
	name string
	copy func(T) T
}

// KindOption configures a Kind at registration time.
type KindOption[T any] func(*Kind[T])

// WithName overrides the diagnostic name of the type.
func WithName[T any](name string) KindOption[T] {
	return func(k *Kind[T]) {
		k.name = name
	}
}

// WithCopy sets the function used to clone payloads of this type.
// Use it for types holding slices, maps, or pointers so that clones do not
// share state. Without it, clones use Go assignment.
func WithCopy[T any](fn func(T) T) KindOption[T] {
	return func(k *Kind[T]) {
		k.copy = fn
	}
}

// Tag returns the tag bound to T.
func (k *Kind[T]) Tag() Tag { return k.tag }

// Name returns the diagnostic name of T.
func (k *Kind[T]) Name() string { return k.name }

// Registry returns the registry that issued this kind.
func (k *Kind[T]) Registry() *Registry { return k.reg }

// String returns "name(tag)".
func (k *Kind[T]) String() string {
	if k == nil {
		return "<unregistered>"
	}
	return fmt.Sprintf("%s(%d)", k.name, k.tag)
}

// Valid returns ErrUnregistered for a nil or zero Kind.
func (k *Kind[T]) Valid() error {
	if k == nil || k.reg == nil {
		return ErrUnregistered
	}
	return nil
}

// Copy returns an independent copy of v.
func (k *Kind[T]) Copy(v T) T {
	if k.copy == nil {
		return v
	}
	return k.copy(v)
}

// Register binds T to tag in r and returns its Kind.
//
// Registering the same (T, tag) again returns the original Kind; options of
// the first registration win. Binding T to a second tag, or tag to a second
// type, fails with a *ConflictError.
func Register[T any](r *Registry, tag Tag, opts ...KindOption[T]) (*Kind[T], error) {
	if r == nil {
		return nil, ErrNilRegistry
	}

	key := typeKey[T]()
	k := &Kind[T]{reg: r, tag: tag, name: typeName[T]()}
	for _, opt := range opts {
		opt(k)
	}

	r.mu.Lock()
	if e, ok := r.byType[key]; ok {
		r.mu.Unlock()
		if e.tag == tag {
			return e.kind.(*Kind[T]), nil
		}
		err := &ConflictError{
			Registry:    r.name,
			Type:        k.name,
			Tag:         tag,
			Existing:    e.name,
			ExistingTag: e.tag,
			Err:         ErrTypeConflict,
		}
		observability.LogConflict(r.Logger(), k.name, int(tag), err)
		return nil, err
	}
	if e, ok := r.byTag[tag]; ok {
		r.mu.Unlock()
		err := &ConflictError{
			Registry:    r.name,
			Type:        k.name,
			Tag:         tag,
			Existing:    e.name,
			ExistingTag: e.tag,
			Err:         ErrTagConflict,
		}
		observability.LogConflict(r.Logger(), k.name, int(tag), err)
		return nil, err
	}

	e := &entry{tag: tag, name: k.name, kind: k}
	r.byTag[tag] = e
	r.byType[key] = e
	if _, taken := r.byName[k.name]; !taken {
		r.byName[k.name] = e
	}
	r.mu.Unlock()

	observability.LogRegister(r.Logger(), k.name, int(tag))
	r.Metrics().RecordRegistration(context.Background(), r.name, k.name)
	return k, nil
}

// MustRegister is like Register but panics on conflict.
//
// Use it in package-level var blocks so that a conflicting registration
// stops the program during initialisation, before any container exists:
//
//	var Celsius = tags.MustRegister[Temperature](units.Registry, 7)
func MustRegister[T any](r *Registry, tag Tag, opts ...KindOption[T]) *Kind[T] {
	k, err := Register[T](r, tag, opts...)
	if err != nil {
		panic(fmt.Sprintf("tags: %v", err))
	}
	return k
}

// typeKey returns a comparable value unique to T. Interface values holding
// typed nil pointers compare equal only when the pointer types are identical.
func typeKey[T any]() any {
	return (*T)(nil)
}

// typeName formats T for diagnostics.
func typeName[T any]() string {
	return strings.TrimPrefix(fmt.Sprintf("%T", (*T)(nil)), "*")
}
