// Package box provides the type-erased holder shared by property and algorithm.
//
// A Box is a non-generic value owning one payload of a registered type.
// The payload lives in a generic holder behind an unexported interface, so
// the holder, not the caller, reports which tag it carries. Typed access goes
// through Unbox, which compares tags before a checked type assertion.
package box

import (
	"fmt"

	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// holder is implemented once per stored type by valueHolder[T].
type holder interface {
	tag() tags.Tag
	typeName() string
	registry() *tags.Registry
	clone() holder
}

type valueHolder[T any] struct {
	kind *tags.Kind[T]
	held T
}

func (h *valueHolder[T]) tag() tags.Tag            { return h.kind.Tag() }
func (h *valueHolder[T]) typeName() string         { return h.kind.Name() }
func (h *valueHolder[T]) registry() *tags.Registry { return h.kind.Registry() }

func (h *valueHolder[T]) clone() holder {
	return &valueHolder[T]{kind: h.kind, held: h.kind.Copy(h.held)}
}

// Box owns exactly one payload. The zero Box is empty.
//
// Copying a Box value shares its holder; use Clone for an independent copy.
type Box struct {
	h holder
}

// New creates a Box holding a copy of v, tagged by k.
func New[T any](k *tags.Kind[T], v T) (Box, error) {
	if err := k.Valid(); err != nil {
		return Box{}, err
	}
	return Box{h: &valueHolder[T]{kind: k, held: k.Copy(v)}}, nil
}

// Empty reports whether the box holds nothing.
func (b Box) Empty() bool { return b.h == nil }

// Tag returns the tag of the held payload. It returns 0 for an empty box,
// which is also a valid tag, so check Empty first.
func (b Box) Tag() tags.Tag {
	if b.h == nil {
		return 0
	}
	return b.h.tag()
}

// TypeName returns the registered name of the held payload type.
func (b Box) TypeName() string {
	if b.h == nil {
		return ""
	}
	return b.h.typeName()
}

// Registry returns the registry that tagged the payload.
func (b Box) Registry() *tags.Registry {
	if b.h == nil {
		return nil
	}
	return b.h.registry()
}

// Clone returns a Box owning an independent copy of the payload.
func (b Box) Clone() Box {
	if b.h == nil {
		return Box{}
	}
	return Box{h: b.h.clone()}
}

// String returns "name(tag)" or "<empty>".
func (b Box) String() string {
	if b.h == nil {
		return "<empty>"
	}
	return fmt.Sprintf("%s(%d)", b.h.typeName(), b.h.tag())
}

// Holds reports whether b holds a payload of the type k describes.
func Holds[T any](b Box, k *tags.Kind[T]) bool {
	return Check(b, k, "holds") == nil
}

// Unbox returns a copy of the payload if b holds k's type.
// Otherwise it returns a *tags.TypeMismatchError.
func Unbox[T any](b Box, k *tags.Kind[T]) (T, error) {
	return UnboxFor(b, k, "get")
}

// UnboxFor is Unbox with op recorded in any returned error.
func UnboxFor[T any](b Box, k *tags.Kind[T], op string) (T, error) {
	var zero T
	if err := Check(b, k, op); err != nil {
		return zero, err
	}
	h, ok := b.h.(*valueHolder[T])
	if !ok {
		// Equal tags from one registry imply equal types; reaching here
		// means the holder was built outside New.
		return zero, mismatch(b, k, op)
	}
	return k.Copy(h.held), nil
}

// Check validates that b holds k's type without touching the payload.
func Check[T any](b Box, k *tags.Kind[T], op string) error {
	if err := k.Valid(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if b.h == nil {
		return fmt.Errorf("%s: %w", op, tags.ErrEmptyBox)
	}
	if b.h.registry() != k.Registry() {
		return fmt.Errorf("%s: %w: %s from registry %q, payload tagged by %q",
			op, tags.ErrForeignKind, k.Name(), k.Registry().Name(), b.h.registry().Name())
	}
	if b.h.tag() != k.Tag() {
		return mismatch(b, k, op)
	}
	return nil
}

func mismatch[T any](b Box, k *tags.Kind[T], op string) error {
	return &tags.TypeMismatchError{
		Op:       op,
		Want:     k.Tag(),
		WantName: k.Name(),
		Got:      b.h.tag(),
		GotName:  b.h.typeName(),
	}
}
