package tags

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration.
var (
	// ErrTagConflict indicates the tag is already bound to a different type.
	ErrTagConflict = errors.New("tag already bound to another type")

	// ErrTypeConflict indicates the type is already bound to a different tag.
	ErrTypeConflict = errors.New("type already bound to another tag")

	// ErrNilRegistry indicates Register was called without a registry.
	ErrNilRegistry = errors.New("registry is nil")
)

// Sentinel errors for typed access.
var (
	// ErrUnregistered indicates a nil or zero Kind was used for access.
	// A Kind only comes from Register, so this means the caller bypassed it.
	ErrUnregistered = errors.New("type not registered")

	// ErrTypeMismatch indicates the requested type differs from the stored one.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrForeignKind indicates the Kind was issued by a different registry
	// than the one that tagged the stored payload.
	ErrForeignKind = errors.New("kind belongs to another registry")

	// ErrEmptyBox indicates access to a zero Box that never held a payload.
	ErrEmptyBox = errors.New("box is empty")
)

// ConflictError reports a rejected registration.
type ConflictError struct {
	// Registry is the name of the registry that rejected the binding.
	Registry string
	// Type is the type being registered.
	Type string
	// Tag is the tag being registered.
	Tag Tag
	// Existing is the type already bound (for tag conflicts) or the type
	// being registered (for type conflicts).
	Existing string
	// ExistingTag is the tag already bound to Existing.
	ExistingTag Tag
	// Err is ErrTagConflict or ErrTypeConflict.
	Err error
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if errors.Is(e.Err, ErrTypeConflict) {
		return fmt.Sprintf("registry %q: cannot bind %s to tag %d: %s already bound to tag %d",
			e.Registry, e.Type, e.Tag, e.Existing, e.ExistingTag)
	}
	return fmt.Sprintf("registry %q: cannot bind %s to tag %d: tag %d already bound to %s",
		e.Registry, e.Type, e.Tag, e.ExistingTag, e.Existing)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports a typed access whose type does not match
// the tag of the stored payload.
type TypeMismatchError struct {
	// Op is the operation that was attempted ("get", "invoke").
	Op string
	// Want is the tag of the requested type.
	Want Tag
	// WantName is the name of the requested type.
	WantName string
	// Got is the tag of the stored payload.
	Got Tag
	// GotName is the name of the stored payload type.
	GotName string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: type mismatch: want %s (tag %d), holding %s (tag %d)",
		e.Op, e.WantName, e.Want, e.GotName, e.Got)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// IsTypeMismatch checks if an error is a type mismatch.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsConflict checks if an error is a registration conflict of either kind.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTagConflict) || errors.Is(err, ErrTypeConflict)
}
