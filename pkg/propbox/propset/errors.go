package propset

import "errors"

var (
	// ErrNotFound indicates no property is stored under the key.
	ErrNotFound = errors.New("property not found")

	// ErrExists indicates a property is already stored under the key.
	ErrExists = errors.New("property already exists")

	// ErrNilProperty indicates Add was called with a nil property.
	ErrNilProperty = errors.New("nil property")
)
