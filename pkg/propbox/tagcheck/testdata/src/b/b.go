package b // want package:"1 tag bindings"

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

var Speed = tags.MustRegister[float64](tags.Default, 7)

// Pair registers func(A) R. The registry is a parameter here, so the call
// inside is not a registration; callers with constant tags are.
func Pair[A, R any](r *tags.Registry, tag tags.Tag) *tags.Kind[func(A) R] {
	return tags.MustRegister[func(A) R](r, tag)
}
