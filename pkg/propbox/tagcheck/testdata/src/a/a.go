package a // want package:"3 tag bindings"

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

type Celsius float64

var local = tags.NewRegistry("a")

var (
	Int   = tags.MustRegister[int](local, 0)
	Float = tags.MustRegister[float64](local, 1)
	Again = tags.MustRegister[int](local, 0)

	Clash = tags.MustRegister[Celsius](local, 1) // want `tag 1 in registry a.local is already bound to float64`
	Moved = tags.MustRegister[int](local, 2)     // want `int is already bound to tag 0 in registry a.local`
)

var Flag, errFlag = tags.Register[bool](local, 3)

const shifted tags.Tag = 1 << 2

var Shift = tags.MustRegister[string](local, shifted-3) // want `tag 1 in registry a.local is already bound to float64`

// Non-constant tags and non-package registries are not tracked.
var dynamic tags.Tag = 1

var Dyn = tags.MustRegister[uint](local, dynamic)

func helper(r *tags.Registry) *tags.Kind[string] {
	return tags.MustRegister[string](r, 0)
}

func init() {
	r := tags.NewRegistry("scratch")
	_ = tags.MustRegister[int8](r, 1)
	_ = tags.MustRegister[int16](r, 1)
}
