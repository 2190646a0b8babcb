package measure // want package:"1 tag bindings"

import (
	xunits "x/units"
	yunits "y/units"

	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

var (
	_ = xunits.Meters

	// Same package name, separate tag space.
	Steps = tags.MustRegister[int](yunits.Registry, 1)

	Label = tags.MustRegister[string](xunits.Registry, 1) // want `tag 1 in registry units.Registry is already bound to float64 \(.*x/units`
)
