package units // want package:"1 tag bindings"

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

var Registry = tags.NewRegistry("x-units")

var Meters = tags.MustRegister[float64](Registry, 1)
