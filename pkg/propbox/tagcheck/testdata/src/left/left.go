package left // want package:"1 tag bindings"

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

var Ratio = tags.MustRegister[float64](tags.Default, 40)
