package right // want package:"1 tag bindings"

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

var Count = tags.MustRegister[int](tags.Default, 40)
