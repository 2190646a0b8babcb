package units

import "github.com/randalmurphal/propbox/pkg/propbox/tags"

var Registry = tags.NewRegistry("y-units")
