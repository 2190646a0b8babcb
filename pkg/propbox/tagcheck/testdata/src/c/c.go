package c // want package:"2 tag bindings"

import (
	"b"

	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

var _ = b.Speed

var (
	Count  = tags.MustRegister[int](tags.Default, 7)      // want `tag 7 in registry tags.Default is already bound to float64 \(.*b.go`
	Speed2 = tags.MustRegister[float64](tags.Default, 8) // want `float64 is already bound to tag 7 in registry tags.Default`
	Name   = tags.MustRegister[string](tags.Default, 9)
	IntInt = b.Pair[int, int](tags.Default, 10)
	Dup    = b.Pair[int, string](tags.Default, 10) // want `tag 10 in registry tags.Default is already bound to func\(int\) int`
)
