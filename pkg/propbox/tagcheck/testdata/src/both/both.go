package both

import (
	"left"
	"right" // want `tag 40 in registry tags.Default is already bound to float64 \(.*left.go.*\); conflicting registration in right \(.*right.go`
)

var (
	_ = left.Ratio
	_ = right.Count
)
