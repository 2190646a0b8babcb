// Package kinds is the stock registry list for tags.Default.
//
// Every value type and algorithm pair the command-line tools understand is
// registered here, in one var block, so tagcheck sees the whole list and a
// collision stops the program during initialisation.
//
// Tags 0-15 are value kinds, 16-31 algorithm pairs. Clients registering their
// own types on tags.Default should start at 64.
package kinds

import (
	"time"

	"github.com/randalmurphal/propbox/pkg/propbox/algorithm"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// Value kinds.
var (
	Int      = tags.MustRegister[int](tags.Default, 0)
	Float    = tags.MustRegister[float64](tags.Default, 1)
	String   = tags.MustRegister[string](tags.Default, 2)
	Bool     = tags.MustRegister[bool](tags.Default, 3)
	Strings  = tags.MustRegister[[]string](tags.Default, 4, tags.WithCopy(copyStrings))
	Duration = tags.MustRegister[time.Duration](tags.Default, 5)
)

// Algorithm pair kinds.
var (
	IntToInt       = algorithm.MustRegister[int, int](tags.Default, 16)
	IntToFloat     = algorithm.MustRegister[int, float64](tags.Default, 17)
	FloatToFloat   = algorithm.MustRegister[float64, float64](tags.Default, 18)
	StringToInt    = algorithm.MustRegister[string, int](tags.Default, 19)
	FloatToString  = algorithm.MustRegister[float64, string](tags.Default, 20)
	StringToString = algorithm.MustRegister[string, string](tags.Default, 21)
)

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
