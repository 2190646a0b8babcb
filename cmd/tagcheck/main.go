// Command tagcheck reports conflicting propbox tag registrations.
//
// Usage:
//
//	tagcheck ./...
//	go vet -vettool=$(which tagcheck) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/randalmurphal/propbox/pkg/propbox/tagcheck"
)

func main() {
	singlechecker.Main(tagcheck.Analyzer)
}
