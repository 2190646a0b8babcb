package main

import (
	"os"

	"github.com/randalmurphal/propbox/cmd/propbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
