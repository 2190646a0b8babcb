package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/propbox/pkg/propbox/kinds"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the stock tag registrations",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "registry %q, %d types (value kinds from tag %d, pairs from tag %d)\n",
			tags.Default.Name(), tags.Default.Len(), kinds.Int.Tag(), kinds.IntToInt.Tag())
		tags.Default.Range(func(tag tags.Tag, name string) bool {
			fmt.Fprintf(out, "%5d  %s\n", tag, name)
			return true
		})
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
