package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/propbox/pkg/propbox/kinds"
	"github.com/randalmurphal/propbox/pkg/propbox/propset"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load seed properties from --config and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return errors.New("load requires --config")
		}
		s := propset.New[string]()
		if err := cfg.Apply(s); err != nil {
			return err
		}
		printSet(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func printSet(out io.Writer, s *propset.Set[string]) {
	keys := s.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s = %s\n", k, describe(s, k))
	}
}

// describe formats the value under key by probing the stock value kinds.
func describe(s *propset.Set[string], key string) string {
	switch {
	case propset.Is(s, key, kinds.Int):
		v, _ := propset.Get(s, key, kinds.Int)
		return fmt.Sprintf("%d (int)", v)
	case propset.Is(s, key, kinds.Float):
		v, _ := propset.Get(s, key, kinds.Float)
		return fmt.Sprintf("%g (float64)", v)
	case propset.Is(s, key, kinds.String):
		v, _ := propset.Get(s, key, kinds.String)
		return fmt.Sprintf("%q (string)", v)
	case propset.Is(s, key, kinds.Bool):
		v, _ := propset.Get(s, key, kinds.Bool)
		return fmt.Sprintf("%t (bool)", v)
	case propset.Is(s, key, kinds.Strings):
		v, _ := propset.Get(s, key, kinds.Strings)
		return fmt.Sprintf("%q ([]string)", v)
	case propset.Is(s, key, kinds.Duration):
		v, _ := propset.Get(s, key, kinds.Duration)
		return fmt.Sprintf("%s (time.Duration)", v)
	}
	if snap, ok := s.Snapshot(key); ok {
		return "<" + snap.String() + ">"
	}
	return "<missing>"
}
