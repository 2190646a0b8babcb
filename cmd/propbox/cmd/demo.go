package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/propbox/pkg/propbox/algorithm"
	"github.com/randalmurphal/propbox/pkg/propbox/kinds"
	"github.com/randalmurphal/propbox/pkg/propbox/property"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the property and algorithm walkthrough",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if err := propertyDemo(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return algorithmDemo(cmd.Context(), out)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func propertyDemo(out io.Writer) error {
	fmt.Fprintln(out, "=== Property ===")

	p, err := property.New("myProperty", kinds.Int, 10)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created     %s\n", p)

	n, err := property.Get(p, kinds.Int)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "get int     %d\n", n)

	// Reading as the wrong type is reported, never reinterpreted.
	if _, err := property.Get(p, kinds.String); err != nil {
		fmt.Fprintf(out, "get string  error: %v\n", err)
	}

	if err := property.Set(p, kinds.Float, 2.5); err != nil {
		return err
	}
	f, err := property.Get(p, kinds.Float)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "set float   %s = %g\n", p, f)

	if err := property.Set(p, kinds.String, "WTF?"); err != nil {
		return err
	}
	s, err := property.Get(p, kinds.String)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "set string  %s = %q\n", p, s)

	c := p.Clone()
	if err := property.Set(c, kinds.Bool, true); err != nil {
		return err
	}
	fmt.Fprintf(out, "clone       %s, original still %s\n", c, p)
	return nil
}

func algorithmDemo(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "=== Algorithm ===")

	a, err := algorithm.New(kinds.IntToInt, func(x int) int { return x * x }, algorithm.WithID("square"))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created     %s\n", a)

	sq, err := algorithm.InvokeContext(ctx, a, kinds.IntToInt, 7)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "invoke      square(7) = %d\n", sq)

	// Same argument type, different result type: a different pair.
	if _, err := algorithm.InvokeContext(ctx, a, kinds.IntToFloat, 7); err != nil {
		fmt.Fprintf(out, "as int->float error: %v\n", err)
	}

	if err := algorithm.Set(a, kinds.FloatToString, func(x float64) string {
		return strconv.FormatFloat(x, 'e', 3, 64)
	}); err != nil {
		return err
	}
	s, err := algorithm.InvokeContext(ctx, a, kinds.FloatToString, 12345.678)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "set         %s: format(12345.678) = %s\n", a, s)

	atoi, err := algorithm.New(kinds.StringToInt, func(s string) int {
		n, err := strconv.Atoi(s)
		if err != nil {
			panic(err)
		}
		return n
	}, algorithm.WithID("atoi"))
	if err != nil {
		return err
	}
	if _, err := algorithm.InvokeContext(ctx, atoi, kinds.StringToInt, "seven"); err != nil {
		fmt.Fprintf(out, "panic       %v\n", err)
	}
	return nil
}
