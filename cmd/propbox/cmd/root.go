package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/propbox/pkg/propbox/config"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

var (
	cfgFile string
	verbose bool

	// Set by PersistentPreRunE for the subcommands.
	cfg      config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "propbox",
	Short: "Type-tagged properties and algorithms",
	Long: `propbox demonstrates keyed properties and unary algorithms whose
stored type can change at runtime, with every typed access checked against
the type currently held.

Commands:
  demo     - run the property and algorithm walkthrough
  load     - load seed properties from a config file and print them
  kinds    - list the stock tag registrations`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.yaml, .json or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger = cfg.NewLogger(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts, stop, err := setupTelemetry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	shutdown = stop

	tags.Default.Configure(append(opts, tags.WithLogger(logger))...)
	return nil
}
