package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/cmd/pantheon/cmd"
)

// Execute runs the pantheon CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pantheon",
		Short:   "Historical figure catalog CLI",
		Version: a.version,
		Long: `Pantheon maintains a canonical catalog of historical figures aggregated
from multiple ranking sources.

It ingests raw ranked lists, merges figures that denote the same person,
promotes well-attested newcomers from the candidate pool, and derives a
cross-source consensus rank with a variance score capturing how much the
sources agree.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.pantheon.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", "", "output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.DSN, "dsn", a.config.DSN, "store DSN: SQLite path, :memory:, or postgres:// URL")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("pantheon {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(c *cobra.Command, _ []string) error {
	verbose := mustGetBool(c, "verbose")
	quiet := mustGetBool(c, "quiet")
	noColor := mustGetBool(c, "no-color")
	format := mustGetString(c, "format")
	logLevel := mustGetString(c, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config.
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(cmd.NewIngestCommand(a))
	rootCmd.AddCommand(cmd.NewFetchCommand(a))
	rootCmd.AddCommand(cmd.NewListCommand(a))
	rootCmd.AddCommand(cmd.NewResolveCommand(a))
	rootCmd.AddCommand(cmd.NewPromoteCommand(a))
	rootCmd.AddCommand(cmd.NewRecomputeCommand(a))

	// Management commands
	rootCmd.AddCommand(cmd.NewSeedCommand(a))
	rootCmd.AddCommand(cmd.NewMaintainCommand(a))
}

// ExitOnError prints an error and exits with status 1. Meant for top-level
// error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. Only for flags defined in this package.
func mustGetBool(c *cobra.Command, name string) bool {
	val, err := c.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't
// exist. Only for flags defined in this package.
func mustGetString(c *cobra.Command, name string) string {
	val, err := c.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
