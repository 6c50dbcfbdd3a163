// =============================================================================
// basketminer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   basketminer
//   ├── recommend   (mine and rank co-purchased item groups)
//   ├── validate    (check configuration and input without mining)
//   └── version     (print build information)
//
// CONFIGURATION:
//   Settings are resolved in this order, later sources winning:
//   1. Built-in defaults
//   2. The YAML file given by --config (skipped when missing)
//   3. BASKETMINER_* environment variables
//   4. Command flags
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/logging"
)

// RootOptions holds the global flags.
type RootOptions struct {
	// ConfigFile is the YAML configuration file.
	ConfigFile string

	// Verbose forces debug logging.
	Verbose bool
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "basketminer",
		Short: "basketminer - find items that are bought together in bulk",
		Long: `basketminer reads a retail transaction spreadsheet, keeps the bulk
purchases, and mines the groups of items most often bought on the same invoice
with the FP-Growth algorithm.

The ranked groups are written to an Excel workbook and the best ones are
printed to the terminal.

Example Usage:
  basketminer recommend                          # Use config.yaml or the defaults
  basketminer recommend --input sales.xlsx --top 20
  basketminer recommend --min-support 0.03 --sqlite patterns.db
  basketminer validate                           # Check config and input only`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// --config: YAML configuration file. A missing file means defaults.
	cmd.PersistentFlags().StringVar(
		&opts.ConfigFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose: debug logging.
	cmd.PersistentFlags().BoolVarP(
		&opts.Verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the CLI and exits with the code carried by the error.
// This is called by main.main().
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the configuration file and environment. Flags are applied
// by the caller before validation.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// newLogger builds the run logger. The closer must be called when done.
func newLogger(cfg *config.Config, opts *RootOptions) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(cfg.Logging, opts.Verbose)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid logging configuration", err)
	}
	return logger, closer, nil
}
