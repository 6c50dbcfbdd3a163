package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/basketminer/internal/loader"
)

// NewValidateCommand creates the 'validate' command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and the input file without mining",
		Long: `Validate resolves the configuration the same way recommend does, checks
every setting, then reads the input spreadsheet and reports how many rows parse.

Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts)
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	fmt.Fprintln(out, "✓ Configuration valid")

	ds, err := loader.Load(cfg.Input.Path, loader.OptionsFromConfig(cfg.Input))
	if err != nil {
		return WrapExitError(ExitFailure, "input check failed", err)
	}

	source := ds.Source
	if ds.Sheet != "" {
		source = fmt.Sprintf("%s [%s]", ds.Source, ds.Sheet)
	}
	fmt.Fprintf(out, "✓ Input readable: %s\n", source)
	fmt.Fprintf(out, "  Rows:     %d\n", ds.RowsRead)
	fmt.Fprintf(out, "  Parsed:   %d\n", len(ds.Records))
	fmt.Fprintf(out, "  Rejected: %d\n", len(ds.Rejected))
	return nil
}
