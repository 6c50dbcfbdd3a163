// =============================================================================
// basketminer - Recommend Command
// =============================================================================
//
// This file defines the 'recommend' command, which runs the whole analysis.
//
// COMMAND USAGE:
//   basketminer recommend [flags]
//
// FLAGS:
//   --input         : Transaction spreadsheet (.xlsx, .xlsm or .csv)
//   --sheet         : Worksheet to read (default: first sheet)
//   --output        : Workbook receiving the ranked patterns
//   --min-support   : Minimum fraction of invoices containing a group
//   --itemset-size  : Number of items per reported group
//   --top           : Number of groups printed to the terminal
//   --min-quantity  : Bulk-purchase threshold per line
//   --sqlite        : Also store the patterns in this SQLite database
//   --reject-log    : Write the rows that failed to parse to this file
//   --summary-log   : Write run statistics to this file
//
// Flags override the configuration file and environment only when given.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/exporter"
	"github.com/ginjaninja78/basketminer/internal/pipeline"
)

// RecommendOptions holds the flags of the recommend command.
type RecommendOptions struct {
	Input       string
	Sheet       string
	Output      string
	MinSupport  float64
	ItemsetSize int
	TopN        int
	MinQuantity int64
	SQLite      string
	RejectLog   string
	SummaryLog  string
}

// NewRecommendCommand creates the 'recommend' command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Find the item groups most often bought together in bulk",
		Long: `The recommend command reads the transaction spreadsheet, keeps the lines
with a positive price and a bulk quantity, groups them by invoice and mines the
frequent item groups of the configured size.

All groups of that size are written to the output workbook, sorted by support.
The top groups are printed as a table. Finding fewer groups than requested, or
none at all, is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, rootOpts, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Input, "input", defaults.Input.Path, "Transaction spreadsheet (.xlsx, .xlsm or .csv)")
	f.StringVar(&opts.Sheet, "sheet", defaults.Input.Sheet, "Worksheet to read (default: first sheet)")
	f.StringVarP(&opts.Output, "output", "o", defaults.Output.Path, "Workbook receiving the ranked patterns")
	f.Float64Var(&opts.MinSupport, "min-support", defaults.Mining.MinSupport, "Minimum fraction of invoices containing a group")
	f.IntVar(&opts.ItemsetSize, "itemset-size", defaults.Mining.ItemsetSize, "Number of items per reported group")
	f.IntVarP(&opts.TopN, "top", "n", defaults.Mining.TopN, "Number of groups printed to the terminal")
	f.Int64Var(&opts.MinQuantity, "min-quantity", defaults.Filter.MinQuantity, "Bulk-purchase threshold per line")
	f.StringVar(&opts.SQLite, "sqlite", "", "Also store the patterns in this SQLite database")
	f.StringVar(&opts.RejectLog, "reject-log", "", "Write the rows that failed to parse to this file")
	f.StringVar(&opts.SummaryLog, "summary-log", "", "Write run statistics to this file")

	return cmd
}

// applyFlags copies every flag the user set onto cfg.
func (o *RecommendOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("input") {
		cfg.Input.Path = o.Input
	}
	if changed("sheet") {
		cfg.Input.Sheet = o.Sheet
	}
	if changed("output") {
		cfg.Output.Path = o.Output
	}
	if changed("min-support") {
		cfg.Mining.MinSupport = o.MinSupport
	}
	if changed("itemset-size") {
		cfg.Mining.ItemsetSize = o.ItemsetSize
	}
	if changed("top") {
		cfg.Mining.TopN = o.TopN
	}
	if changed("min-quantity") {
		cfg.Filter.MinQuantity = o.MinQuantity
	}
	if changed("sqlite") {
		cfg.Output.SQLitePath = o.SQLite
	}
	if changed("reject-log") {
		cfg.Output.RejectLog = o.RejectLog
	}
	if changed("summary-log") {
		cfg.Output.SummaryLog = o.SummaryLog
	}
}

// runRecommend resolves the configuration, runs the pipeline and prints the
// top patterns.
func runRecommend(cmd *cobra.Command, rootOpts *RootOptions, opts *RecommendOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	opts.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger, closer, err := newLogger(cfg, rootOpts)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return WrapExitError(ExitFailure, "interrupted", err)
		}
		return WrapExitError(ExitFailure, "recommendation failed", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Top %d groups of %d items (min support %v, %d invoices):\n",
		cfg.Mining.TopN, cfg.Mining.ItemsetSize, cfg.Mining.MinSupport, result.Stats.Transactions)
	if err := exporter.RenderTable(out, result.Top); err != nil {
		return WrapExitError(ExitFailure, "failed to print patterns", err)
	}
	fmt.Fprintf(out, "\n%d groups written to %s\n", len(result.Patterns), result.OutputFile)
	return nil
}
