// =============================================================================
// basketminer - Pipeline
// =============================================================================
//
// This module runs one market-basket analysis from input spreadsheet to
// ranked patterns.
//
// PIPELINE:
//   1. Load the spreadsheet and parse every row (bad rows are rejected)
//   2. Filter to bulk purchases and drop duplicate or incomplete rows
//   3. Group rows into transactions by invoice
//   4. One-hot encode the transactions
//   5. Mine, rank and persist the itemsets of the configured size
//   6. Write the optional reject and summary logs
//
// The context is checked between steps. A run holds no state after it
// returns, so repeated runs over the same input give the same output.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/encoder"
	"github.com/ginjaninja78/basketminer/internal/exporter"
	"github.com/ginjaninja78/basketminer/internal/filter"
	"github.com/ginjaninja78/basketminer/internal/loader"
	"github.com/ginjaninja78/basketminer/internal/recommender"
	"github.com/ginjaninja78/basketminer/internal/types"
	"github.com/ginjaninja78/basketminer/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and in the SQLite runs table.
	RunID string

	// InputFile is the spreadsheet that was read.
	InputFile string

	// OutputFile is the workbook the patterns were written to.
	OutputFile string

	// Patterns holds every ranked pattern of the configured size.
	Patterns []types.Pattern

	// Top holds the first TopN entries of Patterns. It can be shorter than
	// TopN, or empty.
	Top []types.Pattern

	// Rejected holds the rows the loader could not parse.
	Rejected []types.RowError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// RowsRead is the number of non-empty data rows in the input.
	RowsRead int

	// RowsRejected is the number of rows that failed to parse.
	RowsRejected int

	// Filter holds the per-step filter counts.
	Filter filter.Stats

	// Transactions is the number of invoices after filtering.
	Transactions int

	// DistinctItems is the number of columns of the encoded table.
	DistinctItems int

	// ItemsetsMined is the number of frequent itemsets of any size.
	ItemsetsMined int

	// Patterns is the number of ranked patterns of the configured size.
	Patterns int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs the analysis described by a configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	// now and newID are replaced in tests.
	now   func() time.Time
	newID func() string
}

// New creates a Pipeline. cfg is expected to be validated already.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger.With("component", "pipeline"),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline once.
//
// PARAMETERS:
//   - ctx: Cancels the run between steps.
//
// RETURNS:
//   - The Result of the run. An empty pattern list is a normal result.
//   - An error if the input cannot be read or an output cannot be written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	result := &Result{
		RunID:      p.newID(),
		InputFile:  p.cfg.Input.Path,
		OutputFile: p.cfg.Output.Path,
	}
	log := p.logger.With("run_id", result.RunID)

	// =========================================================================
	// STEP 1: LOAD INPUT
	// =========================================================================

	log.Info("loading input", "path", p.cfg.Input.Path)

	ds, err := loader.Load(p.cfg.Input.Path, loader.OptionsFromConfig(p.cfg.Input))
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}

	result.Rejected = ds.Rejected
	result.Stats.RowsRead = ds.RowsRead
	result.Stats.RowsRejected = len(ds.Rejected)
	log.Info("loaded input",
		"sheet", ds.Sheet,
		"rows", ds.RowsRead,
		"rejected", len(ds.Rejected))
	for _, re := range ds.Rejected {
		log.Debug("rejected row", "row", re.RowNumber, "column", re.Column, "reason", re.Reason)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: FILTER
	// =========================================================================

	records, stats := filter.Apply(ds.Records, filter.Options{MinQuantity: p.cfg.Filter.MinQuantity})
	result.Stats.Filter = stats
	log.Info("filtered records",
		"kept", stats.Kept,
		"dropped_price", stats.DroppedPrice,
		"dropped_quantity", stats.DroppedQuantity,
		"dropped_duplicate", stats.DroppedDuplicate,
		"dropped_missing", stats.DroppedMissing)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 3-4: GROUP AND ENCODE
	// =========================================================================

	table := encoder.Encode(encoder.Group(records))
	result.Stats.Transactions = table.Len()
	result.Stats.DistinctItems = len(table.Columns)
	log.Info("encoded transactions",
		"transactions", table.Len(),
		"items", len(table.Columns))

	if table.Len() == 0 {
		log.Warn("no transactions left after filtering")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 5: MINE, RANK AND PERSIST
	// =========================================================================

	sinks := []recommender.Sink{exporter.NewXLSXWriter(p.cfg.Output.Path, p.cfg.Output.Sheet)}
	if p.cfg.Output.SQLitePath != "" {
		sinks = append(sinks, &exporter.SQLiteWriter{
			Path: p.cfg.Output.SQLitePath,
			Run: exporter.RunInfo{
				RunID:        result.RunID,
				Input:        p.cfg.Input.Path,
				MinSupport:   p.cfg.Mining.MinSupport,
				ItemsetSize:  p.cfg.Mining.ItemsetSize,
				Transactions: table.Len(),
			},
			Now: p.now,
		})
	}

	rec, err := recommender.New(recommender.OptionsFromConfig(p.cfg.Mining), log, sinks...).Recommend(ctx, table)
	if err != nil {
		return nil, err
	}

	result.Patterns = rec.Patterns
	result.Top = rec.Top
	result.Stats.ItemsetsMined = rec.Mined
	result.Stats.Patterns = len(rec.Patterns)
	if len(rec.Top) < p.cfg.Mining.TopN {
		log.Info("fewer patterns than requested",
			"requested", p.cfg.Mining.TopN,
			"found", len(rec.Top))
	}
	log.Info("wrote patterns", "path", p.cfg.Output.Path, "patterns", len(rec.Patterns))

	// =========================================================================
	// STEP 6: SIDE FILES
	// =========================================================================

	if path := p.cfg.Output.RejectLog; path != "" {
		if err := utils.WriteRejectLog(path, p.cfg.Input.Path, ds.Rejected, p.now()); err != nil {
			return nil, err
		}
		log.Debug("wrote reject log", "path", path)
	}

	result.Stats.ProcessingTime = p.now().Sub(start)

	if path := p.cfg.Output.SummaryLog; path != "" {
		if err := utils.WriteSummaryLog(path, p.summary(result, start)); err != nil {
			return nil, err
		}
		log.Debug("wrote summary log", "path", path)
	}

	log.Info("run complete", "duration", result.Stats.ProcessingTime)
	return result, nil
}

// summary flattens a result into the summary log layout.
func (p *Pipeline) summary(r *Result, start time.Time) utils.RunSummary {
	return utils.RunSummary{
		RunID:            r.RunID,
		StartTime:        start,
		EndTime:          start.Add(r.Stats.ProcessingTime),
		InputFile:        r.InputFile,
		OutputFile:       r.OutputFile,
		SQLiteFile:       p.cfg.Output.SQLitePath,
		MinSupport:       p.cfg.Mining.MinSupport,
		ItemsetSize:      p.cfg.Mining.ItemsetSize,
		TopN:             p.cfg.Mining.TopN,
		RowsRead:         r.Stats.RowsRead,
		RowsRejected:     r.Stats.RowsRejected,
		DroppedPrice:     r.Stats.Filter.DroppedPrice,
		DroppedQuantity:  r.Stats.Filter.DroppedQuantity,
		DroppedDuplicate: r.Stats.Filter.DroppedDuplicate,
		DroppedMissing:   r.Stats.Filter.DroppedMissing,
		RecordsKept:      r.Stats.Filter.Kept,
		Transactions:     r.Stats.Transactions,
		DistinctItems:    r.Stats.DistinctItems,
		ItemsetsMined:    r.Stats.ItemsetsMined,
		Patterns:         r.Stats.Patterns,
		TopPatterns:      r.Top,
	}
}
