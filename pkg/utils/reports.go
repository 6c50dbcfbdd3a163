// =============================================================================
// basketminer - Report Files
// =============================================================================
//
// This module writes the plain-text side files of a run:
//   - Reject log: one entry per input row the loader could not parse
//   - Summary log: run information and stage counts
//
// Both files are replaced on every run. Counts are printed with thousands
// separators.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/basketminer/internal/types"
)

const rule = "================================================================================\n"

// =============================================================================
// REJECT LOG
// =============================================================================

// WriteRejectLog writes the rejected rows of an input file to path.
//
// PARAMETERS:
//   - path: The log file to create or replace.
//   - source: The input file the rows came from.
//   - entries: The rejected rows, in sheet order.
//   - generated: The timestamp printed in the header.
//
// RETURNS:
//   - An error if the file cannot be written.
func WriteRejectLog(path, source string, entries []types.RowError, generated time.Time) error {
	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create reject log: %w", err)
	}
	defer file.Close()

	p := message.NewPrinter(language.English)
	w := bufio.NewWriter(file)

	p.Fprintf(w, "basketminer - Rejected Rows\n"+
		"Generated: %s\n"+
		"Source:    %s\n"+
		"Rejected:  %d\n"+
		rule+"\n",
		generated.Format("2006-01-02 15:04:05"),
		source,
		len(entries))

	for i, e := range entries {
		p.Fprintf(w, "Reject #%d\n"+
			"  Row Number: %d\n"+
			"  Column:     %s\n"+
			"  Value:      %s\n"+
			"  Reason:     %s\n\n",
			i+1, e.RowNumber, e.Column, e.Value, e.Reason)
	}

	w.WriteString(rule + "End of Reject Log\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush reject log: %w", err)
	}
	return nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains the statistics of one run.
type RunSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time

	InputFile  string
	OutputFile string
	SQLiteFile string

	MinSupport  float64
	ItemsetSize int
	TopN        int

	RowsRead         int
	RowsRejected     int
	DroppedPrice     int
	DroppedQuantity  int
	DroppedDuplicate int
	DroppedMissing   int
	RecordsKept      int
	Transactions     int
	DistinctItems    int
	ItemsetsMined    int
	Patterns         int
	TopPatterns      []types.Pattern
}

// WriteSummaryLog writes a run summary to path.
//
// PARAMETERS:
//   - path: The summary file to create or replace.
//   - summary: The run statistics.
//
// RETURNS:
//   - An error if the file cannot be written.
func WriteSummaryLog(path string, summary RunSummary) error {
	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	p := message.NewPrinter(language.English)
	w := bufio.NewWriter(file)

	sqlite := summary.SQLiteFile
	if sqlite == "" {
		sqlite = "-"
	}

	p.Fprintf(w, "basketminer - Run Summary\n"+
		rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Input:          %s\n"+
		"  Output:         %s\n"+
		"  SQLite:         %s\n\n"+
		"Parameters:\n"+
		"  Min Support:    %s\n"+
		"  Itemset Size:   %d\n"+
		"  Top N:          %d\n\n"+
		"Statistics:\n"+
		"  Rows Read:          %d\n"+
		"  Rows Rejected:      %d\n"+
		"  Dropped (price):    %d\n"+
		"  Dropped (quantity): %d\n"+
		"  Dropped (dupes):    %d\n"+
		"  Dropped (missing):  %d\n"+
		"  Records Kept:       %d\n"+
		"  Transactions:       %d\n"+
		"  Distinct Items:     %d\n"+
		"  Itemsets Mined:     %d\n"+
		"  Patterns:           %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.InputFile,
		summary.OutputFile,
		sqlite,
		strconv.FormatFloat(summary.MinSupport, 'f', -1, 64),
		summary.ItemsetSize,
		summary.TopN,
		summary.RowsRead,
		summary.RowsRejected,
		summary.DroppedPrice,
		summary.DroppedQuantity,
		summary.DroppedDuplicate,
		summary.DroppedMissing,
		summary.RecordsKept,
		summary.Transactions,
		summary.DistinctItems,
		summary.ItemsetsMined,
		summary.Patterns)

	if len(summary.TopPatterns) > 0 {
		w.WriteString("Top Patterns:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
		for i, pt := range summary.TopPatterns {
			fmt.Fprintf(w, "  %2d. %.6f  %s\n", i+1, pt.Support, pt.String())
		}
		w.WriteString("\n")
	}

	w.WriteString(rule + "End of Summary\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// createFile creates path, and its parent directory when missing.
func createFile(path string) (*os.File, error) {
	if err := EnsureParentDir(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
