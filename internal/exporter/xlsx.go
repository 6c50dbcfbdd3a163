// =============================================================================
// basketminer - Excel Exporter
// =============================================================================
//
// This module writes the ranked patterns to an Excel workbook.
//
// LAYOUT:
//   Row 1:  "" | support | itemsets
//   Row n:  mining index | support (0..1) | {A, B, C}
//
// The target file is replaced on every run.
//
// =============================================================================

package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/basketminer/internal/types"
)

// Header is the first row of the exported sheet.
var Header = []string{"", "support", "itemsets"}

// XLSXWriter writes patterns to a single-sheet workbook.
type XLSXWriter struct {
	// Path is the target workbook file.
	Path string

	// Sheet is the name of the only sheet.
	Sheet string
}

// NewXLSXWriter creates an XLSXWriter. An empty sheet name means "Sheet1".
func NewXLSXWriter(path, sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXWriter{Path: path, Sheet: sheet}
}

// WritePatterns replaces the workbook with the given patterns, in order.
//
// PARAMETERS:
//   - ctx: Checked between rows.
//   - patterns: The patterns to write. An empty slice writes the header only.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func (w *XLSXWriter) WritePatterns(ctx context.Context, patterns []types.Pattern) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", w.Sheet, err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(w.Sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range patterns {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Index, p.Support, p.String()}
		if err := f.SetSheetRow(w.Sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write pattern %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(w.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.Path, err)
	}
	return nil
}

// ReadPatterns reads a workbook written by XLSXWriter back into rows of
// strings, header included.
func ReadPatterns(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
