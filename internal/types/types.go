// =============================================================================
// basketminer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - loader
//   - filter
//   - encoder
//   - fpgrowth / recommender
//   - exporter
//
// =============================================================================

package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT ROW TYPES
// =============================================================================

// Record is one parsed line of the transaction spreadsheet.
type Record struct {
	// RowNumber is the 1-indexed row number in the source sheet.
	RowNumber int

	// Invoice is the parsed invoice identifier.
	Invoice int64

	// Description is the item description, as written in the sheet.
	Description string

	// Quantity is the number of units on the line.
	Quantity decimal.Decimal

	// Price is the unit price.
	Price decimal.Decimal

	// Cells holds every column of the source row, keyed by header.
	// Duplicate and missing-value checks look at the whole row.
	Cells map[string]string
}

// RowError describes a row that could not be parsed into a Record.
type RowError struct {
	// RowNumber is the 1-indexed row number in the source sheet.
	RowNumber int

	// Column is the header of the offending cell.
	Column string

	// Value is the raw cell content.
	Value string

	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column '%s': %s (value: '%s')", e.RowNumber, e.Column, e.Reason, e.Value)
}

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction groups all item descriptions bought under one invoice.
type Transaction struct {
	// Invoice is the invoice identifier shared by every line.
	Invoice int64

	// Items holds the descriptions in row encounter order.
	// The same description can appear more than once.
	Items []string
}

// Table is the one-hot encoded transaction table.
// Rows[i][j] is true when transaction i contains item Columns[j].
type Table struct {
	Columns  []string
	Rows     [][]bool
	Invoices []int64
}

// Len returns the number of transactions in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// =============================================================================
// PATTERN TYPES
// =============================================================================

// Itemset is a set of items together with its support.
type Itemset struct {
	// Items holds the item names, ordered as the table columns.
	Items []string

	// Count is the number of transactions containing every item.
	Count int

	// Support is Count divided by the number of transactions, in [0,1].
	Support float64
}

// Len returns the number of items in the set.
func (s Itemset) Len() int {
	return len(s.Items)
}

// String renders the set as {A, B, C}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.Items, ", ") + "}"
}

// Pattern is a frequent itemset selected for the report.
type Pattern struct {
	// Index is the position of the itemset in the mining output, before
	// filtering and sorting.
	Index int

	Itemset
}
