// =============================================================================
// basketminer - Row Filter
// =============================================================================
//
// This module narrows the parsed records down to bulk purchases before they are
// grouped into transactions.
//
// FILTER STEPS (applied in order):
//   1. Price:      keep rows with price > 0
//   2. Quantity:   keep rows with quantity > 0 AND quantity >= MinQuantity
//   3. Duplicates: drop rows whose every cell equals an earlier row
//   4. Missing:    drop rows with any blank cell
//
// The quantity rule is kept exactly as the analysis defines it. With the
// default threshold of 1000 the positive check is redundant, but a threshold
// of 0 still excludes zero quantities.
//
// =============================================================================

package filter

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/basketminer/internal/types"
)

// Options holds the filter thresholds.
type Options struct {
	// MinQuantity is the bulk-purchase threshold.
	MinQuantity int64
}

// Stats counts the rows removed by each step.
type Stats struct {
	Input            int
	DroppedPrice     int
	DroppedQuantity  int
	DroppedDuplicate int
	DroppedMissing   int
	Kept             int
}

// Apply runs every filter step and returns the surviving records in their
// original order.
func Apply(records []types.Record, opts Options) ([]types.Record, Stats) {
	stats := Stats{Input: len(records)}
	minQuantity := decimal.NewFromInt(opts.MinQuantity)

	kept := make([]types.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		if !r.Price.IsPositive() {
			stats.DroppedPrice++
			continue
		}

		if !(r.Quantity.IsPositive() && r.Quantity.GreaterThanOrEqual(minQuantity)) {
			stats.DroppedQuantity++
			continue
		}

		key := RowKey(r)
		if _, dup := seen[key]; dup {
			stats.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}

		if HasMissing(r) {
			stats.DroppedMissing++
			continue
		}

		kept = append(kept, r)
	}

	stats.Kept = len(kept)
	return kept, stats
}

// RowKey identifies a row by the content of all of its cells.
func RowKey(r types.Record) string {
	headers := make([]string, 0, len(r.Cells))
	for h := range r.Cells {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h)
		b.WriteByte('\x1f')
		b.WriteString(r.Cells[h])
		b.WriteByte('\x1e')
	}
	return b.String()
}

// HasMissing reports whether any cell of the row is blank.
func HasMissing(r types.Record) bool {
	if r.Description == "" {
		return true
	}
	for _, v := range r.Cells {
		if v == "" {
			return true
		}
	}
	return false
}
