// Package encoder groups filtered records into per-invoice transactions and
// one-hot encodes them into a boolean transaction-by-item table.
package encoder

import (
	"sort"

	"github.com/ginjaninja78/basketminer/internal/types"
)

// Group collects the item descriptions of each invoice.
//
// Items keep their row encounter order and may repeat. Transactions are
// ordered by ascending invoice identifier.
func Group(records []types.Record) []types.Transaction {
	index := make(map[int64]int)
	var txs []types.Transaction

	for _, r := range records {
		i, ok := index[r.Invoice]
		if !ok {
			i = len(txs)
			index[r.Invoice] = i
			txs = append(txs, types.Transaction{Invoice: r.Invoice})
		}
		txs[i].Items = append(txs[i].Items, r.Description)
	}

	sort.SliceStable(txs, func(a, b int) bool {
		return txs[a].Invoice < txs[b].Invoice
	})
	return txs
}

// Encode builds the one-hot table. Columns are the distinct item names across
// all transactions in sorted order; a cell is true when the item occurs in the
// transaction at least once.
func Encode(txs []types.Transaction) *types.Table {
	seen := make(map[string]struct{})
	for _, tx := range txs {
		for _, item := range tx.Items {
			seen[item] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for item := range seen {
		columns = append(columns, item)
	}
	sort.Strings(columns)

	colIndex := make(map[string]int, len(columns))
	for i, c := range columns {
		colIndex[c] = i
	}

	table := &types.Table{
		Columns:  columns,
		Rows:     make([][]bool, len(txs)),
		Invoices: make([]int64, len(txs)),
	}
	for i, tx := range txs {
		row := make([]bool, len(columns))
		for _, item := range tx.Items {
			row[colIndex[item]] = true
		}
		table.Rows[i] = row
		table.Invoices[i] = tx.Invoice
	}
	return table
}
