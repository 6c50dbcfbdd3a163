// =============================================================================
// basketminer - FP-Growth
// =============================================================================
//
// This module finds every frequent itemset of a one-hot transaction table with
// the FP-Growth algorithm:
//   1. Count single items and drop the infrequent ones.
//   2. Insert each transaction, items ordered by descending frequency, into a
//      prefix tree (FP-tree) so shared prefixes are stored once.
//   3. For each frequent item, collect the prefix paths leading to it (its
//      conditional pattern base), build a conditional FP-tree from them and
//      recurse with the item appended to the current suffix.
//
// The table is scanned twice; all further work happens on the trees.
//
// SUPPORT:
//   support = count / number of transactions. An itemset is frequent when
//   support >= MinSupport.
//
// OUTPUT ORDER:
//   Results are ordered by itemset length, then by the column indexes of their
//   items. Items inside a set follow column order. The order is therefore the
//   same on every run over the same table.
//
// =============================================================================

package fpgrowth

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ginjaninja78/basketminer/internal/types"
)

// ErrInvalidSupport is returned when MinSupport is outside (0, 1].
var ErrInvalidSupport = errors.New("min support must be in (0, 1]")

// Options controls the mining run.
type Options struct {
	// MinSupport is the minimum fraction of transactions.
	MinSupport float64

	// MaxLen bounds the size of reported itemsets. 0 means no bound.
	MaxLen int
}

// Mine returns every itemset of the table whose support reaches
// opts.MinSupport. An empty table yields an empty result.
func Mine(table *types.Table, opts Options) ([]types.Itemset, error) {
	if !(opts.MinSupport > 0 && opts.MinSupport <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSupport, opts.MinSupport)
	}
	if opts.MaxLen < 0 {
		return nil, fmt.Errorf("max length must not be negative: got %d", opts.MaxLen)
	}

	n := table.Len()
	if n == 0 {
		return []types.Itemset{}, nil
	}

	patterns := make([]pattern, 0, n)
	for _, row := range table.Rows {
		var items []int
		for j, present := range row {
			if present {
				items = append(items, j)
			}
		}
		if len(items) > 0 {
			patterns = append(patterns, pattern{items: items, count: 1})
		}
	}

	m := &miner{
		minCount: MinCount(opts.MinSupport, n),
		maxLen:   opts.MaxLen,
	}
	m.mine(newTree(patterns, m.minCount), nil)

	sort.Slice(m.found, func(a, b int) bool {
		return lessIndexes(m.found[a].items, m.found[b].items)
	})

	result := make([]types.Itemset, len(m.found))
	for i, f := range m.found {
		names := make([]string, len(f.items))
		for j, col := range f.items {
			names[j] = table.Columns[col]
		}
		result[i] = types.Itemset{
			Items:   names,
			Count:   f.count,
			Support: float64(f.count) / float64(n),
		}
	}
	return result, nil
}

// MinCount returns the smallest transaction count c with c/n >= minSupport.
func MinCount(minSupport float64, n int) int {
	total := float64(n)
	c := int(minSupport * total)
	for c > 0 && float64(c-1)/total >= minSupport {
		c--
	}
	for float64(c)/total < minSupport {
		c++
	}
	if c < 1 {
		c = 1
	}
	return c
}

// miner carries the state of one recursive mining run.
type miner struct {
	minCount int
	maxLen   int
	found    []pattern
}

// mine emits suffix+item for every item of t, least frequent first, and
// recurses into the item's conditional tree.
func (m *miner) mine(t *tree, suffix []int) {
	for i := len(t.order) - 1; i >= 0; i-- {
		item := t.order[i]

		set := make([]int, len(suffix)+1)
		copy(set, suffix)
		set[len(suffix)] = item
		m.emit(set, t.counts[item])

		if m.maxLen > 0 && len(set) >= m.maxLen {
			continue
		}

		base := t.prefixPaths(item)
		if len(base) == 0 {
			continue
		}
		cond := newTree(base, m.minCount)
		if len(cond.order) > 0 {
			m.mine(cond, set)
		}
	}
}

func (m *miner) emit(set []int, count int) {
	items := make([]int, len(set))
	copy(items, set)
	sort.Ints(items)
	m.found = append(m.found, pattern{items: items, count: count})
}

// lessIndexes orders sets by length, then lexicographically.
func lessIndexes(a, b []int) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
