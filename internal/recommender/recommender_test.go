package recommender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/basketminer/internal/encoder"
	"github.com/ginjaninja78/basketminer/internal/logging"
	"github.com/ginjaninja78/basketminer/internal/types"
)

type memorySink struct {
	writes [][]types.Pattern
	err    error
}

func (s *memorySink) WritePatterns(_ context.Context, patterns []types.Pattern) error {
	if s.err != nil {
		return s.err
	}
	cp := make([]types.Pattern, len(patterns))
	copy(cp, patterns)
	s.writes = append(s.writes, cp)
	return nil
}

func tableOf(baskets ...[]string) *types.Table {
	txs := make([]types.Transaction, len(baskets))
	for i, b := range baskets {
		txs[i] = types.Transaction{Invoice: int64(i + 1), Items: b}
	}
	return encoder.Encode(txs)
}

func defaultOptions() Options {
	return Options{MinSupport: 0.022, ItemsetSize: 3, TopN: 10}
}

func TestRecommendRanksTriples(t *testing.T) {
	table := tableOf(
		[]string{"A", "B", "C"},
		[]string{"A", "B", "C"},
		[]string{"A", "B", "D"},
	)
	sink := &memorySink{}

	rec, err := New(defaultOptions(), logging.Discard(), sink).Recommend(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, rec.Patterns, 2)
	assert.Equal(t, []string{"A", "B", "C"}, rec.Patterns[0].Items)
	assert.InDelta(t, 2.0/3.0, rec.Patterns[0].Support, 1e-12)
	assert.Equal(t, []string{"A", "B", "D"}, rec.Patterns[1].Items)
	assert.InDelta(t, 1.0/3.0, rec.Patterns[1].Support, 1e-12)
	assert.Equal(t, rec.Patterns, rec.Top)

	require.Len(t, sink.writes, 1)
	assert.Equal(t, rec.Patterns, sink.writes[0])
}

func TestRecommendTopNAndInvariants(t *testing.T) {
	// 14 distinct triples over a shared prefix so supports differ.
	var baskets [][]string
	for i := 0; i < 14; i++ {
		for rep := 0; rep <= i; rep++ {
			baskets = append(baskets, []string{"base", "core", fmt.Sprintf("item%02d", i)})
		}
	}
	table := tableOf(baskets...)

	rec, err := New(defaultOptions(), logging.Discard()).Recommend(context.Background(), table)
	require.NoError(t, err)

	assert.Greater(t, len(rec.Patterns), 10)
	require.Len(t, rec.Top, 10)
	for i, p := range rec.Top {
		assert.Equal(t, 3, p.Len())
		assert.GreaterOrEqual(t, p.Support, 0.022)
		if i > 0 {
			assert.GreaterOrEqual(t, rec.Top[i-1].Support, p.Support)
		}
	}
	assert.Equal(t, []string{"base", "core", "item13"}, rec.Top[0].Items)
}

func TestRecommendEmptyResultIsPersisted(t *testing.T) {
	table := tableOf([]string{"A", "B"}, []string{"C"})
	sink := &memorySink{}

	rec, err := New(defaultOptions(), logging.Discard(), sink).Recommend(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, rec.Patterns)
	assert.Empty(t, rec.Top)
	require.Len(t, sink.writes, 1)
	assert.Empty(t, sink.writes[0])
}

func TestRecommendSinkError(t *testing.T) {
	table := tableOf([]string{"A", "B", "C"})
	sink := &memorySink{err: errors.New("disk full")}

	_, err := New(defaultOptions(), logging.Discard(), sink).Recommend(context.Background(), table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRecommendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(defaultOptions(), logging.Discard(), &memorySink{}).Recommend(ctx, tableOf([]string{"A"}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortBySupportIsStable(t *testing.T) {
	patterns := []types.Pattern{
		{Index: 0, Itemset: types.Itemset{Items: []string{"a"}, Support: 0.1}},
		{Index: 1, Itemset: types.Itemset{Items: []string{"b"}, Support: 0.3}},
		{Index: 2, Itemset: types.Itemset{Items: []string{"c"}, Support: 0.1}},
		{Index: 3, Itemset: types.Itemset{Items: []string{"d"}, Support: 0.3}},
	}

	sorted := SortBySupport(patterns)
	var order []int
	for _, p := range sorted {
		order = append(order, p.Index)
	}
	assert.Equal(t, []int{1, 3, 0, 2}, order)
}

func TestFilterSize(t *testing.T) {
	itemsets := []types.Itemset{
		{Items: []string{"a"}},
		{Items: []string{"a", "b", "c"}},
		{Items: []string{"a", "b"}},
		{Items: []string{"b", "c", "d"}},
	}
	got := FilterSize(itemsets, 3)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
}

func TestTop(t *testing.T) {
	patterns := make([]types.Pattern, 4)
	assert.Len(t, Top(patterns, 10), 4)
	assert.Len(t, Top(patterns, 2), 2)
	assert.Empty(t, Top(patterns, 0))
	assert.Empty(t, Top(nil, 10))
}
