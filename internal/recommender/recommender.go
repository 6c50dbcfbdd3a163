// =============================================================================
// basketminer - Recommender
// =============================================================================
//
// This module turns an encoded transaction table into the ranked list of
// co-purchased item groups.
//
// STEPS:
//   1. Mine all itemsets with support >= MinSupport (FP-Growth)
//   2. Keep itemsets of exactly ItemsetSize items
//   3. Sort by support, descending; ties keep mining order (stable sort)
//   4. Hand the full sorted set to every configured sink
//   5. Return the first TopN patterns (fewer when fewer exist)
//
// =============================================================================

package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/fpgrowth"
	"github.com/ginjaninja78/basketminer/internal/types"
)

// Options holds the mining and ranking parameters.
type Options struct {
	MinSupport  float64
	ItemsetSize int
	TopN        int
}

// OptionsFromConfig maps the mining section of the configuration to Options.
func OptionsFromConfig(cfg config.MiningConfig) Options {
	return Options{
		MinSupport:  cfg.MinSupport,
		ItemsetSize: cfg.ItemsetSize,
		TopN:        cfg.TopN,
	}
}

// Sink persists the full sorted pattern set.
type Sink interface {
	WritePatterns(ctx context.Context, patterns []types.Pattern) error
}

// Recommendation is the outcome of one run.
type Recommendation struct {
	// Mined is the number of frequent itemsets before the size filter.
	Mined int

	// Patterns holds every size-filtered pattern, sorted by support.
	Patterns []types.Pattern

	// Top holds the first TopN entries of Patterns.
	Top []types.Pattern
}

// Recommender mines and ranks itemsets.
type Recommender struct {
	opts   Options
	sinks  []Sink
	logger *slog.Logger
}

// New creates a Recommender writing to the given sinks.
func New(opts Options, logger *slog.Logger, sinks ...Sink) *Recommender {
	return &Recommender{
		opts:   opts,
		sinks:  sinks,
		logger: logger.With("component", "recommender"),
	}
}

// Recommend mines the table, persists the sorted patterns and returns the top
// entries. An empty pattern set is a normal result and is still persisted.
func (r *Recommender) Recommend(ctx context.Context, table *types.Table) (*Recommendation, error) {
	// Itemsets larger than ItemsetSize are discarded anyway, so the miner
	// does not need to grow them.
	mined, err := fpgrowth.Mine(table, fpgrowth.Options{
		MinSupport: r.opts.MinSupport,
		MaxLen:     r.opts.ItemsetSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mine itemsets: %w", err)
	}
	r.logger.Debug("mined frequent itemsets",
		slog.Int("itemsets", len(mined)),
		slog.Int("transactions", table.Len()),
		slog.Float64("min_support", r.opts.MinSupport))

	patterns := SortBySupport(FilterSize(mined, r.opts.ItemsetSize))
	r.logger.Info("ranked patterns",
		slog.Int("size", r.opts.ItemsetSize),
		slog.Int("patterns", len(patterns)))

	for _, sink := range r.sinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := sink.WritePatterns(ctx, patterns); err != nil {
			return nil, fmt.Errorf("failed to persist patterns: %w", err)
		}
	}

	return &Recommendation{
		Mined:    len(mined),
		Patterns: patterns,
		Top:      Top(patterns, r.opts.TopN),
	}, nil
}

// FilterSize keeps the itemsets with exactly size items. The Index of each
// returned pattern is its position in the mining output.
func FilterSize(itemsets []types.Itemset, size int) []types.Pattern {
	patterns := make([]types.Pattern, 0)
	for i, s := range itemsets {
		if s.Len() == size {
			patterns = append(patterns, types.Pattern{Index: i, Itemset: s})
		}
	}
	return patterns
}

// SortBySupport sorts patterns by descending support in place. Equal supports
// keep their relative order.
func SortBySupport(patterns []types.Pattern) []types.Pattern {
	sort.SliceStable(patterns, func(a, b int) bool {
		return patterns[a].Support > patterns[b].Support
	})
	return patterns
}

// Top returns the first n patterns, or all of them when fewer exist.
func Top(patterns []types.Pattern, n int) []types.Pattern {
	if n < 0 {
		n = 0
	}
	if len(patterns) < n {
		n = len(patterns)
	}
	return patterns[:n]
}
