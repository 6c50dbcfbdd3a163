package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ginjaninja78/basketminer/internal/types"
)

const (
	createPatterns = `CREATE TABLE "patterns" (
	"rank" INTEGER PRIMARY KEY,
	"mined_index" INTEGER NOT NULL,
	"support" REAL NOT NULL,
	"count" INTEGER NOT NULL,
	"size" INTEGER NOT NULL,
	"itemsets" TEXT NOT NULL
)`
	createRuns = `CREATE TABLE IF NOT EXISTS "runs" (
	"run_id" TEXT PRIMARY KEY,
	"created_at" TEXT NOT NULL,
	"input" TEXT NOT NULL,
	"min_support" REAL NOT NULL,
	"itemset_size" INTEGER NOT NULL,
	"transactions" INTEGER NOT NULL,
	"patterns" INTEGER NOT NULL
)`
)

// RunInfo describes the run that produced a pattern set.
type RunInfo struct {
	RunID        string
	Input        string
	MinSupport   float64
	ItemsetSize  int
	Transactions int
}

// SQLiteWriter stores patterns in a SQLite database. The patterns table is
// replaced on every write; the runs table keeps one row per write.
type SQLiteWriter struct {
	Path string
	Run  RunInfo

	// Now stamps the runs row. Defaults to time.Now.
	Now func() time.Time
}

// NewSQLiteWriter creates a SQLiteWriter for the database at path.
func NewSQLiteWriter(path string, run RunInfo) *SQLiteWriter {
	return &SQLiteWriter{Path: path, Run: run, Now: time.Now}
}

// WritePatterns replaces the stored patterns and records the run, in one
// transaction.
func (w *SQLiteWriter) WritePatterns(ctx context.Context, patterns []types.Pattern) error {
	if dir := filepath.Dir(w.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", w.Path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite %s: %w", w.Path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{`DROP TABLE IF EXISTS "patterns"`, createPatterns, createRuns} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO "patterns" ("rank", "mined_index", "support", "count", "size", "itemsets") VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range patterns {
		if _, err := stmt.ExecContext(ctx, i+1, p.Index, p.Support, p.Count, p.Len(), p.String()); err != nil {
			return fmt.Errorf("failed to insert pattern %d: %w", i+1, err)
		}
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO "runs" ("run_id", "created_at", "input", "min_support", "itemset_size", "transactions", "patterns") VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.Run.RunID, now().UTC().Format(time.RFC3339), w.Run.Input, w.Run.MinSupport, w.Run.ItemsetSize, w.Run.Transactions, len(patterns))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patterns: %w", err)
	}
	return nil
}
