package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/basketminer/internal/types"
)

var generated = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

func TestWriteRejectLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rejects.txt")
	entries := []types.RowError{
		{RowNumber: 3, Column: "Invoice", Value: "C489449", Reason: "invoice is not a whole number"},
		{RowNumber: 1234, Column: "Price", Value: "", Reason: "value is missing"},
	}

	require.NoError(t, WriteRejectLog(path, "online_retail_2.xlsx", entries, generated))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Generated: 2024-01-15 14:30:22")
	assert.Contains(t, out, "Source:    online_retail_2.xlsx")
	assert.Contains(t, out, "Rejected:  2")
	assert.Contains(t, out, "Reject #1\n  Row Number: 3\n  Column:     Invoice\n  Value:      C489449\n  Reason:     invoice is not a whole number\n")
	assert.Contains(t, out, "Row Number: 1,234")
	assert.Contains(t, out, "End of Reject Log")
}

func TestWriteRejectLogEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.txt")

	require.NoError(t, WriteRejectLog(path, "in.csv", nil, generated))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Rejected:  0")
	assert.NotContains(t, string(data), "Reject #")
}

func TestWriteSummaryLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	summary := RunSummary{
		RunID:         "3f1c",
		StartTime:     generated,
		EndTime:       generated.Add(1500 * time.Millisecond),
		InputFile:     "online_retail_2.xlsx",
		OutputFile:    "recommendation.xlsx",
		MinSupport:    0.022,
		ItemsetSize:   3,
		TopN:          10,
		RowsRead:      525461,
		RecordsKept:   2048,
		Transactions:  1100,
		ItemsetsMined: 80,
		Patterns:      2,
		TopPatterns: []types.Pattern{
			{Itemset: types.Itemset{Items: []string{"A", "B", "C"}, Support: 0.5}},
		},
	}

	require.NoError(t, WriteSummaryLog(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Run ID:         3f1c")
	assert.Contains(t, out, "Duration:       1.5s")
	assert.Contains(t, out, "SQLite:         -")
	assert.Contains(t, out, "Min Support:    0.022")
	assert.Contains(t, out, "Rows Read:          525,461")
	assert.Contains(t, out, "Records Kept:       2,048")
	assert.Contains(t, out, "   1. 0.500000  {A, B, C}")
	assert.Contains(t, out, "End of Summary")
}

func TestWriteSummaryLogUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	assert.Error(t, WriteSummaryLog(filepath.Join(blocker, "summary.txt"), RunSummary{}))
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
}
