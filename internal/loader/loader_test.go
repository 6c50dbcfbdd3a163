package loader

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/testutil"
)

func defaultOptions() Options {
	return OptionsFromConfig(config.Default().Input)
}

func TestLoadWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteRetailWorkbook(t, dir, []testutil.Line{
		{Invoice: "489434", Description: "WHITE HANGING HEART", Quantity: "1200", Price: "2.55"},
		{Invoice: "C489449", Description: "RETURNED ITEM", Quantity: "-12", Price: "2.10"},
		{Invoice: "489435", Description: "REGENCY CAKESTAND", Quantity: "24", Price: "10.95"},
	})

	ds, err := Load(path, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Year 2009-2010", ds.Sheet)
	assert.Equal(t, testutil.RetailHeader, ds.Headers)
	assert.Equal(t, 3, ds.RowsRead)
	require.Len(t, ds.Records, 2)
	require.Len(t, ds.Rejected, 1)

	first := ds.Records[0]
	assert.Equal(t, 2, first.RowNumber)
	assert.Equal(t, int64(489434), first.Invoice)
	assert.Equal(t, "WHITE HANGING HEART", first.Description)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(1200)))
	assert.True(t, first.Price.Equal(decimal.RequireFromString("2.55")))
	assert.Equal(t, "United Kingdom", first.Cells["Country"])

	rejected := ds.Rejected[0]
	assert.Equal(t, 3, rejected.RowNumber)
	assert.Equal(t, "Invoice", rejected.Column)
	assert.Equal(t, "C489449", rejected.Value)
}

func TestLoadNamedSheet(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "retail.xlsx", "Year 2010-2011", [][]string{
		testutil.RetailHeader,
		testutil.Bulk("536365", "JUMBO BAG RED RETROSPOT").Row(),
	})

	opts := defaultOptions()
	opts.Sheet = "Year 2010-2011"
	ds, err := Load(path, opts)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)

	opts.Sheet = "Year 1999"
	_, err = Load(path, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "retail.csv", [][]string{
		testutil.RetailHeader,
		testutil.Bulk("536365", "JUMBO BAG RED RETROSPOT").Row(),
		testutil.Bulk("536366", "PACK OF 72 RETROSPOT CAKE CASES").Row(),
	})

	ds, err := Load(path, defaultOptions())
	require.NoError(t, err)
	assert.Empty(t, ds.Sheet)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, int64(536366), ds.Records[1].Invoice)
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "retail.xlsx", "Sheet1", [][]string{
		{"Invoice", "Description", "Quantity"},
		{"1", "A", "1000"},
	})

	_, err := Load(path, defaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), `"Price"`)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("transactions.json", defaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.xlsx", defaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse([][]string{{}, {" ", ""}}, defaultOptions())
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseRejectsPerCell(t *testing.T) {
	header := []string{"Invoice", "Description", "Quantity", "Price"}
	rows := [][]string{
		header,
		{"1", "A", "1000", "1.5"},
		{"", "B", "1000", "1.5"},
		{"2.5", "C", "1000", "1.5"},
		{"3", "D", "lots", "1.5"},
		{"4", "E", "1000"},
		{},
		{" 5 ", "F", "1e3", "0.5"},
	}

	ds, err := Parse(rows, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 6, ds.RowsRead)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, int64(1), ds.Records[0].Invoice)
	assert.Equal(t, int64(5), ds.Records[1].Invoice)
	assert.True(t, ds.Records[1].Quantity.Equal(decimal.NewFromInt(1000)))

	require.Len(t, ds.Rejected, 4)
	assert.Equal(t, "Invoice", ds.Rejected[0].Column)
	assert.Equal(t, "value is missing", ds.Rejected[0].Reason)
	assert.Equal(t, "Invoice", ds.Rejected[1].Column)
	assert.Equal(t, "invoice is not a whole number", ds.Rejected[1].Reason)
	assert.Equal(t, "Quantity", ds.Rejected[2].Column)
	assert.Equal(t, "Price", ds.Rejected[3].Column)
	assert.Equal(t, 6, ds.Rejected[3].RowNumber)
}

func TestParseBlankHeadersAreNamed(t *testing.T) {
	rows := [][]string{
		{"Invoice", "", "Description", "Quantity", "Price"},
		{"1", "x", "A", "1000", "1"},
	}
	ds, err := Parse(rows, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Column_2", ds.Headers[1])
	assert.Equal(t, "x", ds.Records[0].Cells["Column_2"])
}

func TestParseShortRowsArePadded(t *testing.T) {
	rows := [][]string{
		{"Invoice", "Description", "Quantity", "Price", "Country"},
		{"1", "A", "1000", "1"},
	}
	ds, err := Parse(rows, defaultOptions())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	v, ok := ds.Records[0].Cells["Country"]
	assert.True(t, ok)
	assert.Empty(t, v)
}
