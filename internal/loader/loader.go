// =============================================================================
// basketminer - Transaction Loader
// =============================================================================
//
// This module reads the transaction spreadsheet and turns every data row into
// either a typed Record or a RowError. Nothing is coerced silently: a row whose
// invoice, quantity or price cannot be parsed is rejected here, with the reason
// recorded, and never reaches the filter stage.
//
// SUPPORTED INPUTS:
//   - .xlsx / .xlsm workbooks (read with excelize)
//   - .csv exports of the same sheet
//
// EXPECTED LAYOUT:
//   Row 1 holds the headers. The four analysis columns are located by header
//   name, so their position and any extra columns do not matter.
//
//   | Invoice | StockCode | Description            | Quantity | InvoiceDate | Price | Customer ID | Country        |
//   |---------|-----------|------------------------|----------|-------------|-------|-------------|----------------|
//   | 489434  | 85048     | 15CM CHRISTMAS GLASS...| 12       | 40148.3     | 6.95  | 13085       | United Kingdom |
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/basketminer/internal/config"
	"github.com/ginjaninja78/basketminer/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing expected column")

	// ErrEmptyInput is returned when the sheet has no header row.
	ErrEmptyInput = errors.New("input has no header row")

	// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options names the sheet and the columns to read.
type Options struct {
	// Sheet is the worksheet name. Empty selects the first sheet.
	// Ignored for CSV input.
	Sheet string

	InvoiceColumn     string
	DescriptionColumn string
	QuantityColumn    string
	PriceColumn       string
}

// OptionsFromConfig maps the input section of the configuration to Options.
func OptionsFromConfig(cfg config.InputConfig) Options {
	return Options{
		Sheet:             cfg.Sheet,
		InvoiceColumn:     cfg.InvoiceColumn,
		DescriptionColumn: cfg.DescriptionColumn,
		QuantityColumn:    cfg.QuantityColumn,
		PriceColumn:       cfg.PriceColumn,
	}
}

// Dataset is the parsed content of one input file.
type Dataset struct {
	// Source is the path of the file that was read.
	Source string

	// Sheet is the worksheet that was read (empty for CSV).
	Sheet string

	// Headers holds the cleaned header row.
	Headers []string

	// Records holds every successfully parsed data row, in sheet order.
	Records []types.Record

	// Rejected holds every data row that failed to parse.
	Rejected []types.RowError

	// RowsRead is the number of non-empty data rows.
	RowsRead int
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the file at path and parses its rows.
//
// PARAMETERS:
//   - path: The workbook or CSV file.
//   - opts: Sheet and column names.
//
// RETURNS:
//   - The parsed Dataset. Rejected rows are part of the result, not an error.
//   - An error if the file cannot be opened, is empty, or lacks a required column.
func Load(path string, opts Options) (*Dataset, error) {
	var (
		rows  [][]string
		sheet string
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, sheet, err = readWorkbook(path, opts.Sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	ds, err := Parse(rows, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	ds.Sheet = sheet
	return ds, nil
}

// Parse converts raw sheet rows (header first) into a Dataset.
func Parse(rows [][]string, opts Options) (*Dataset, error) {
	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, ErrEmptyInput
	}

	headers := cleanHeaders(rows[headerIndex])
	cols, err := locateColumns(headers, opts)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Headers: headers}
	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		ds.RowsRead++

		record, rowErr := parseRow(row, i+1, headers, cols)
		if rowErr != nil {
			ds.Rejected = append(ds.Rejected, *rowErr)
			continue
		}
		ds.Records = append(ds.Records, record)
	}

	return ds, nil
}

// columnIndexes holds the positions of the four analysis columns.
type columnIndexes struct {
	invoice, description, quantity, price int
}

// locateColumns finds each required header. Matching ignores surrounding
// whitespace but is case sensitive, like a DataFrame column lookup.
func locateColumns(headers []string, opts Options) (columnIndexes, error) {
	find := func(name string) (int, error) {
		for i, h := range headers {
			if h == strings.TrimSpace(name) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: %q (headers: %s)", ErrMissingColumn, name, strings.Join(headers, ", "))
	}

	var (
		idx columnIndexes
		err error
	)
	if idx.invoice, err = find(opts.InvoiceColumn); err != nil {
		return idx, err
	}
	if idx.description, err = find(opts.DescriptionColumn); err != nil {
		return idx, err
	}
	if idx.quantity, err = find(opts.QuantityColumn); err != nil {
		return idx, err
	}
	if idx.price, err = find(opts.PriceColumn); err != nil {
		return idx, err
	}
	return idx, nil
}

// parseRow parses a single data row.
//
// PARAMETERS:
//   - row: The raw cells.
//   - rowNumber: The 1-indexed sheet row (for error reporting).
//   - headers: The cleaned header row.
//   - cols: Positions of the analysis columns.
//
// RETURNS:
//   - The parsed Record, or a RowError naming the first cell that failed.
func parseRow(row []string, rowNumber int, headers []string, cols columnIndexes) (types.Record, *types.RowError) {
	getCell := func(index int) string {
		if index < len(row) {
			return row[index]
		}
		return ""
	}

	cells := make(map[string]string, len(headers))
	for i, h := range headers {
		cells[h] = getCell(i)
	}

	reject := func(col int, reason string) *types.RowError {
		return &types.RowError{
			RowNumber: rowNumber,
			Column:    headers[col],
			Value:     getCell(col),
			Reason:    reason,
		}
	}

	invoice, err := parseInvoice(getCell(cols.invoice))
	if err != nil {
		return types.Record{}, reject(cols.invoice, err.Error())
	}

	quantity, err := parseDecimal(getCell(cols.quantity))
	if err != nil {
		return types.Record{}, reject(cols.quantity, err.Error())
	}

	price, err := parseDecimal(getCell(cols.price))
	if err != nil {
		return types.Record{}, reject(cols.price, err.Error())
	}

	return types.Record{
		RowNumber:   rowNumber,
		Invoice:     invoice,
		Description: getCell(cols.description),
		Quantity:    quantity,
		Price:       price,
		Cells:       cells,
	}, nil
}

// =============================================================================
// VALUE PARSERS
// =============================================================================

// parseInvoice accepts whole numbers only. Cancellation invoices such as
// "C489449" and blanks are rejected.
func parseInvoice(value string) (int64, error) {
	d, err := parseDecimal(value)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("invoice is not a whole number")
	}
	return d.IntPart(), nil
}

// parseDecimal parses a numeric cell. Blank cells are an error.
func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Decimal{}, fmt.Errorf("value is missing")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("value is not numeric")
	}
	return d, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header values and names blank headers after their
// position so every column has a key.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}
