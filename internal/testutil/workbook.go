// Package testutil builds fixture files for tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// RetailHeader is the header row of the online retail workbook.
var RetailHeader = []string{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate", "Price", "Customer ID", "Country"}

// Line is one row of a fixture retail sheet.
type Line struct {
	Invoice     string
	Description string
	Quantity    string
	Price       string
	Customer    string
}

// Row expands the line into the full retail header layout.
func (l Line) Row() []string {
	customer := l.Customer
	if customer == "" {
		customer = "13085"
	}
	return []string{l.Invoice, "85048", l.Description, l.Quantity, "2010-12-01 07:45:00", l.Price, customer, "United Kingdom"}
}

// Bulk returns a line that passes every filter.
func Bulk(invoice, description string) Line {
	return Line{Invoice: invoice, Description: description, Quantity: "1200", Price: "0.85"}
}

// WriteWorkbook saves rows (header first) to dir/name as the first sheet,
// named sheet, and returns the file path.
func WriteWorkbook(t *testing.T, dir, name, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// WriteRetailWorkbook writes lines under RetailHeader to dir/online_retail_2.xlsx.
func WriteRetailWorkbook(t *testing.T, dir string, lines []Line) string {
	t.Helper()
	rows := [][]string{RetailHeader}
	for _, l := range lines {
		rows = append(rows, l.Row())
	}
	return WriteWorkbook(t, dir, "online_retail_2.xlsx", "Year 2009-2010", rows)
}

// WriteCSV saves rows to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create CSV: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	return path
}

// BasketLines returns bulk lines for the given baskets, one invoice per
// basket numbered from 1000.
func BasketLines(baskets ...[]string) []Line {
	var lines []Line
	for i, basket := range baskets {
		invoice := strconv.Itoa(1000 + i)
		for _, item := range basket {
			lines = append(lines, Bulk(invoice, item))
		}
	}
	return lines
}
