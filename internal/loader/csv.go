package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// readCSV returns every record of a CSV export of the transaction sheet.
// A UTF-8 byte order mark, as written by spreadsheet tools, is skipped.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	if bom, err := reader.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		if _, err := reader.Discard(3); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	csvReader := csv.NewReader(reader)

	// Allow a variable number of fields per row; short rows are padded later.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
