package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook returns the raw rows of one worksheet.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - All rows of the sheet, using raw cell values so number formats do not
//     round prices or invoice numbers.
//   - The name of the sheet that was read.
//   - An error if the file or sheet cannot be read.
func readWorkbook(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, "", fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, "", fmt.Errorf("sheet %q not found (sheets: %v)", sheet, f.GetSheetList())
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, sheet, nil
}
