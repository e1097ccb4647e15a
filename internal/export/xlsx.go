package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook writes every table into one workbook, one sheet per table.
func writeWorkbook(path string, tables []table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, t := range tables {
		sheet := t.name
		if i == 0 {
			// excelize always starts with one default sheet
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}

		for col, name := range t.header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("set header: %w", err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("set style: %w", err)
			}
		}

		for row, rec := range t.records {
			for col, value := range rec {
				cell, err := excelize.CoordinatesToCellName(col+1, row+2)
				if err != nil {
					return fmt.Errorf("cell name: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("set cell: %w", err)
				}
			}
		}

		for col := range t.header {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return fmt.Errorf("column name: %w", err)
			}
			if err := f.SetColWidth(sheet, name, name, 22); err != nil {
				return fmt.Errorf("col width: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
