package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportSheetName is the worksheet holding an exported result.
const ExportSheetName = "Result"

// WriteXLSX writes the grid of res as an Excel workbook: a header row with the
// column names followed by one row per result row.
func WriteXLSX(w io.Writer, res *Result) error {
	if !res.HasRows() {
		return errors.New("no result rows to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return err
	}

	for colIndex, name := range res.Columns {
		cell, err := excelize.CoordinatesToCellName(colIndex+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ExportSheetName, cell, name); err != nil {
			return err
		}
	}

	for rowIndex, row := range res.Rows {
		for colIndex, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(ExportSheetName, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func cellValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return fmt.Sprint(x["base64"])
	default:
		return x
	}
}
