package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"kycdocs/internal/fields"
)

const SheetName = "extraccion"

var headers = []string{
	"doc_id",
	"Fuente",
	"Caracterización variable",
	"Nombre de la Variable",
	"Tipo_Variable",
	"Caracterización",
	"Valor",
}

// Workbook renders the consolidated table as a single-sheet XLSX. Rows keep
// dictionary order and absent values stay as blank cells.
func Workbook(rows []fields.Row) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %q: %w", h, err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.DocID,
			row.Source,
			row.Category,
			row.Field,
			row.Type,
			row.Description,
			"",
		}
		if row.Valor != nil {
			values[6] = *row.Valor
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
