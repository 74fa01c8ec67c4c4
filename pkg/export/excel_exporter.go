package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet pairs a worksheet name with its tabular content.
type Sheet struct {
	Name string
	Data Dataset
}

// ExcelExporter renders multi-sheet XLSX workbooks.
type ExcelExporter struct{}

// NewExcelExporter constructs an Excel exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Render produces an XLSX workbook with one worksheet per sheet definition.
func (e *ExcelExporter) Render(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	file := excelize.NewFile()
	defer file.Close() //nolint:errcheck

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheet.Name
		if len(name) > 31 {
			// Excel caps sheet names at 31 characters.
			name = name[:31]
		}
		if i == 0 {
			if err := file.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else {
			if _, err := file.NewSheet(name); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", name, err)
			}
		}

		for col, header := range sheet.Data.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(name, cell, header); err != nil {
				return nil, fmt.Errorf("write header cell: %w", err)
			}
		}
		if len(sheet.Data.Headers) > 0 {
			startCell, _ := excelize.CoordinatesToCellName(1, 1)
			endCell, _ := excelize.CoordinatesToCellName(len(sheet.Data.Headers), 1)
			_ = file.SetCellStyle(name, startCell, endCell, headerStyle)
		}

		for rowIdx, row := range sheet.Data.Rows {
			for col, header := range sheet.Data.Headers {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return nil, err
				}
				if err := file.SetCellValue(name, cell, row[header]); err != nil {
					return nil, fmt.Errorf("write row cell: %w", err)
				}
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := file.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
