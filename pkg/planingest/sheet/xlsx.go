package sheet

import (
	"bytes"
	"fmt"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/xuri/excelize/v2"
)

// OpenXLSX loads the first worksheet of an xlsx workbook.
func OpenXLSX(data []byte) (*Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheetName, err)
	}

	g := NewGrid(sheetName)
	g.Format = FormatXLSX
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		g.SetDate1904(*props.Date1904)
	}

	for rowIdx, row := range rows {
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			g.Set(rowIdx, colIdx, xlsxValue(raw, cellType))
		}
	}

	return g, nil
}

// xlsxValue types a raw cell. Text cells stay strings even when they look
// numeric; untyped and numeric cells become numbers.
func xlsxValue(raw string, cellType excelize.CellType) models.Value {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.String(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return models.String("TRUE")
		}
		return models.String("FALSE")
	default:
		return textValue(raw)
	}
}
