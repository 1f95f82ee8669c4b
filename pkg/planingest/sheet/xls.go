package sheet

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// xlsCharsets are tried in order for BIFF5 string tables.
var xlsCharsets = []string{"windows-1251", "utf-8"}

// OpenXLS loads the first worksheet of a legacy xls workbook. The xls reader
// exposes formatted text only, so numeric-looking text becomes numbers here.
func OpenXLS(data []byte) (g *Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("corrupt xls workbook: %v", r)
		}
	}()

	var wb *xls.WorkBook
	for _, charset := range xlsCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(data), charset)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoSheet
	}

	g = NewGrid(ws.Name)
	g.Format = FormatXLS
	for rowIdx := 0; rowIdx <= int(ws.MaxRow); rowIdx++ {
		row := ws.Row(rowIdx)
		if row == nil {
			continue
		}
		for colIdx := row.FirstCol(); colIdx < row.LastCol(); colIdx++ {
			text := row.Col(colIdx)
			if text == "" {
				continue
			}
			g.Set(rowIdx, colIdx, textValue(text))
		}
	}
	return g, nil
}
