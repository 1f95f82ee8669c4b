package parser

import (
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
)

// ExtractRows builds one raw record per row of region below the header rows.
// Empty cells are stored as null, so every record carries every header.
func ExtractRows(r sheet.Reader, region models.Region, headers []string, headerRows int) []models.Record {
	if region.Empty() {
		return nil
	}
	first := region.MinRow + headerRows
	if first > region.MaxRow {
		return nil
	}

	records := make([]models.Record, 0, region.MaxRow-first+1)
	for row := first; row <= region.MaxRow; row++ {
		rec := models.NewRecord(row + 1)
		for i, header := range headers {
			col := region.MinCol + i
			rec.SetCell(header, col+1, r.CellAt(row, col))
		}
		records = append(records, rec)
	}
	return records
}
