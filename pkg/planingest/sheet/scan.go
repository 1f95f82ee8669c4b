package sheet

import (
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// Cells is an iterable set of addressed cells.
type Cells interface {
	Each(fn func(row, col int, v models.Value))
}

// Scan finds the bounding box of the data cells in c. Placeholder cells
// (null values) are skipped. A sheet without data yields an empty region.
func Scan(c Cells) models.Region {
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1

	c.Each(func(row, col int, v models.Value) {
		if v.IsNull() {
			return
		}
		if minRow < 0 || row < minRow {
			minRow = row
		}
		if maxRow < 0 || row > maxRow {
			maxRow = row
		}
		if minCol < 0 || col < minCol {
			minCol = col
		}
		if maxCol < 0 || col > maxCol {
			maxCol = col
		}
	})

	if minRow < 0 {
		return models.EmptyRegion()
	}
	return models.Region{MinRow: minRow, MaxRow: maxRow, MinCol: minCol, MaxCol: maxCol}
}

// CountData counts the data cells inside region.
func CountData(r Reader, region models.Region) int {
	count := 0
	for row := region.MinRow; row <= region.MaxRow; row++ {
		for col := region.MinCol; col <= region.MaxCol; col++ {
			if !r.CellAt(row, col).IsNull() {
				count++
			}
		}
	}
	return count
}

// Within restricts c to the cells inside region.
func Within(c Cells, region models.Region) Cells {
	return within{cells: c, region: region}
}

type within struct {
	cells  Cells
	region models.Region
}

func (w within) Each(fn func(row, col int, v models.Value)) {
	w.cells.Each(func(row, col int, v models.Value) {
		if w.region.Contains(row, col) {
			fn(row, col, v)
		}
	})
}
