// Package sheet provides worksheet access for the plan ingestion pipeline.
//
// Loaders turn xlsx and xls bytes into a Grid, a sparse in-memory worksheet.
// The pipeline depends only on the Reader interface, so tests can build grids
// directly without going through a spreadsheet library.
package sheet

import (
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// Format names the container a Grid was loaded from.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatXLS    Format = "xls"
	FormatMemory Format = "memory"
)

// Reader is the worksheet capability used by the pipeline.
// Rows and columns are 0-based.
type Reader interface {
	// Region returns the occupied rectangle of the sheet.
	Region() models.Region
	// CellAt returns the value at (row, col); null when the cell is empty.
	CellAt(row, col int) models.Value
	// Date1904 reports whether serial dates use the 1904 epoch.
	Date1904() bool
}

type addr struct {
	row, col int
}

// Grid is a sparse worksheet. Cells holding null are formatting-only
// placeholders and do not count as data.
type Grid struct {
	// Name is the worksheet name.
	Name string
	// Format is the container the grid was loaded from.
	Format Format

	cells    map[addr]models.Value
	date1904 bool
}

// NewGrid returns an empty grid.
func NewGrid(name string) *Grid {
	return &Grid{Name: name, Format: FormatMemory, cells: make(map[addr]models.Value)}
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v models.Value) {
	g.cells[addr{row, col}] = v
}

// SetRow stores values left to right starting at (row, col). Nil entries
// are skipped; float64, int and string are converted to values.
func (g *Grid) SetRow(row, col int, values ...interface{}) {
	for i, raw := range values {
		switch v := raw.(type) {
		case nil:
			continue
		case models.Value:
			g.Set(row, col+i, v)
		case float64:
			g.Set(row, col+i, models.Number(v))
		case int:
			g.Set(row, col+i, models.Number(float64(v)))
		case string:
			g.Set(row, col+i, models.String(v))
		}
	}
}

// SetDate1904 marks the grid as using the 1904 date system.
func (g *Grid) SetDate1904(on bool) { g.date1904 = on }

// CellAt implements Reader.
func (g *Grid) CellAt(row, col int) models.Value {
	return g.cells[addr{row, col}]
}

// Region implements Reader by scanning every stored cell.
func (g *Grid) Region() models.Region {
	return Scan(g)
}

// Date1904 implements Reader.
func (g *Grid) Date1904() bool { return g.date1904 }

// Len returns the number of stored cells, placeholders included.
func (g *Grid) Len() int { return len(g.cells) }

// Each calls fn for every stored cell in unspecified order.
func (g *Grid) Each(fn func(row, col int, v models.Value)) {
	for a, v := range g.cells {
		fn(a.row, a.col, v)
	}
}
