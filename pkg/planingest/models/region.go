package models

// Region is the occupied rectangle of a worksheet.
// Rows and columns are 0-based and inclusive.
type Region struct {
	MinRow int `json:"min_row"`
	MaxRow int `json:"max_row"`
	MinCol int `json:"min_col"`
	MaxCol int `json:"max_col"`
}

// EmptyRegion returns the degenerate region of a sheet without data.
func EmptyRegion() Region {
	return Region{MinRow: 0, MaxRow: -1, MinCol: 0, MaxCol: -1}
}

// Empty reports whether the region contains no cells.
func (r Region) Empty() bool {
	return r.MaxRow < r.MinRow || r.MaxCol < r.MinCol
}

// Rows returns the number of rows covered.
func (r Region) Rows() int {
	if r.Empty() {
		return 0
	}
	return r.MaxRow - r.MinRow + 1
}

// Cols returns the number of columns covered.
func (r Region) Cols() int {
	if r.Empty() {
		return 0
	}
	return r.MaxCol - r.MinCol + 1
}

// Contains reports whether the cell lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.MinRow && row <= r.MaxRow && col >= r.MinCol && col <= r.MaxCol
}

// Intersect returns the overlap of two regions, which may be empty.
func (r Region) Intersect(o Region) Region {
	out := Region{
		MinRow: max(r.MinRow, o.MinRow),
		MaxRow: min(r.MaxRow, o.MaxRow),
		MinCol: max(r.MinCol, o.MinCol),
		MaxCol: min(r.MaxCol, o.MaxCol),
	}
	if out.Empty() {
		return EmptyRegion()
	}
	return out
}
