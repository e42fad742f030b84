package model

// Grid is the tabular abstraction produced by the sheet loaders: rows of
// cell values rendered as text. An empty string is an empty cell. Rows
// may be ragged; consumers index defensively.
type Grid [][]string

// Cell returns the cell at (row, col), or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Columns returns the widest row length in the grid.
func (g Grid) Columns() int {
	max := 0
	for _, row := range g {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}
