// Package table infers row and column bands from glyph extents and
// partitions each eligible page's glyphs into a grid of cells.
package table

// Cell is the text found in one column band of a row.
type Cell struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
}

// Row holds one cell per column band, ordered left to right.
type Row struct {
	Index int    `json:"index" yaml:"index"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Table is the grid recovered from one page.
type Table struct {
	PageIndex   int   `json:"page_index" yaml:"page_index"`
	ColumnCount int   `json:"column_count" yaml:"column_count"`
	Rows        []Row `json:"rows" yaml:"rows"`
}

// Grid returns the cell texts row by row.
func (t Table) Grid() [][]string {
	grid := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		texts := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			texts[j] = c.Text
		}
		grid[i] = texts
	}
	return grid
}
