package shape

import "github.com/msdcl/nlq-console/internal/api"

// PageSize is the fixed number of rows per table page.
const PageSize = 50

// TableProjection is a display-ready table: formatted cells in column
// display order, paginated into fixed-size pages.
type TableProjection struct {
	Columns  []string
	Cells    [][]string // all rows, formatted
	RowCount int
}

// ProjectTable formats every cell of the result for display.
func ProjectTable(res *api.ResultSet) *TableProjection {
	t := &TableProjection{RowCount: len(res.Data)}
	for _, col := range res.Columns {
		t.Columns = append(t.Columns, col.Name)
	}

	t.Cells = make([][]string, 0, len(res.Data))
	for _, row := range res.Data {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = FormatCell(col.Name, row[col.Name])
		}
		t.Cells = append(t.Cells, cells)
	}
	return t
}

// PageCount returns the number of pages.
func (t *TableProjection) PageCount() int {
	if len(t.Cells) == 0 {
		return 1
	}
	return (len(t.Cells) + PageSize - 1) / PageSize
}

// Page returns the formatted rows of page n (zero-based). Out-of-range
// pages return an empty slice.
func (t *TableProjection) Page(n int) [][]string {
	start := n * PageSize
	if n < 0 || start >= len(t.Cells) {
		return nil
	}
	end := start + PageSize
	if end > len(t.Cells) {
		end = len(t.Cells)
	}
	return t.Cells[start:end]
}
