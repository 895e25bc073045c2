package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/shape"
)

// renderResult writes a query result set in the requested format.
// Table and markdown output use display formatting (currency, percent,
// grouped counts); json and csv output the raw values.
func renderResult(w io.Writer, result *api.ResultSet, format string) error {
	if result == nil {
		_, _ = fmt.Fprintln(w, "(no result)")
		return nil
	}

	switch format {
	case "json":
		return renderJSON(w, result.Data)
	case "csv":
		return shape.WriteCSV(w, result)
	case "md", "markdown":
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

func renderTable(w io.Writer, result *api.ResultSet) error {
	proj := shape.ProjectTable(result)
	if proj.RowCount == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(proj.Columns))
	for i, col := range proj.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, cells := range proj.Cells {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", proj.RowCount)
	return nil
}

// renderTablePage renders a single page of a paginated result along
// with a page indicator when more than one page exists.
func renderTablePage(w io.Writer, result *api.ResultSet, page int) error {
	if result == nil {
		_, _ = fmt.Fprintln(w, "(no result)")
		return nil
	}
	proj := shape.ProjectTable(result)
	if proj.RowCount == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cells := proj.Page(page)
	if cells == nil {
		return fmt.Errorf("page %d out of range (1-%d)", page+1, proj.PageCount())
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(proj.Columns))
	for i, col := range proj.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, rowCells := range cells {
		row := make(table.Row, len(rowCells))
		for i, cell := range rowCells {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
	if proj.PageCount() > 1 {
		_, _ = fmt.Fprintf(w, "(page %d/%d, %d rows total)\n", page+1, proj.PageCount(), proj.RowCount)
	} else {
		_, _ = fmt.Fprintf(w, "(%d rows)\n", proj.RowCount)
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderMarkdown(w io.Writer, result *api.ResultSet) error {
	proj := shape.ProjectTable(result)
	if proj.RowCount == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(proj.Columns, " | "))
	seps := make([]string, len(proj.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, cells := range proj.Cells {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

// renderResponse writes the full query response: generated SQL and
// explanation when present, followed by the result set.
func renderResponse(w io.Writer, resp *api.QueryResponse, format string, showExplanation bool) error {
	if format == "json" {
		return renderJSON(w, resp)
	}

	if resp.GeneratedSQL != "" {
		_, _ = fmt.Fprintf(w, "SQL: %s\n", resp.GeneratedSQL)
	}
	if showExplanation && resp.Explanation != "" {
		_, _ = fmt.Fprintf(w, "Explanation: %s\n", resp.Explanation)
	}
	if resp.GeneratedSQL != "" || (showExplanation && resp.Explanation != "") {
		_, _ = fmt.Fprintln(w)
	}

	return renderResult(w, resp.Result, format)
}
