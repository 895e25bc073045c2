package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msdcl/nlq-console/internal/api"
)

func salesResult() *api.ResultSet {
	return &api.ResultSet{
		Data: []map[string]any{
			{"category": "Electronics", "total_revenue": 1234.5, "order_count": 42},
			{"category": "Books", "total_revenue": 99.99, "order_count": 7},
		},
		Columns: []api.Column{
			{Name: "category", Type: "text"},
			{Name: "total_revenue", Type: "numeric"},
			{Name: "order_count", Type: "integer"},
		},
		RowCount: 2,
	}
}

func TestRenderTableFormatsCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, salesResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, salesResult(), "md"))

	out := buf.String()
	assert.Contains(t, out, "| category | total_revenue | order_count |")
	assert.Contains(t, out, "| --- | --- | --- |")
	assert.Contains(t, out, "| Books | $99.99 | 7 |")
}

func TestRenderCSVUsesRawValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, salesResult(), "csv"))

	out := buf.String()
	assert.Contains(t, out, "category,total_revenue,order_count")
	// CSV export keeps raw values, no currency formatting.
	assert.Contains(t, out, "1234.5")
	assert.NotContains(t, out, "$1,234.50")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, salesResult(), "json"))
	assert.Contains(t, buf.String(), `"category": "Electronics"`)
}

func TestRenderEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	empty := &api.ResultSet{Columns: []api.Column{{Name: "a", Type: "text"}}}
	require.NoError(t, renderResult(&buf, empty, "table"))
	assert.Contains(t, buf.String(), "(0 rows)")

	buf.Reset()
	require.NoError(t, renderResult(&buf, nil, "table"))
	assert.Contains(t, buf.String(), "(no result)")
}

func TestRenderTablePagePagination(t *testing.T) {
	rows := make([]map[string]any, 120)
	for i := range rows {
		rows[i] = map[string]any{"n": i}
	}
	rs := &api.ResultSet{
		Data:     rows,
		Columns:  []api.Column{{Name: "n", Type: "integer"}},
		RowCount: len(rows),
	}

	var buf bytes.Buffer
	require.NoError(t, renderTablePage(&buf, rs, 0))
	assert.Contains(t, buf.String(), "(page 1/3, 120 rows total)")

	buf.Reset()
	require.NoError(t, renderTablePage(&buf, rs, 2))
	assert.Contains(t, buf.String(), "(page 3/3, 120 rows total)")

	err := renderTablePage(&buf, rs, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRenderResponseIncludesSQLAndExplanation(t *testing.T) {
	resp := &api.QueryResponse{
		Success:      true,
		GeneratedSQL: "SELECT 1",
		Explanation:  "Counts everything.",
		Result:       salesResult(),
	}

	var buf bytes.Buffer
	require.NoError(t, renderResponse(&buf, resp, "table", true))
	out := buf.String()
	assert.Contains(t, out, "SQL: SELECT 1")
	assert.Contains(t, out, "Explanation: Counts everything.")

	buf.Reset()
	require.NoError(t, renderResponse(&buf, resp, "table", false))
	assert.NotContains(t, buf.String(), "Explanation:")
}
