package commands

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/shape"
)

func categoryResult() *api.ResultSet {
	return &api.ResultSet{
		Data: []map[string]any{
			{"category": "Electronics", "sales": 300.0},
			{"category": "Books", "sales": 100.0},
		},
		Columns: []api.Column{
			{Name: "category", Type: "text"},
			{Name: "sales", Type: "numeric"},
		},
		RowCount: 2,
	}
}

func TestRenderBarChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderChart(&buf, categoryResult(), shape.ChartBar, NewStyles()))

	out := buf.String()
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "Books")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "$300.00")
}

func TestRenderPieChartShowsPercentages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderChart(&buf, categoryResult(), shape.ChartPie, NewStyles()))

	out := buf.String()
	assert.Contains(t, out, "(75.0%)")
	assert.Contains(t, out, "(25.0%)")
}

func TestRenderLineChart(t *testing.T) {
	rs := &api.ResultSet{
		Data: []map[string]any{
			{"month": "Jan", "revenue": 10.0},
			{"month": "Feb", "revenue": 30.0},
			{"month": "Mar", "revenue": 20.0},
		},
		Columns: []api.Column{
			{Name: "month", Type: "text"},
			{Name: "revenue", Type: "numeric"},
		},
		RowCount: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, renderChart(&buf, rs, shape.ChartLine, NewStyles()))

	out := buf.String()
	assert.Contains(t, out, "3 points")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "$30.00")
}

func TestRenderChartsWithNegativeValues(t *testing.T) {
	rs := &api.ResultSet{
		Data: []map[string]any{
			{"month": "Jan", "revenue_change": 100.0},
			{"month": "Feb", "revenue_change": -50.0},
		},
		Columns: []api.Column{
			{Name: "month", Type: "text"},
			{Name: "revenue_change", Type: "numeric"},
		},
		RowCount: 2,
	}

	for _, kind := range []shape.ChartKind{shape.ChartBar, shape.ChartLine, shape.ChartPie} {
		var buf bytes.Buffer
		require.NoError(t, renderChart(&buf, rs, kind, NewStyles()))
		assert.Contains(t, buf.String(), "Feb")
	}
}

func TestRenderChartWithoutNumericData(t *testing.T) {
	rs := &api.ResultSet{
		Data:     []map[string]any{{"name": "widget"}},
		Columns:  []api.Column{{Name: "name", Type: "text"}},
		RowCount: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, renderChart(&buf, rs, shape.ChartBar, NewStyles()))
	assert.Contains(t, buf.String(), "no numeric data available")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short"))
	long := "a label that is far too long for the chart"
	got := truncateLabel(long)
	assert.Len(t, got, maxChartLabel)
	assert.True(t, len(got) < len(long))
}

func TestTruncateLabelMultibyte(t *testing.T) {
	long := "Bücher über Ökonomie und Städteplanung"
	got := truncateLabel(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxChartLabel, utf8.RuneCountInString(got))

	short := "Möbel"
	assert.Equal(t, short, truncateLabel(short))
}
