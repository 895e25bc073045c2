package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/session"
)

func TestDashboardFragmentFormatsValues(t *testing.T) {
	data := &api.DashboardData{
		Metrics: api.Metrics{
			TotalRevenue:  125430.5,
			TotalOrders:   1234,
			AvgOrderValue: 101.65,
			RevenueChange: 12.3,
			OrdersChange:  -4.2,
		},
		SalesByCategory: []api.CategorySales{
			{Category: "Electronics", Sales: 80000},
			{Category: "Books", Sales: 20000},
		},
	}

	html, err := renderFragment("dashboard", buildDashboardView(data))
	require.NoError(t, err)

	assert.Contains(t, html, "$125,430.50")
	assert.Contains(t, html, "1,234")
	assert.Contains(t, html, "▲ 12.3%")
	assert.Contains(t, html, "▼ 4.2%")
	assert.Contains(t, html, "Electronics")
	// Largest category fills the whole bar.
	assert.Contains(t, html, "width: 100%")
}

func TestChatViewOrdersOldestFirst(t *testing.T) {
	store, err := session.NewStore(nil)
	require.NoError(t, err)

	store.AddToHistory(session.HistoryEntry{Type: session.EntryUser, Query: "first"})
	store.AddToHistory(session.HistoryEntry{Type: session.EntryUser, Query: "second"})

	view := buildChatView(store)
	require.Len(t, view.Messages, 2)
	assert.Equal(t, "first", view.Messages[0].Query)
	assert.Equal(t, "second", view.Messages[1].Query)
}

func TestChatViewChartFallsBackWithoutNumericData(t *testing.T) {
	store, err := session.NewStore(nil)
	require.NoError(t, err)

	chartType := "bar"
	store.UpdateSettings(session.SettingsPatch{ChartType: &chartType})
	store.AddToHistory(session.HistoryEntry{
		Type: session.EntryBot,
		Result: &api.QueryResponse{
			Success: true,
			Result: &api.ResultSet{
				Data:     []map[string]any{{"name": "widget"}},
				Columns:  []api.Column{{Name: "name", Type: "text"}},
				RowCount: 1,
			},
		},
	})

	view := buildChatView(store)
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "no numeric data available", view.Messages[0].ChartEmpty)
	assert.Nil(t, view.Messages[0].Table)
}

func TestResultTableViewPaginates(t *testing.T) {
	rows := make([]map[string]any, 120)
	for i := range rows {
		rows[i] = map[string]any{"n": i}
	}
	rs := &api.ResultSet{
		Data:     rows,
		Columns:  []api.Column{{Name: "n", Type: "integer"}},
		RowCount: len(rows),
	}

	view := resultTableView(rs, 0)
	assert.Len(t, view.Rows, 50)
	assert.Equal(t, "page 1/3, 120 rows total", view.Footer)

	last := resultTableView(rs, 2)
	assert.Len(t, last.Rows, 20)
}

func TestTopbarFragmentReflectsState(t *testing.T) {
	html, err := renderFragment("topbar", topbarView{
		Theme:    "dark",
		FontSize: 16,
		Language: "de",
		View:     "chat",
	})
	require.NoError(t, err)

	assert.Contains(t, html, `data-theme="dark"`)
	assert.Contains(t, html, "font-size: 16px")
	assert.Contains(t, html, ">de<")
	assert.Contains(t, html, "Light mode")
}
