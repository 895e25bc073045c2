package ui

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/shape"
)

// Fragment templates patched over SSE. Each top-level element carries a
// stable id so datastar can morph it in place.
var fragmentTemplates = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"formatCell": shape.FormatCell,
}).Parse(`
{{define "dashboard"}}
<main id="view" class="view view-dashboard">
  <section class="kpi-row">
    {{range .Cards}}
    <div class="kpi-card">
      <div class="kpi-label">{{.Label}}</div>
      <div class="kpi-value">{{.Value}}</div>
      {{if .Change}}<div class="kpi-change {{.ChangeClass}}">{{.Change}}</div>{{end}}
    </div>
    {{end}}
  </section>
  <section class="panel">
    <h2>Revenue Trend</h2>
    {{template "barlist" .RevenueTrend}}
  </section>
  <section class="panel">
    <h2>Sales by Category</h2>
    {{template "barlist" .SalesByCategory}}
  </section>
  <section class="panel">
    <h2>Top Products</h2>
    {{template "table" .TopProducts}}
  </section>
  <section class="panel">
    <h2>Recent Orders</h2>
    {{template "table" .RecentOrders}}
  </section>
</main>
{{end}}

{{define "barlist"}}
<div class="bar-list">
  {{range .}}
  <div class="bar-row">
    <span class="bar-label">{{.Label}}</span>
    <span class="bar-track"><span class="bar-fill" style="width: {{.Percent}}%"></span></span>
    <span class="bar-value">{{.Value}}</span>
  </div>
  {{end}}
</div>
{{end}}

{{define "table"}}
{{if .Columns}}
<table class="result-table">
  <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
  </tbody>
</table>
{{if .Footer}}<div class="table-footer">{{.Footer}}</div>{{end}}
{{else}}
<div class="empty">(0 rows)</div>
{{end}}
{{end}}

{{define "chat"}}
<main id="view" class="view view-chat">
  <div class="messages" id="messages">
    {{range .Messages}}
    <div class="message message-{{.Kind}}">
      {{if .Query}}<div class="message-query">{{.Query}}</div>{{end}}
      {{if .Error}}<div class="message-error">{{.Error}}</div>{{end}}
      {{if .SQL}}<div class="message-sql"><code>{{.SQL}}</code></div>{{end}}
      {{if .Explanation}}<div class="message-explanation">{{.Explanation}}</div>{{end}}
      {{if .Table}}{{template "table" .Table}}{{end}}
      {{if .Chart}}{{template "barlist" .Chart}}{{end}}
      {{if .ChartEmpty}}<div class="empty">{{.ChartEmpty}}</div>{{end}}
    </div>
    {{end}}
    {{if .Processing}}<div class="message message-pending">Thinking…</div>{{end}}
  </div>
  <form class="ask-form" data-on-submit="@post('/api/query', {contentType: 'form'})">
    <input type="text" name="query" placeholder="Ask a question about your data…"
      value="{{.CurrentQuery}}" {{if .Processing}}disabled{{end}} autofocus>
    <button type="submit" {{if .Processing}}disabled{{end}}>Ask</button>
  </form>
</main>
{{end}}

{{define "topbar"}}
<header id="topbar" class="topbar" data-theme="{{.Theme}}" style="font-size: {{.FontSize}}px">
  <span class="brand">NLQ Console</span>
  <nav>
    <button class="{{if eq .View "dashboard"}}active{{end}}" data-on-click="@post('/api/view/dashboard')">Dashboard</button>
    <button class="{{if eq .View "chat"}}active{{end}}" data-on-click="@post('/api/view/chat')">Ask</button>
  </nav>
  <div class="topbar-right">
    <span class="lang">{{.Language}}</span>
    <button data-on-click="@post('/api/theme')">{{if eq .Theme "dark"}}Light{{else}}Dark{{end}} mode</button>
  </div>
</header>
{{end}}
`))

type barItem struct {
	Label   string
	Value   string
	Percent float64
}

type tableView struct {
	Columns []string
	Rows    [][]string
	Footer  string
}

type kpiView struct {
	Label       string
	Value       string
	Change      string
	ChangeClass string
}

type dashboardView struct {
	Cards           []kpiView
	RevenueTrend    []barItem
	SalesByCategory []barItem
	TopProducts     tableView
	RecentOrders    tableView
}

type messageView struct {
	Kind        string
	Query       string
	Error       string
	SQL         string
	Explanation string
	Table       *tableView
	Chart       []barItem
	ChartEmpty  string
}

type chatView struct {
	Messages     []messageView
	Processing   bool
	CurrentQuery string
}

type topbarView struct {
	Theme    string
	FontSize int
	Language string
	View     string
}

func renderFragment(name string, data any) (string, error) {
	var sb strings.Builder
	if err := fragmentTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}

func buildDashboardView(data *api.DashboardData) dashboardView {
	m := data.Metrics
	view := dashboardView{
		Cards: []kpiView{
			kpi("Total Revenue", shape.FormatCell("total_revenue", m.TotalRevenue), m.RevenueChange),
			kpi("Orders", shape.FormatCell("order_count", m.TotalOrders), m.OrdersChange),
			kpi("Customers", shape.FormatCell("customer_count", m.TotalCustomers), m.CustomersChange),
			kpi("Avg Order Value", shape.FormatCell("avg_order_value", m.AvgOrderValue), 0),
		},
	}

	maxRevenue := 0.0
	for _, p := range data.RevenueTrend {
		if p.Revenue > maxRevenue {
			maxRevenue = p.Revenue
		}
	}
	for _, p := range data.RevenueTrend {
		view.RevenueTrend = append(view.RevenueTrend, barItem{
			Label:   p.Period,
			Value:   shape.FormatCell("revenue", p.Revenue),
			Percent: percentOf(p.Revenue, maxRevenue),
		})
	}

	maxSales := 0.0
	for _, c := range data.SalesByCategory {
		if c.Sales > maxSales {
			maxSales = c.Sales
		}
	}
	for _, c := range data.SalesByCategory {
		view.SalesByCategory = append(view.SalesByCategory, barItem{
			Label:   c.Category,
			Value:   shape.FormatCell("sales", c.Sales),
			Percent: percentOf(c.Sales, maxSales),
		})
	}

	view.TopProducts = tableView{Columns: []string{"Product", "Revenue", "Quantity"}}
	for _, p := range data.TopProducts {
		view.TopProducts.Rows = append(view.TopProducts.Rows, []string{
			p.Name,
			shape.FormatCell("revenue", p.Revenue),
			shape.FormatCell("quantity", p.Quantity),
		})
	}

	view.RecentOrders = tableView{Columns: []string{"Order", "Customer", "Amount", "Status", "Created"}}
	for _, o := range data.RecentOrders {
		view.RecentOrders.Rows = append(view.RecentOrders.Rows, []string{
			o.OrderID,
			o.Customer,
			shape.FormatCell("amount", o.Amount),
			o.Status,
			o.CreatedAt,
		})
	}

	return view
}

func kpi(label, value string, change float64) kpiView {
	v := kpiView{Label: label, Value: value}
	if change > 0 {
		v.Change = fmt.Sprintf("▲ %.1f%%", change)
		v.ChangeClass = "up"
	} else if change < 0 {
		v.Change = fmt.Sprintf("▼ %.1f%%", -change)
		v.ChangeClass = "down"
	}
	return v
}

func percentOf(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max * 100
}

// buildChatView projects history into chat messages, newest last.
func buildChatView(store *session.Store) chatView {
	entries := store.History()
	settings := store.Settings()

	view := chatView{
		Processing:   store.IsProcessing(),
		CurrentQuery: store.CurrentQuery(),
	}

	// History is newest-first; the chat reads top to bottom.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		msg := messageView{Kind: string(e.Type)}
		switch e.Type {
		case session.EntryUser:
			msg.Query = e.Query
		case session.EntryError:
			msg.Error = e.Error
		case session.EntryBot:
			if e.Result != nil {
				msg.SQL = e.Result.GeneratedSQL
				if settings.ShowExplanation {
					msg.Explanation = e.Result.Explanation
				}
				fillResult(&msg, e.Result.Result, settings)
			}
		}
		view.Messages = append(view.Messages, msg)
	}
	return view
}

func fillResult(msg *messageView, rs *api.ResultSet, settings session.Settings) {
	if rs == nil {
		return
	}

	switch settings.ChartType {
	case "bar", "line", "pie":
		if settings.EnableCharts {
			proj := shape.ProjectChart(rs, shape.ChartKind(settings.ChartType))
			if proj.NoNumericData {
				msg.ChartEmpty = shape.NoNumericDataMessage
				return
			}
			maxVal := 0.0
			for _, p := range proj.Points {
				if p.Value > maxVal {
					maxVal = p.Value
				}
			}
			for _, p := range proj.Points {
				msg.Chart = append(msg.Chart, barItem{
					Label:   p.Category,
					Value:   shape.FormatCell(proj.ValueColumn, p.Value),
					Percent: percentOf(p.Value, maxVal),
				})
			}
			return
		}
	}

	msg.Table = resultTableView(rs, 0)
}

func resultTableView(rs *api.ResultSet, page int) *tableView {
	proj := shape.ProjectTable(rs)
	cells := proj.Page(page)
	if cells == nil {
		cells = [][]string{}
	}

	view := &tableView{Columns: proj.Columns, Rows: cells}
	if proj.PageCount() > 1 {
		view.Footer = fmt.Sprintf("page %d/%d, %d rows total", page+1, proj.PageCount(), proj.RowCount)
	} else if proj.RowCount > 0 {
		view.Footer = fmt.Sprintf("%d rows", proj.RowCount)
	}
	if proj.RowCount == 0 {
		view.Columns = nil
	}
	return view
}
