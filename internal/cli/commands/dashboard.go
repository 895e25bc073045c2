package commands

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/shape"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the sales dashboard in the terminal",
		Long: `Show the e-commerce sales dashboard in the terminal.

Fetches the combined dashboard payload from the backend and renders
KPI cards, the revenue trend, sales by category, top products, and
recent orders.`,
		Example: `  nlq dashboard
  nlq dashboard -o json`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	data, err := cmdCtx.Client.Dashboard(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resolveFormat(cmdCtx.Cfg.OutputFormat) == "json" {
		return renderJSON(out, data)
	}

	styles := NewStyles()
	renderKPICards(out, data.Metrics, styles)
	_, _ = fmt.Fprintln(out)

	renderRevenueTrend(out, data.RevenueTrend, styles)
	_, _ = fmt.Fprintln(out)

	renderCategorySales(out, data.SalesByCategory, styles)
	_, _ = fmt.Fprintln(out)

	renderTopProducts(out, data.TopProducts, styles)
	_, _ = fmt.Fprintln(out)

	renderRecentOrders(out, data.RecentOrders, styles)
	return nil
}

func renderKPICards(w io.Writer, m api.Metrics, styles *Styles) {
	cards := []string{
		kpiCard(styles, "Total Revenue", shape.FormatCell("total_revenue", m.TotalRevenue), m.RevenueChange),
		kpiCard(styles, "Orders", shape.FormatCell("order_count", m.TotalOrders), m.OrdersChange),
		kpiCard(styles, "Customers", shape.FormatCell("customer_count", m.TotalCustomers), m.CustomersChange),
		kpiCard(styles, "Avg Order Value", shape.FormatCell("avg_order_value", m.AvgOrderValue), 0),
	}
	_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func kpiCard(styles *Styles, label, value string, change float64) string {
	lines := []string{
		styles.Label.Render(label),
		styles.Value.Render(value),
	}
	if change != 0 {
		arrow := "▲"
		style := styles.Bar
		if change < 0 {
			arrow = "▼"
			style = styles.Error
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %.1f%%", arrow, math.Abs(change))))
	}
	return styles.Card.Render(strings.Join(lines, "\n"))
}

func renderRevenueTrend(w io.Writer, trend []api.TrendPoint, styles *Styles) {
	rows := make([]map[string]any, len(trend))
	for i, p := range trend {
		rows[i] = map[string]any{"period": p.Period, "revenue": p.Revenue}
	}
	result := &api.ResultSet{
		Data: rows,
		Columns: []api.Column{
			{Name: "period", Type: "text"},
			{Name: "revenue", Type: "numeric"},
		},
		RowCount: len(rows),
	}
	_ = renderChart(w, result, shape.ChartLine, styles)
}

func renderCategorySales(w io.Writer, sales []api.CategorySales, styles *Styles) {
	rows := make([]map[string]any, len(sales))
	for i, s := range sales {
		rows[i] = map[string]any{"category": s.Category, "sales": s.Sales}
	}
	result := &api.ResultSet{
		Data: rows,
		Columns: []api.Column{
			{Name: "category", Type: "text"},
			{Name: "sales", Type: "numeric"},
		},
		RowCount: len(rows),
	}
	_ = renderChart(w, result, shape.ChartBar, styles)
}

func renderTopProducts(w io.Writer, products []api.ProductSales, styles *Styles) {
	_, _ = fmt.Fprintln(w, styles.Title.Render("Top Products"))
	rows := make([]map[string]any, len(products))
	for i, p := range products {
		rows[i] = map[string]any{"name": p.Name, "revenue": p.Revenue, "quantity": p.Quantity}
	}
	result := &api.ResultSet{
		Data: rows,
		Columns: []api.Column{
			{Name: "name", Type: "text"},
			{Name: "revenue", Type: "numeric"},
			{Name: "quantity", Type: "integer"},
		},
		RowCount: len(rows),
	}
	_ = renderTable(w, result)
}

func renderRecentOrders(w io.Writer, orders []api.Order, styles *Styles) {
	_, _ = fmt.Fprintln(w, styles.Title.Render("Recent Orders"))
	rows := make([]map[string]any, len(orders))
	for i, o := range orders {
		rows[i] = map[string]any{
			"order_id":   o.OrderID,
			"customer":   o.Customer,
			"amount":     o.Amount,
			"status":     o.Status,
			"created_at": o.CreatedAt,
		}
	}
	result := &api.ResultSet{
		Data: rows,
		Columns: []api.Column{
			{Name: "order_id", Type: "text"},
			{Name: "customer", Type: "text"},
			{Name: "amount", Type: "numeric"},
			{Name: "status", Type: "text"},
			{Name: "created_at", Type: "text"},
		},
		RowCount: len(rows),
	}
	_ = renderTable(w, result)
}
