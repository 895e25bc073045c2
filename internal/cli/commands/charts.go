package commands

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/shape"
)

const (
	chartBarWidth   = 40
	chartLineHeight = 10
	maxChartLabel   = 20
)

// renderChart renders a terminal chart for the result set. Falls back
// to a message when no numeric column exists.
func renderChart(w io.Writer, result *api.ResultSet, kind shape.ChartKind, styles *Styles) error {
	if result == nil {
		_, _ = fmt.Fprintln(w, styles.Muted.Render(shape.NoNumericDataMessage))
		return nil
	}
	proj := shape.ProjectChart(result, kind)
	if proj.NoNumericData {
		_, _ = fmt.Fprintln(w, styles.Muted.Render(shape.NoNumericDataMessage))
		return nil
	}

	switch kind {
	case shape.ChartLine:
		return renderLineChart(w, proj, styles)
	case shape.ChartPie:
		return renderPieChart(w, proj, styles)
	default:
		return renderBarChart(w, proj, styles)
	}
}

func renderBarChart(w io.Writer, proj *shape.ChartProjection, styles *Styles) error {
	_, _ = fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%s by %s", proj.ValueColumn, proj.CategoryColumn)))

	// Bars are scaled by magnitude so mixed-sign series still render.
	maxValue := 0.0
	labelWidth := 0
	for _, p := range proj.Points {
		if v := math.Abs(p.Value); v > maxValue {
			maxValue = v
		}
		if n := labelLen(truncateLabel(p.Category)); n > labelWidth {
			labelWidth = n
		}
	}

	for _, p := range proj.Points {
		width := 0
		if maxValue > 0 {
			width = int(math.Round(math.Abs(p.Value) / maxValue * chartBarWidth))
		}
		bar := styles.Bar.Render(strings.Repeat("█", width))
		label := fmt.Sprintf("%-*s", labelWidth, truncateLabel(p.Category))
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			styles.Label.Render(label),
			bar,
			styles.Value.Render(shape.FormatCell(proj.ValueColumn, p.Value)))
	}
	return nil
}

func renderLineChart(w io.Writer, proj *shape.ChartProjection, styles *Styles) error {
	_, _ = fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%s over %s", proj.ValueColumn, proj.CategoryColumn)))

	if len(proj.Points) == 0 {
		_, _ = fmt.Fprintln(w, "(no data)")
		return nil
	}

	minValue := proj.Points[0].Value
	maxValue := proj.Points[0].Value
	for _, p := range proj.Points {
		if p.Value < minValue {
			minValue = p.Value
		}
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}
	span := maxValue - minValue

	// One column per point, scaled to chartLineHeight rows.
	levels := make([]int, len(proj.Points))
	for i, p := range proj.Points {
		if span == 0 {
			levels[i] = chartLineHeight / 2
			continue
		}
		levels[i] = int(math.Round((p.Value - minValue) / span * float64(chartLineHeight-1)))
	}

	for row := chartLineHeight - 1; row >= 0; row-- {
		var sb strings.Builder
		for _, level := range levels {
			switch {
			case level == row:
				sb.WriteString("●")
			case level > row:
				sb.WriteString("│")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(" ")
		}
		_, _ = fmt.Fprintln(w, styles.Bar.Render(sb.String()))
	}

	_, _ = fmt.Fprintf(w, "%s  min %s  max %s\n",
		styles.Label.Render(fmt.Sprintf("%d points", len(proj.Points))),
		styles.Value.Render(shape.FormatCell(proj.ValueColumn, minValue)),
		styles.Value.Render(shape.FormatCell(proj.ValueColumn, maxValue)))
	return nil
}

func renderPieChart(w io.Writer, proj *shape.ChartProjection, styles *Styles) error {
	_, _ = fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%s by %s", proj.ValueColumn, proj.CategoryColumn)))

	total := 0.0
	labelWidth := 0
	for _, p := range proj.Points {
		total += p.Value
		if n := labelLen(truncateLabel(p.Category)); n > labelWidth {
			labelWidth = n
		}
	}

	for _, p := range proj.Points {
		pct := 0.0
		if total > 0 {
			pct = p.Value / total * 100
		}
		// A negative share has no slice to draw.
		width := max(int(math.Round(pct/100*chartBarWidth)), 0)
		bar := styles.Bar.Render(strings.Repeat("▆", width))
		label := fmt.Sprintf("%-*s", labelWidth, truncateLabel(p.Category))
		_, _ = fmt.Fprintf(w, "%s %s %s (%.1f%%)\n",
			styles.Label.Render(label),
			bar,
			styles.Value.Render(shape.FormatCell(proj.ValueColumn, p.Value)),
			pct)
	}
	return nil
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= maxChartLabel {
		return s
	}
	return string(runes[:maxChartLabel-3]) + "..."
}

func labelLen(s string) int {
	return utf8.RuneCountInString(s)
}
