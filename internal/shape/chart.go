package shape

import (
	"fmt"

	"github.com/msdcl/nlq-console/internal/api"
)

// ChartKind selects the chart projection shape.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// NoNumericDataMessage reports why a chart projection is empty.
const NoNumericDataMessage = "no numeric data available"

// Point is one category/value pair of a chart series.
type Point struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// ChartProjection is a display-ready chart series. When the result has
// no numeric column, NoNumericData is set and Points is empty.
type ChartProjection struct {
	Kind           ChartKind `json:"kind"`
	ValueColumn    string    `json:"valueColumn"`
	CategoryColumn string    `json:"categoryColumn"`
	Points         []Point   `json:"points"`
	NoNumericData  bool      `json:"noNumericData"`
}

// ProjectChart selects the first numeric column as the value axis and
// the first categorical column (or the row index when none exists) as
// the category axis. Pie charts sum values per category key.
func ProjectChart(res *api.ResultSet, kind ChartKind) *ChartProjection {
	p := &ChartProjection{Kind: kind}

	numeric := NumericColumns(res)
	if len(numeric) == 0 {
		p.NoNumericData = true
		return p
	}
	p.ValueColumn = numeric[0]

	categorical := CategoricalColumns(res)
	if len(categorical) > 0 {
		p.CategoryColumn = categorical[0]
	}

	for i, row := range res.Data {
		category := fmt.Sprintf("%d", i)
		if p.CategoryColumn != "" {
			if v, ok := row[p.CategoryColumn]; ok && v != nil {
				category = fmt.Sprintf("%v", v)
			}
		}
		value, _ := coerceNumber(row[p.ValueColumn])
		p.Points = append(p.Points, Point{Category: category, Value: value})
	}

	if kind == ChartPie {
		p.Points = sumByCategory(p.Points)
	}
	return p
}

// sumByCategory collapses points sharing a category key, preserving
// first-seen order.
func sumByCategory(points []Point) []Point {
	index := make(map[string]int, len(points))
	var out []Point
	for _, pt := range points {
		if i, ok := index[pt.Category]; ok {
			out[i].Value += pt.Value
			continue
		}
		index[pt.Category] = len(out)
		out = append(out, pt)
	}
	return out
}
