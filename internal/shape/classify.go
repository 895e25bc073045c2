// Package shape derives display-ready projections from query results:
// paginated tables with cosmetic value formatting, and chart series.
// Everything here is a pure function of its input.
package shape

import (
	"strconv"
	"strings"

	"github.com/msdcl/nlq-console/internal/api"
)

// Declared column types treated as numeric regardless of row values.
var numericTypes = map[string]struct{}{
	"int": {}, "integer": {}, "bigint": {}, "smallint": {}, "tinyint": {},
	"decimal": {}, "numeric": {}, "number": {}, "money": {},
	"float": {}, "double": {}, "real": {}, "double precision": {},
}

// IsNumericColumn reports whether a column is numeric: either its
// declared type is numeric, or the value in the first row under that
// column name coerces to a number. Everything else is categorical.
func IsNumericColumn(col api.Column, rows []map[string]any) bool {
	if _, ok := numericTypes[strings.ToLower(col.Type)]; ok {
		return true
	}
	if len(rows) == 0 {
		return false
	}
	_, ok := coerceNumber(rows[0][col.Name])
	return ok
}

// coerceNumber attempts to interpret a cell value as a float64.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumericColumns returns the names of all numeric columns in display order.
func NumericColumns(res *api.ResultSet) []string {
	var out []string
	for _, col := range res.Columns {
		if IsNumericColumn(col, res.Data) {
			out = append(out, col.Name)
		}
	}
	return out
}

// CategoricalColumns returns the names of all non-numeric columns in
// display order.
func CategoricalColumns(res *api.ResultSet) []string {
	var out []string
	for _, col := range res.Columns {
		if !IsNumericColumn(col, res.Data) {
			out = append(out, col.Name)
		}
	}
	return out
}
