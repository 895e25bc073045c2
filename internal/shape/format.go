package shape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullPlaceholder renders for null/undefined cells.
const NullPlaceholder = "-"

// Column-name substring rules, first match wins. A column named
// "quantity_rate" therefore formats as a percentage, because the rate
// rule is checked first.
var (
	percentHints  = []string{"rate", "percentage", "conversion"}
	currencyHints = []string{"amount", "price", "revenue", "sales", "value"}
	countHints    = []string{"count", "quantity"}
)

func nameContainsAny(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// FormatCell renders one cell for display. Numeric values are formatted
// by a deterministic rule keyed on the column name; non-numeric values
// render as-is; nil renders as a placeholder dash.
func FormatCell(columnName string, v any) string {
	if v == nil {
		return NullPlaceholder
	}

	f, ok := coerceNumber(v)
	if !ok {
		return fmt.Sprintf("%v", v)
	}

	switch {
	case nameContainsAny(columnName, percentHints):
		return strconv.FormatFloat(f, 'f', 2, 64) + "%"
	case nameContainsAny(columnName, currencyHints):
		return "$" + groupThousands(f, 2)
	case nameContainsAny(columnName, countHints):
		return groupThousands(math.Round(f), 0)
	default:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

// groupThousands renders f with the given number of decimals and comma
// separators in the integer part.
func groupThousands(f float64, decimals int) string {
	s := strconv.FormatFloat(f, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
