package shape

import (
	"fmt"
	"io"
	"strings"

	"github.com/msdcl/nlq-console/internal/api"
)

// WriteCSV writes the result as CSV with raw (unformatted) cell values.
// Embedded commas, quotes and newlines are escaped per standard CSV
// quoting.
func WriteCSV(w io.Writer, res *api.ResultSet) error {
	names := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		names[i] = escapeCSV(col.Name)
	}
	if _, err := fmt.Fprintln(w, strings.Join(names, ",")); err != nil {
		return err
	}

	for _, row := range res.Data {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = escapeCSV(rawValue(row[col.Name]))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}

func rawValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
