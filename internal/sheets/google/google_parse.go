package google

import (
	"fmt"
	"strings"

	ports "keuangan/internal/sheets"
)

// recordsFromValues converts a values matrix (as returned by the Sheets
// API) into raw records. Short rows are padded with empty cells. Blank
// rows are kept so record indexes keep lining up with sheet positions.
// Cell contents are kept verbatim; parsing and coercion happen in the
// repository.
func recordsFromValues(values [][]interface{}) []ports.Record {
	out := make([]ports.Record, 0, len(values))
	for _, row := range values {
		cols := toStrings(row)
		out = append(out, ports.Record{
			User:     safeGet(cols, 0),
			Date:     safeGet(cols, 1),
			Type:     safeGet(cols, 2),
			Category: safeGet(cols, 3),
			Amount:   safeGet(cols, 4),
			Notes:    safeGet(cols, 5),
		})
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
