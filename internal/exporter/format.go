package exporter

import (
	"fmt"
	"strconv"
)

// formatCell renders a table cell for CSV output. Floats keep full precision
// so the CSV matches the workbook.
func formatCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
