package exporter

import (
	"math"

	"revdiag/pkg/contracts/domain"
)

// Table is the weekly output in column order, ready for any writer.
// Cells hold int, float64, string or nil (empty).
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

// WeeklyHeaders returns the output column titles. Payer analysis columns come
// last, in the given order.
func WeeklyHeaders(payerTitles []string) []string {
	headers := []string{domain.ColYear, domain.ColWeek, domain.ColTotalPayments}
	headers = append(headers, domain.FeatureColumns...)
	headers = append(headers,
		domain.ColPredictedPayments,
		domain.ColPctError,
		domain.ColAbsoluteError,
		domain.ColPerformanceDiagnostic,
		domain.ColWhatWentWell,
		domain.ColWhatCanBeImproved,
	)
	return append(headers, payerTitles...)
}

// BuildWeeklyTable lays out one row per week. A week whose diagnostics lack
// a payer column gets "null" in it.
func BuildWeeklyTable(weeks []domain.WeeklySummary, payerTitles []string) *Table {
	t := &Table{Headers: WeeklyHeaders(payerTitles)}

	for _, w := range weeks {
		row := []interface{}{w.Key.Year, w.Key.Week, numberCell(w.TotalPayments)}
		for _, v := range w.Features.Vector() {
			row = append(row, numberCell(v))
		}
		row = append(row,
			numberCell(w.PredictedPayments),
			numberCell(w.PctError),
			numberCell(w.AbsoluteError),
			string(w.Performance),
			textCell(w.Diagnostics.WentWell),
			textCell(w.Diagnostics.CanImprove),
		)

		byTitle := make(map[string]string, len(w.Diagnostics.Payers))
		for _, p := range w.Diagnostics.Payers {
			byTitle[p.Title] = p.Text
		}
		for _, title := range payerTitles {
			row = append(row, textCell(byTitle[title]))
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

// numberCell maps NaN to an empty cell and infinities to "inf"/"-inf".
func numberCell(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return v
}

func textCell(s string) string {
	if s == "" {
		return domain.NullDiagnostic
	}
	return s
}
