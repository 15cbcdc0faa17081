package domain

import "fmt"

// WeekKey identifies a reporting week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Less orders weeks by year, then week number.
func (k WeekKey) Less(o WeekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// Performance is the label a week receives after comparing actual to
// predicted payments.
type Performance string

const (
	OverPerformed      Performance = "Over Performed"
	UnderPerformed     Performance = "Under Performed"
	AveragePerformance Performance = "Average Performance"
)

// Output column titles added to the weekly table.
const (
	ColPredictedPayments     = "Predicted Payments"
	ColPctError              = "% Error"
	ColAbsoluteError         = "Absolute Error"
	ColPerformanceDiagnostic = "Performance Diagnostic"
	ColWhatWentWell          = "What Went Well"
	ColWhatCanBeImproved     = "What Can Be Improved"
)

// NullDiagnostic is written when a diagnostic field has nothing to report.
const NullDiagnostic = "null"

// FeatureColumns is the order of the regression features, which is also
// their order in the output table.
var FeatureColumns = []string{
	ColPctOfTotalPayments,
	ColAvgPaymentPerVisit,
	ColAvgChartWeight,
	ColChargeAmount,
	ColCollectionPct,
	ColVisitCount,
	ColPctVisitsWithLabs,
}

// WeeklyFeatures are the per-week regression inputs. Visit count is a sum,
// everything else a mean over the week's rows.
type WeeklyFeatures struct {
	PctOfTotalPayments float64 `json:"pct_of_total_payments"`
	AvgPaymentPerVisit float64 `json:"avg_payment_per_visit"`
	AvgChartWeight     float64 `json:"avg_chart_weight"`
	ChargeAmount       float64 `json:"charge_amount"`
	CollectionPct      float64 `json:"collection_pct"`
	VisitCount         float64 `json:"visit_count"`
	PctVisitsWithLabs  float64 `json:"pct_visits_with_labs"`
}

// Vector returns the features in FeatureColumns order.
func (f WeeklyFeatures) Vector() []float64 {
	return []float64{
		f.PctOfTotalPayments,
		f.AvgPaymentPerVisit,
		f.AvgChartWeight,
		f.ChargeAmount,
		f.CollectionPct,
		f.VisitCount,
		f.PctVisitsWithLabs,
	}
}

// PayerDiagnostic is the text of one payer-specific analysis column.
type PayerDiagnostic struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// WeeklyDiagnostics holds the explanatory text fields of one week.
type WeeklyDiagnostics struct {
	WentWell   string            `json:"what_went_well"`
	CanImprove string            `json:"what_can_be_improved"`
	Payers     []PayerDiagnostic `json:"payers"`
}

// WeeklySummary is one row of the output table.
type WeeklySummary struct {
	Key           WeekKey        `json:"key"`
	Rows          int            `json:"rows"`
	TotalPayments float64        `json:"total_payments"`
	Features      WeeklyFeatures `json:"features"`

	PredictedPayments float64     `json:"predicted_payments"`
	PctError          float64     `json:"pct_error"`
	AbsoluteError     float64     `json:"absolute_error"`
	Performance       Performance `json:"performance"`

	Diagnostics WeeklyDiagnostics `json:"diagnostics"`
}
