package domain

import (
	"fmt"
	"math"
)

// Input column titles of the weekly performance export.
const (
	ColYear               = "Year"
	ColWeek               = "Week"
	ColPayer              = "Payer"
	ColCodeGroup          = "Group E/M codes"
	ColVisitCount         = "Visit Count"
	ColVisitsWithLabCount = "Visits With Lab Count"
	ColTotalPayments      = "Total Payments"
	ColPctOfTotalPayments = "% of Total Payments"
	ColAvgPaymentPerVisit = "Avg. Payment Per Visit"
	ColAvgChartWeight     = "Avg. Chart E/M Weight"
	ColChargeAmount       = "Charge Amount"
	ColCollectionPct      = "Collection %"

	// ColPctVisitsWithLabs is the derived lab-visit fraction.
	ColPctVisitsWithLabs = "pct_visits_with_labs"
)

// RequiredColumns is the fixed column set every export must carry.
var RequiredColumns = []string{
	ColYear,
	ColWeek,
	ColPayer,
	ColCodeGroup,
	ColVisitCount,
	ColVisitsWithLabCount,
	ColTotalPayments,
	ColPctOfTotalPayments,
	ColAvgPaymentPerVisit,
	ColAvgChartWeight,
	ColChargeAmount,
	ColCollectionPct,
}

// Metric names a per-row figure that diagnostics compare against its
// (payer, code group) baseline.
type Metric string

const (
	MetricAvgPaymentPerVisit Metric = ColAvgPaymentPerVisit
	MetricChargeAmount       Metric = ColChargeAmount
	MetricCollectionPct      Metric = ColCollectionPct
	MetricVisitCount         Metric = ColVisitCount
)

// DiagnosticMetrics lists the compared metrics in reporting order.
var DiagnosticMetrics = []Metric{
	MetricAvgPaymentPerVisit,
	MetricChargeAmount,
	MetricCollectionPct,
	MetricVisitCount,
}

// MetricComparison holds one metric of a record next to its baseline.
type MetricComparison struct {
	Value     float64
	Baseline  float64
	Deviation float64
}

// VisitRecord is one visit/payer/billing-code row of the export.
// Loaded fields are never modified; derived and comparison fields are
// filled in by later stages.
type VisitRecord struct {
	// Row is the 1-based worksheet row the record was read from.
	Row int `json:"row"`

	Year               int     `json:"year"`
	Week               int     `json:"week"`
	Payer              string  `json:"payer"`
	CodeGroup          string  `json:"code_group"`
	VisitCount         float64 `json:"visit_count"`
	VisitsWithLabCount float64 `json:"visits_with_lab_count"`
	TotalPayments      float64 `json:"total_payments"`
	PctOfTotalPayments float64 `json:"pct_of_total_payments"`
	AvgPaymentPerVisit float64 `json:"avg_payment_per_visit"`
	AvgChartWeight     float64 `json:"avg_chart_weight"`
	ChargeAmount       float64 `json:"charge_amount"`
	CollectionPct      float64 `json:"collection_pct"`

	// PctVisitsWithLabs is NaN when the record has no visits.
	PctVisitsWithLabs float64 `json:"pct_visits_with_labs"`

	Comparisons map[Metric]MetricComparison `json:"comparisons,omitempty"`
}

// Key returns the week the record belongs to.
func (r *VisitRecord) Key() WeekKey {
	return WeekKey{Year: r.Year, Week: r.Week}
}

// GroupKey returns the (payer, code group) pair used for baselines.
func (r *VisitRecord) GroupKey() GroupKey {
	return GroupKey{Payer: r.Payer, CodeGroup: r.CodeGroup}
}

// Value returns the raw value of a diagnostic metric.
func (r *VisitRecord) Value(m Metric) float64 {
	switch m {
	case MetricAvgPaymentPerVisit:
		return r.AvgPaymentPerVisit
	case MetricChargeAmount:
		return r.ChargeAmount
	case MetricCollectionPct:
		return r.CollectionPct
	case MetricVisitCount:
		return r.VisitCount
	}
	return math.NaN()
}

// Comparison returns the metric comparison, or NaN baseline and deviation
// when the record was never compared.
func (r *VisitRecord) Comparison(m Metric) MetricComparison {
	if c, ok := r.Comparisons[m]; ok {
		return c
	}
	return MetricComparison{Value: r.Value(m), Baseline: math.NaN(), Deviation: math.NaN()}
}

// GroupKey identifies a payer and billing-code group combination.
type GroupKey struct {
	Payer     string
	CodeGroup string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s - %s", k.Payer, k.CodeGroup)
}

// Baseline is the all-weeks mean of each diagnostic metric for one group.
type Baseline struct {
	Key   GroupKey
	Means map[Metric]float64
	Rows  int
}
