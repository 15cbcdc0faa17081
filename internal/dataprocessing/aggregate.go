package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"revdiag/pkg/contracts/domain"
)

// WeekGroup is the set of records belonging to one week, in original row order.
type WeekGroup struct {
	Key     domain.WeekKey
	Records []*domain.VisitRecord
}

// GroupByWeek partitions records by (year, week). Groups are sorted by key
// and keep the original row order inside each group.
func GroupByWeek(records []domain.VisitRecord) []WeekGroup {
	index := make(map[domain.WeekKey]int)
	var groups []WeekGroup

	for i := range records {
		key := records[i].Key()
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, WeekGroup{Key: key})
		}
		groups[pos].Records = append(groups[pos].Records, &records[i])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key.Less(groups[j].Key)
	})
	return groups
}

// AggregateWeekly builds one summary per week: total payments and visit count
// are summed, the other features are averaged over the week's rows.
func AggregateWeekly(groups []WeekGroup) []domain.WeeklySummary {
	summaries := make([]domain.WeeklySummary, 0, len(groups))

	for _, g := range groups {
		column := func(get func(*domain.VisitRecord) float64) []float64 {
			values := make([]float64, len(g.Records))
			for i, r := range g.Records {
				values[i] = get(r)
			}
			return values
		}

		summaries = append(summaries, domain.WeeklySummary{
			Key:           g.Key,
			Rows:          len(g.Records),
			TotalPayments: floats.Sum(column(func(r *domain.VisitRecord) float64 { return r.TotalPayments })),
			Features: domain.WeeklyFeatures{
				PctOfTotalPayments: stat.Mean(column(func(r *domain.VisitRecord) float64 { return r.PctOfTotalPayments }), nil),
				AvgPaymentPerVisit: stat.Mean(column(func(r *domain.VisitRecord) float64 { return r.AvgPaymentPerVisit }), nil),
				AvgChartWeight:     stat.Mean(column(func(r *domain.VisitRecord) float64 { return r.AvgChartWeight }), nil),
				ChargeAmount:       stat.Mean(column(func(r *domain.VisitRecord) float64 { return r.ChargeAmount }), nil),
				CollectionPct:      stat.Mean(column(func(r *domain.VisitRecord) float64 { return r.CollectionPct }), nil),
				VisitCount:         floats.Sum(column(func(r *domain.VisitRecord) float64 { return r.VisitCount })),
				PctVisitsWithLabs:  nanMean(column(func(r *domain.VisitRecord) float64 { return r.PctVisitsWithLabs })),
			},
		})
	}

	return summaries
}

// nanMean averages the non-NaN values; it is NaN when there are none.
func nanMean(values []float64) float64 {
	kept := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}
