package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revdiag/pkg/contracts/domain"
)

func record(row, year, week int, payer string, visits, labs, payments float64) domain.VisitRecord {
	return domain.VisitRecord{
		Row:                row,
		Year:               year,
		Week:               week,
		Payer:              payer,
		CodeGroup:          "G1",
		VisitCount:         visits,
		VisitsWithLabCount: labs,
		TotalPayments:      payments,
		PctOfTotalPayments: payments / 1000,
		AvgPaymentPerVisit: payments / 10,
		AvgChartWeight:     2,
		ChargeAmount:       payments * 2,
		CollectionPct:      0.5,
	}
}

func TestDeriveFeatures(t *testing.T) {
	records := []domain.VisitRecord{
		record(2, 2024, 1, "A", 4, 1, 100),
		record(3, 2024, 1, "B", 0, 0, 0),
	}

	DeriveFeatures(records)

	assert.Equal(t, 0.25, records[0].PctVisitsWithLabs)
	assert.True(t, math.IsNaN(records[1].PctVisitsWithLabs))
}

func TestGroupByWeek(t *testing.T) {
	records := []domain.VisitRecord{
		record(2, 2024, 19, "A", 1, 0, 10),
		record(3, 2023, 52, "B", 1, 0, 20),
		record(4, 2024, 2, "C", 1, 0, 30),
		record(5, 2024, 19, "D", 1, 0, 40),
	}

	groups := GroupByWeek(records)
	require.Len(t, groups, 3)

	assert.Equal(t, domain.WeekKey{Year: 2023, Week: 52}, groups[0].Key)
	assert.Equal(t, domain.WeekKey{Year: 2024, Week: 2}, groups[1].Key)
	assert.Equal(t, domain.WeekKey{Year: 2024, Week: 19}, groups[2].Key)

	require.Len(t, groups[2].Records, 2)
	assert.Equal(t, "A", groups[2].Records[0].Payer)
	assert.Equal(t, "D", groups[2].Records[1].Payer)

	// Groups point into the original slice.
	groups[0].Records[0].Payer = "changed"
	assert.Equal(t, "changed", records[1].Payer)
}

func TestAggregateWeekly(t *testing.T) {
	records := []domain.VisitRecord{
		record(2, 2024, 1, "A", 4, 2, 100),
		record(3, 2024, 1, "B", 0, 0, 300),
		record(4, 2024, 2, "A", 10, 5, 50),
	}
	DeriveFeatures(records)

	weeks := AggregateWeekly(GroupByWeek(records))
	require.Len(t, weeks, 2)

	w := weeks[0]
	assert.Equal(t, domain.WeekKey{Year: 2024, Week: 1}, w.Key)
	assert.Equal(t, 2, w.Rows)
	assert.Equal(t, 400.0, w.TotalPayments)
	assert.InDelta(t, 0.2, w.Features.PctOfTotalPayments, 1e-12)
	assert.InDelta(t, 20.0, w.Features.AvgPaymentPerVisit, 1e-12)
	assert.InDelta(t, 2.0, w.Features.AvgChartWeight, 1e-12)
	assert.InDelta(t, 400.0, w.Features.ChargeAmount, 1e-12)
	assert.InDelta(t, 0.5, w.Features.CollectionPct, 1e-12)
	assert.Equal(t, 4.0, w.Features.VisitCount)
	// The zero-visit row is skipped.
	assert.InDelta(t, 0.5, w.Features.PctVisitsWithLabs, 1e-12)

	assert.Equal(t, 50.0, weeks[1].TotalPayments)
	assert.Equal(t, 10.0, weeks[1].Features.VisitCount)
}

func TestAggregateWeeklyAllNaNLabs(t *testing.T) {
	records := []domain.VisitRecord{record(2, 2024, 1, "A", 0, 0, 10)}
	DeriveFeatures(records)

	weeks := AggregateWeekly(GroupByWeek(records))
	require.Len(t, weeks, 1)
	assert.True(t, math.IsNaN(weeks[0].Features.PctVisitsWithLabs))
}

func TestNanMean(t *testing.T) {
	assert.Equal(t, 2.0, nanMean([]float64{1, math.NaN(), 3}))
	assert.True(t, math.IsNaN(nanMean([]float64{math.NaN()})))
	assert.True(t, math.IsNaN(nanMean(nil)))
}
