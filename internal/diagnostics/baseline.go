package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"revdiag/pkg/contracts/domain"
)

// ComputeBaselines averages each metric per (payer, code group) over all
// records, regardless of week.
func ComputeBaselines(records []domain.VisitRecord, metrics []domain.Metric) map[domain.GroupKey]*domain.Baseline {
	values := make(map[domain.GroupKey]map[domain.Metric][]float64)

	for i := range records {
		r := &records[i]
		key := r.GroupKey()
		byMetric, ok := values[key]
		if !ok {
			byMetric = make(map[domain.Metric][]float64, len(metrics))
			values[key] = byMetric
		}
		for _, m := range metrics {
			byMetric[m] = append(byMetric[m], r.Value(m))
		}
	}

	baselines := make(map[domain.GroupKey]*domain.Baseline, len(values))
	for key, byMetric := range values {
		b := &domain.Baseline{Key: key, Means: make(map[domain.Metric]float64, len(metrics))}
		for _, m := range metrics {
			b.Means[m] = stat.Mean(byMetric[m], nil)
			b.Rows = len(byMetric[m])
		}
		baselines[key] = b
	}
	return baselines
}

// Compare computes baselines from records and attaches to every record its
// value, baseline and deviation for each metric. Records whose group has no
// baseline get NaN baselines and deviations.
func Compare(records []domain.VisitRecord, metrics []domain.Metric) map[domain.GroupKey]*domain.Baseline {
	baselines := ComputeBaselines(records, metrics)
	Attach(records, baselines, metrics)
	return baselines
}

// Attach joins each record to the baseline of its own group.
func Attach(records []domain.VisitRecord, baselines map[domain.GroupKey]*domain.Baseline, metrics []domain.Metric) {
	for i := range records {
		r := &records[i]
		b := baselines[r.GroupKey()]

		r.Comparisons = make(map[domain.Metric]domain.MetricComparison, len(metrics))
		for _, m := range metrics {
			value := r.Value(m)
			baseline := math.NaN()
			if b != nil {
				if mean, ok := b.Means[m]; ok {
					baseline = mean
				}
			}
			r.Comparisons[m] = domain.MetricComparison{
				Value:     value,
				Baseline:  baseline,
				Deviation: value - baseline,
			}
		}
	}
}
