package model

import (
	"context"
	"log/slog"
	"math"

	"revdiag/pkg/contracts/domain"
)

// Relative error bounds outside of which a week is labeled over or under
// performing. The bounds themselves are average performance.
const (
	OverPerformedThreshold  = 0.025
	UnderPerformedThreshold = -0.025
)

// PercentError is the signed error of actual relative to predicted. A zero
// prediction yields ±Inf or NaN.
func PercentError(actual, predicted float64) float64 {
	return (actual - predicted) / predicted
}

// Classify labels a week from its percent error.
func Classify(pctError float64) domain.Performance {
	switch {
	case pctError > OverPerformedThreshold:
		return domain.OverPerformed
	case pctError < UnderPerformedThreshold:
		return domain.UnderPerformed
	default:
		return domain.AveragePerformance
	}
}

// FitWeekly fits the revenue model on the weekly feature table and fills in
// each week's prediction, errors and performance label. The fit is logged
// to logger, or to slog.Default when nil.
func FitWeekly(ctx context.Context, weeks []domain.WeeklySummary, logger *slog.Logger) (*LinearModel, error) {
	if logger == nil {
		logger = slog.Default()
	}

	x := make([][]float64, len(weeks))
	y := make([]float64, len(weeks))
	for i := range weeks {
		x[i] = weeks[i].Features.Vector()
		y[i] = weeks[i].TotalPayments
	}

	m, err := Fit(x, y)
	if err != nil {
		return nil, err
	}

	for i := range weeks {
		w := &weeks[i]
		w.PredictedPayments = m.Predict(x[i])
		w.PctError = PercentError(w.TotalPayments, w.PredictedPayments)
		w.AbsoluteError = math.Abs(w.PctError)
		w.Performance = Classify(w.PctError)
	}

	attrs := []any{
		slog.Int("weeks", len(weeks)),
		slog.Int("rank", m.Rank),
		slog.Float64("intercept", m.Intercept),
		slog.Float64("r_squared", m.RSquared),
	}
	for j, name := range domain.FeatureColumns {
		attrs = append(attrs, slog.Float64("coef."+name, m.Coefficients[j]))
	}
	logger.InfoContext(ctx, "Revenue model fitted", attrs...)

	return m, nil
}
