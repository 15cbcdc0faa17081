package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	apperrors "revdiag/internal/errors"
)

// LinearModel is a fitted linear regression with intercept.
type LinearModel struct {
	Coefficients []float64
	Intercept    float64
	// Rank is the effective rank of the centered design matrix.
	Rank int
	// RSquared is the in-sample coefficient of determination; NaN when the
	// target is constant.
	RSquared float64
}

// Fit solves min |y - (Xb + c)|² over b and c. Every row of x must have the
// same length and every value must be finite.
func Fit(x [][]float64, y []float64) (*LinearModel, error) {
	n := len(y)
	if n == 0 {
		return nil, apperrors.NewModelError("no observations to fit", nil)
	}
	if len(x) != n {
		return nil, apperrors.NewModelError(fmt.Sprintf("design matrix has %d rows, target has %d", len(x), n), nil)
	}
	p := len(x[0])
	if p == 0 {
		return nil, apperrors.NewModelError("design matrix has no columns", nil)
	}
	for i, row := range x {
		if len(row) != p {
			return nil, apperrors.NewModelError(fmt.Sprintf("row %d has %d features, want %d", i, len(row), p), nil)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, apperrors.NewModelError("feature value is not finite", nil).
					WithContext("row", i).
					WithContext("feature", j)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, apperrors.NewModelError("target value is not finite", nil).
				WithContext("row", i)
		}
	}

	xMeans := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = x[i][j]
		}
		xMeans[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, p, nil)
	yc := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xc.Set(i, j, x[i][j]-xMeans[j])
		}
		yc.Set(i, 0, y[i]-yMean)
	}

	coef := make([]float64, p)
	rank := 0

	var svd mat.SVD
	if !svd.Factorize(xc, mat.SVDThin) {
		return nil, apperrors.NewModelError("singular value decomposition did not converge", nil)
	}
	rcond := math.Nextafter(1, 2) - 1
	rcond *= float64(max(n, p))
	rank = svd.Rank(rcond)

	// A zero-rank design (constant features, or a single week) leaves every
	// coefficient at zero and the intercept at the target mean.
	if rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, yc, rank)
		for j := 0; j < p; j++ {
			coef[j] = beta.At(j, 0)
		}
	}

	m := &LinearModel{
		Coefficients: coef,
		Intercept:    yMean - floats.Dot(xMeans, coef),
		Rank:         rank,
	}
	m.RSquared = m.rSquared(x, y, yMean)

	return m, nil
}

// Predict evaluates the model on one feature vector.
func (m *LinearModel) Predict(features []float64) float64 {
	return m.Intercept + floats.Dot(m.Coefficients, features)
}

func (m *LinearModel) rSquared(x [][]float64, y []float64, yMean float64) float64 {
	var ssRes, ssTot float64
	for i := range y {
		r := y[i] - m.Predict(x[i])
		ssRes += r * r
		d := y[i] - yMean
		ssTot += d * d
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}
