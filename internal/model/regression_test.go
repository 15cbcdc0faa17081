package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "revdiag/internal/errors"
)

func TestFit_ExactLinearRelation(t *testing.T) {
	x := [][]float64{
		{1, 4},
		{2, 1},
		{3, 7},
		{4, 2},
		{5, 5},
	}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 3 + 2*row[0] - row[1]
	}

	m, err := Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rank)
	assert.InDelta(t, 3.0, m.Intercept, 1e-9)
	assert.InDelta(t, 2.0, m.Coefficients[0], 1e-9)
	assert.InDelta(t, -1.0, m.Coefficients[1], 1e-9)
	assert.InDelta(t, 1.0, m.RSquared, 1e-9)
	assert.InDelta(t, 3+2*10-1.0, m.Predict([]float64{10, 1}), 1e-9)
}

func TestFit_LeastSquaresWithNoise(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []float64{1, 0, 1, 4}

	m, err := Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Coefficients[0], 1e-9)
	assert.InDelta(t, 0.0, m.Intercept, 1e-9)
	// Residuals are 1, -1, -1, 1 against a total sum of squares of 9.
	assert.InDelta(t, 5.0/9.0, m.RSquared, 1e-9)
}

func TestFit_RankDeficientUsesMinimumNorm(t *testing.T) {
	// Identical columns: the minimum-norm solution splits the weight evenly.
	x := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	y := []float64{2, 4, 6}

	m, err := Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Rank)
	assert.InDelta(t, 1.0, m.Coefficients[0], 1e-9)
	assert.InDelta(t, 1.0, m.Coefficients[1], 1e-9)
	assert.InDelta(t, 0.0, m.Intercept, 1e-9)
}

func TestFit_FewerRowsThanFeatures(t *testing.T) {
	x := [][]float64{
		{0.1, 120, 2.5, 300, 0.9, 40, 0.2},
		{0.2, 110, 2.7, 280, 0.8, 35, 0.3},
	}
	y := []float64{5000, 4200}

	m, err := Fit(x, y)
	require.NoError(t, err)

	for i := range x {
		assert.InDelta(t, y[i], m.Predict(x[i]), 1e-6)
	}
}

func TestFit_SingleObservation(t *testing.T) {
	m, err := Fit([][]float64{{1, 2, 3}}, []float64{1000})
	require.NoError(t, err)

	assert.Equal(t, 0, m.Rank)
	assert.Equal(t, []float64{0, 0, 0}, m.Coefficients)
	assert.Equal(t, 1000.0, m.Predict([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(m.RSquared))
}

func TestFit_Errors(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []float64
	}{
		{name: "no observations", x: nil, y: nil},
		{name: "row count mismatch", x: [][]float64{{1}}, y: []float64{1, 2}},
		{name: "ragged rows", x: [][]float64{{1, 2}, {1}}, y: []float64{1, 2}},
		{name: "nan feature", x: [][]float64{{1}, {math.NaN()}}, y: []float64{1, 2}},
		{name: "infinite target", x: [][]float64{{1}, {2}}, y: []float64{1, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.y)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeModel))
		})
	}
}
