package analysis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitPerfectLine(t *testing.T) {
	res, err := Fit([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Slope, 1e-12)
	assert.InDelta(t, 0.0, res.Intercept, 1e-12)
	assert.InDelta(t, 1.0, res.RSquared, 1e-12)
	assert.Equal(t, 3, res.N)
	assert.InDelta(t, 8.0, res.Predict(4), 1e-12)
}

func TestFitZeroXVarianceIsDegenerate(t *testing.T) {
	_, err := Fit([]float64{1, 1, 1}, []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerate))
	var de *DegenerateError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Reason, "zero variance")
	assert.Contains(t, err.Error(), "degenerate regression input")
}

func TestFitRejectsBadShapes(t *testing.T) {
	cases := map[string][2][]float64{
		"mismatch":   {{1, 2}, {1}},
		"one point":  {{1}, {1}},
		"empty":      {nil, nil},
		"nan":        {{1, math.NaN()}, {1, 2}},
		"infinite y": {{1, 2}, {1, math.Inf(1)}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Fit(c[0], c[1])
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

func TestFitIsIdempotent(t *testing.T) {
	x := []float64{41.2, 38.5, 52.1, 47.9, 60.3}
	y := []float64{44.0, 36.1, 55.6, 45.2, 58.8}
	a, err := Fit(x, y)
	require.NoError(t, err)
	b, err := Fit(x, y)
	require.NoError(t, err)
	assert.InDelta(t, a.Slope, b.Slope, 1e-12)
	assert.InDelta(t, a.Intercept, b.Intercept, 1e-12)
	assert.InDelta(t, a.RSquared, b.RSquared, 1e-12)
}

func TestFitUncorrelatedHasLowRSquared(t *testing.T) {
	// Covariance of x and y is exactly zero here.
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{1, -1, -1, 1, 1, -1, -1, 1}
	res, err := Fit(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Slope, 1e-12)
	assert.InDelta(t, 0.0, res.RSquared, 1e-12)

	rng := rand.New(rand.NewSource(42))
	n := 2000
	x, y = make([]float64, n), make([]float64, n)
	for i := range x {
		x[i] = rng.Float64() * 50
		y[i] = rng.Float64() * 50
	}
	res, err = Fit(x, y)
	require.NoError(t, err)
	assert.Less(t, res.RSquared, 0.01)
}

func TestFitMatchesClosedForm(t *testing.T) {
	x := []float64{35, 40, 45, 50, 55, 60}
	y := []float64{37, 41, 44, 52, 53, 63}
	res, err := Fit(x, y)
	require.NoError(t, err)

	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	var sxy, sxx, sst, ssr float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
	}
	slope := sxy / sxx
	intercept := my - slope*mx
	for i := range x {
		d := y[i] - (slope*x[i] + intercept)
		ssr += d * d
		sst += (y[i] - my) * (y[i] - my)
	}
	assert.InDelta(t, slope, res.Slope, 1e-9)
	assert.InDelta(t, intercept, res.Intercept, 1e-9)
	assert.InDelta(t, 1-ssr/sst, res.RSquared, 1e-9)
}

func TestFitConstantY(t *testing.T) {
	res, err := Fit([]float64{1, 2, 3}, []float64{5, 5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Slope, 1e-12)
	assert.Equal(t, 1.0, res.RSquared)
	assert.False(t, math.IsNaN(res.RSquared))
}

func TestFitSeries(t *testing.T) {
	agg := &Aggregate{
		Series: []Series{{Name: "carlson"}, {Name: "vollen"}},
		Sites: []SiteSummary{
			{Site: "A", Metrics: map[string]NumSummary{"carlson": {Mean: 1}, "vollen": {Mean: 2}}},
			{Site: "B", Metrics: map[string]NumSummary{"carlson": {Mean: 2}, "vollen": {Mean: 4}}},
			{Site: "C", Metrics: map[string]NumSummary{"carlson": {Mean: 3}, "vollen": {Mean: 6}}},
		},
	}
	res, err := FitSeries(agg, "carlson", "vollen")
	require.NoError(t, err)
	assert.Equal(t, "carlson", res.XSeries)
	assert.Equal(t, "vollen", res.YSeries)
	assert.InDelta(t, 2.0, res.Slope, 1e-12)
	assert.Equal(t, "y = 2.00x + 0.00", res.Equation())

	_, err = FitSeries(agg, "tp", "vollen")
	assert.Error(t, err)

	_, err = FitSeries(&Aggregate{Series: agg.Series, Sites: agg.Sites[:1]}, "carlson", "vollen")
	assert.ErrorIs(t, err, ErrDegenerate)
}
