package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerate is matched by every DegenerateError via errors.Is.
var ErrDegenerate = errors.New("degenerate regression input")

// DegenerateError reports input a least-squares line cannot be fitted to.
type DegenerateError struct {
	Reason string
	N      int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate regression input: %s (n=%d)", e.Reason, e.N)
}

func (e *DegenerateError) Is(target error) bool { return target == ErrDegenerate }

// FitResult is an in-sample, descriptive line fit y = Slope*x + Intercept.
type FitResult struct {
	XSeries   string  `json:"x"`
	YSeries   string  `json:"y"`
	N         int     `json:"n"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// Predict evaluates the fitted line at x.
func (f FitResult) Predict(x float64) float64 { return f.Slope*x + f.Intercept }

// Equation formats the line the way chart legends show it.
func (f FitResult) Equation() string {
	b := fmt.Sprintf("%.2f", math.Abs(f.Intercept))
	sign := "+"
	if f.Intercept < 0 && b != "0.00" {
		sign = "-"
	}
	return fmt.Sprintf("y = %.2fx %s %s", f.Slope, sign, b)
}

// Fit computes the ordinary least-squares line through (x, y) and the R² of
// that line against the same points.
func Fit(x, y []float64) (FitResult, error) {
	n := len(x)
	if n != len(y) {
		return FitResult{}, &DegenerateError{Reason: fmt.Sprintf("length mismatch x=%d y=%d", len(x), len(y)), N: n}
	}
	if n < 2 {
		return FitResult{}, &DegenerateError{Reason: "need at least two points", N: n}
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return FitResult{}, &DegenerateError{Reason: fmt.Sprintf("non-finite value at index %d", i), N: n}
		}
	}
	if floats.Min(x) == floats.Max(x) {
		return FitResult{}, &DegenerateError{Reason: "zero variance in x", N: n}
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	res := FitResult{N: n, Slope: slope, Intercept: intercept}
	if floats.Min(y) == floats.Max(y) {
		// R² is undefined for constant y; report 1 for an exact fit, else 0.
		var ssr float64
		for i := range x {
			d := y[i] - res.Predict(x[i])
			ssr += d * d
		}
		if ssr == 0 {
			res.RSquared = 1
		}
		return res, nil
	}
	res.RSquared = stat.RSquared(x, y, nil, intercept, slope)
	return res, nil
}

// FitSeries fits ySeries against xSeries across every site of an Aggregate.
func FitSeries(a *Aggregate, xSeries, ySeries string) (FitResult, error) {
	if a == nil {
		return FitResult{}, &DegenerateError{Reason: "no summary"}
	}
	if !a.hasSeries(xSeries) {
		return FitResult{}, fmt.Errorf("fit: unknown x series %q", xSeries)
	}
	if !a.hasSeries(ySeries) {
		return FitResult{}, fmt.Errorf("fit: unknown y series %q", ySeries)
	}
	res, err := Fit(a.Column(xSeries), a.Column(ySeries))
	if err != nil {
		return FitResult{}, err
	}
	res.XSeries = xSeries
	res.YSeries = ySeries
	return res, nil
}

func (a *Aggregate) hasSeries(name string) bool {
	for _, s := range a.Series {
		if s.Name == name {
			return true
		}
	}
	return false
}
