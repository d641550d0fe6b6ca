package trend

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitStraightLine(t *testing.T) {
	l := Fit([]float64{1, 2, 3, 4, 5})

	if !almostEqual(l.Slope, 1.0) {
		t.Errorf("Slope: got %v, want 1.0", l.Slope)
	}
	if !almostEqual(l.Intercept, 1.0) {
		t.Errorf("Intercept: got %v, want 1.0", l.Intercept)
	}

	fitted := Fitted([]float64{1, 2, 3, 4, 5})
	for i, want := range []float64{1, 2, 3, 4, 5} {
		if !almostEqual(fitted[i], want) {
			t.Errorf("fitted[%d]: got %v, want %v", i, fitted[i], want)
		}
	}
}

func TestFitSingleValue(t *testing.T) {
	l := Fit([]float64{-17.3})

	if l.Slope != 0 {
		t.Errorf("Slope: got %v, want 0", l.Slope)
	}
	if !almostEqual(l.Intercept, -17.3) {
		t.Errorf("Intercept: got %v, want -17.3", l.Intercept)
	}

	fitted := Fitted([]float64{-17.3})
	if len(fitted) != 1 || !almostEqual(fitted[0], -17.3) {
		t.Errorf("Fitted: got %v, want [-17.3]", fitted)
	}
}

func TestFitEmpty(t *testing.T) {
	l := Fit(nil)
	if l.Slope != 0 || l.Intercept != 0 {
		t.Errorf("Fit(nil): got %+v, want zero line", l)
	}
	if Fitted(nil) != nil {
		t.Error("Fitted(nil): want nil")
	}
}

func TestFitConstantSeries(t *testing.T) {
	l := Fit([]float64{-17, -17, -17, -17})
	if !almostEqual(l.Slope, 0) {
		t.Errorf("Slope: got %v, want 0", l.Slope)
	}
	if !almostEqual(l.Intercept, -17) {
		t.Errorf("Intercept: got %v, want -17", l.Intercept)
	}
}

func TestFitNoisySeries(t *testing.T) {
	// Residuals of the OLS fit must sum to ~0.
	values := []float64{-17.8, -16.2, -17.1, -16.9, -17.5}
	l := Fit(values)
	var residuals float64
	for i, v := range values {
		residuals += v - l.At(i)
	}
	if !almostEqual(residuals, 0) {
		t.Errorf("residual sum: got %v, want 0", residuals)
	}
}
