// Package trend fits an ordinary-least-squares line to a series of values
// indexed by position. The fit is recomputed in full on every refresh;
// at window sizes this small there is nothing to gain from a streaming
// update.
package trend

// Line is a fitted line y = Slope*x + Intercept over positions 0..n-1.
type Line struct {
	Slope     float64
	Intercept float64
}

// At returns the fitted value at position i.
func (l Line) At(i int) float64 {
	return l.Slope*float64(i) + l.Intercept
}

// Fit computes the least-squares line through (i, values[i]).
// An empty series yields the zero line. A single value yields slope 0
// and intercept equal to that value, so the fitted point is the point.
func Fit(values []float64) Line {
	n := len(values)
	switch n {
	case 0:
		return Line{}
	case 1:
		return Line{Intercept: values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Line{Intercept: sumY / fn}
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	return Line{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / fn,
	}
}

// Fitted returns the fitted value per position, or nil for an empty series.
func Fitted(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	l := Fit(values)
	out := make([]float64, len(values))
	for i := range values {
		out[i] = l.At(i)
	}
	return out
}
