package reading

import (
	"math/rand"
	"time"
)

// Bounds holds the uniform draw ranges for the generator.
type Bounds struct {
	TempLow      float64
	TempHigh     float64
	PressureLow  float64
	PressureHigh float64
}

// DefaultBounds matches the reference Antarctic station: temperature a
// couple of degrees either side of -17 °C, pressure near sea level.
func DefaultBounds() Bounds {
	return Bounds{
		TempLow:      -18,
		TempHigh:     -16,
		PressureLow:  990,
		PressureHigh: 1020,
	}
}

// Generator produces one synthetic Reading per call. Rand and Now are
// exported so tests can pin the source and the clock.
type Generator struct {
	Bounds Bounds
	Rand   *rand.Rand
	Now    func() time.Time
}

// NewGenerator creates a generator seeded from the wall clock.
func NewGenerator(b Bounds) *Generator {
	return &Generator{
		Bounds: b,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:    time.Now,
	}
}

// Next draws one reading. Temperature and pressure are independent
// uniform draws within Bounds; derived units come from New.
func (g *Generator) Next() Reading {
	temp := g.Bounds.TempLow + g.Rand.Float64()*(g.Bounds.TempHigh-g.Bounds.TempLow)
	pressure := g.Bounds.PressureLow + g.Rand.Float64()*(g.Bounds.PressureHigh-g.Bounds.PressureLow)
	return New(temp, pressure, g.Now())
}
