// Package reading defines the synthetic sensor reading produced on each
// refresh tick: temperature in Celsius with derived Fahrenheit/Kelvin
// values, barometric pressure, and the capture timestamp.
package reading

import (
	"math"
	"time"
)

// TimestampLayout is the fixed month-day-year pattern used everywhere a
// reading timestamp is shown or exported.
const TimestampLayout = "01-02-2006 15:04:05"

// Reading is one synthetic sensor observation.
type Reading struct {
	TempC       float64 // temperature in Celsius, one decimal
	TempF       float64 // derived from TempC
	TempK       float64 // derived from TempC
	PressureHPa float64 // barometric pressure in hPa, one decimal
	Time        time.Time
}

// Timestamp returns the capture time in the fixed display format.
func (r Reading) Timestamp() string {
	return r.Time.Format(TimestampLayout)
}

// New builds a Reading from a raw Celsius draw, pressure draw, and capture
// time. Celsius is rounded to one decimal first so the Fahrenheit and
// Kelvin fields stay consistent with the displayed Celsius value.
func New(tempC, pressureHPa float64, t time.Time) Reading {
	c := Round1(tempC)
	return Reading{
		TempC:       c,
		TempF:       Round1(c*9/5 + 32),
		TempK:       Round1(c + 273.15),
		PressureHPa: Round1(pressureHPa),
		Time:        t,
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Describe maps a Celsius temperature to its qualitative label. The
// boundary values land exactly as listed; -17.5 belongs to "Colder than
// Usual", not "Much Colder than Usual".
func Describe(celsius float64) string {
	switch {
	case celsius < -17.5:
		return "Much Colder than Usual"
	case celsius < -17.0:
		return "Colder than Usual"
	case celsius < -16.5:
		return "Warmer than Usual"
	default:
		return "Much Hotter than Usual"
	}
}
