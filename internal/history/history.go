// Package history provides the fixed-capacity rolling window of sensor
// readings and the derived snapshot (table projection, latest entry,
// trend fit) recomputed from it on every tick.
package history

import (
	"fmt"
	"time"

	"github.com/soren/icewatch/internal/reading"
	"github.com/soren/icewatch/internal/trend"
)

// TableColumns are the snapshot table headers, in projection order.
var TableColumns = []string{"timestamp", "temp_c", "temp_f", "temp_k", "pressure_hpa"}

// Store holds the most recent readings, oldest first, up to a capacity
// fixed at creation. Only one writer may call Record; the BubbleTea
// update loop provides that serialization.
type Store struct {
	readings []reading.Reading
	capacity int
}

// NewStore creates an empty store with the given capacity.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		readings: make([]reading.Reading, 0, capacity),
		capacity: capacity,
	}
}

// Record appends one reading, evicting the single oldest entry when the
// window is full.
func (s *Store) Record(r reading.Reading) {
	if len(s.readings) >= s.capacity {
		copy(s.readings, s.readings[1:])
		s.readings[len(s.readings)-1] = r
		return
	}
	s.readings = append(s.readings, r)
}

// Len returns the number of retained readings.
func (s *Store) Len() int {
	return len(s.readings)
}

// Capacity returns the fixed window size.
func (s *Store) Capacity() int {
	return s.capacity
}

// Snapshot derives the current view of the window. It copies the
// readings and recomputes the trend fit, so the result is unaffected by
// later Record calls and identical across calls with no tick between.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Readings: make([]reading.Reading, len(s.readings)),
	}
	copy(snap.Readings, s.readings)

	if len(snap.Readings) == 0 {
		return snap
	}

	snap.HasLatest = true
	snap.Latest = snap.Readings[len(snap.Readings)-1]

	temps := make([]float64, len(snap.Readings))
	for i, r := range snap.Readings {
		temps[i] = r.TempC
	}
	snap.Line = trend.Fit(temps)
	snap.Fitted = trend.Fitted(temps)
	return snap
}

// Snapshot is a pure projection of the window contents at one tick.
type Snapshot struct {
	Readings  []reading.Reading // oldest first
	Latest    reading.Reading
	HasLatest bool
	Line      trend.Line
	Fitted    []float64 // fitted temperature per position
}

// LatestTimestamp returns the formatted capture time of the newest
// reading, or "" before the first tick.
func (s Snapshot) LatestTimestamp() string {
	if !s.HasLatest {
		return ""
	}
	return s.Latest.Timestamp()
}

// LatestTemperature returns the newest Celsius value with its
// qualitative description.
func (s Snapshot) LatestTemperature() (float64, string) {
	if !s.HasLatest {
		return 0, ""
	}
	return s.Latest.TempC, reading.Describe(s.Latest.TempC)
}

// LatestPressure returns the newest pressure in hPa.
func (s Snapshot) LatestPressure() float64 {
	if !s.HasLatest {
		return 0
	}
	return s.Latest.PressureHPa
}

// Rows returns the table projection, one row per reading, oldest first,
// columns per TableColumns. Empty window yields no rows.
func (s Snapshot) Rows() [][]string {
	rows := make([][]string, 0, len(s.Readings))
	for _, r := range s.Readings {
		rows = append(rows, []string{
			r.Timestamp(),
			fmt.Sprintf("%.1f", r.TempC),
			fmt.Sprintf("%.1f", r.TempF),
			fmt.Sprintf("%.1f", r.TempK),
			fmt.Sprintf("%.1f", r.PressureHPa),
		})
	}
	return rows
}

// TrendChartData returns the chart series for the current window:
// capture times, observed Celsius values, and the fitted value per
// position. All three slices share length and order.
func (s Snapshot) TrendChartData() (times []time.Time, temps []float64, fitted []float64) {
	if len(s.Readings) == 0 {
		return nil, nil, nil
	}
	times = make([]time.Time, len(s.Readings))
	temps = make([]float64, len(s.Readings))
	for i, r := range s.Readings {
		times[i] = r.Time
		temps[i] = r.TempC
	}
	return times, temps, s.Fitted
}
