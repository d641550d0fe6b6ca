// Package store appends each tick's reading to a daily CSV export file.
// The export is write-only during a session: the in-memory window always
// starts empty and is never reloaded from disk.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soren/icewatch/internal/reading"
)

const fileLayout = "2006-01-02"

// Recorder writes readings to <dir>/YYYY-MM-DD.csv with the format:
//
//	timestamp,temp_c,temp_f,temp_k,pressure_hpa
type Recorder struct {
	dir     string
	current *os.File
	writer  *csv.Writer
	curDate string
}

// New creates a recorder, creating the data directory if needed.
func New(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data dir: %w", err)
	}
	return &Recorder{dir: dir}, nil
}

// Write appends one reading to the day file for its capture time,
// rotating to a new file when the date changes.
func (rec *Recorder) Write(r reading.Reading) error {
	dateStr := r.Time.Format(fileLayout)

	if rec.curDate != dateStr || rec.current == nil {
		rec.Close()
		path := filepath.Join(rec.dir, dateStr+".csv")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		rec.current = f
		rec.writer = csv.NewWriter(f)
		rec.curDate = dateStr

		info, _ := f.Stat()
		if info.Size() == 0 {
			rec.writer.Write([]string{"timestamp", "temp_c", "temp_f", "temp_k", "pressure_hpa"})
		}
	}

	rec.writer.Write([]string{
		r.Timestamp(),
		fmt.Sprintf("%.1f", r.TempC),
		fmt.Sprintf("%.1f", r.TempF),
		fmt.Sprintf("%.1f", r.TempK),
		fmt.Sprintf("%.1f", r.PressureHPa),
	})
	rec.writer.Flush()
	return rec.writer.Error()
}

// Close flushes and closes the current day file.
func (rec *Recorder) Close() {
	if rec.writer != nil {
		rec.writer.Flush()
	}
	if rec.current != nil {
		rec.current.Close()
		rec.current = nil
	}
}

// LoadFile reads all readings back from an export file. Used by offline
// inspection of exports and by tests; the dashboard never calls it.
func LoadFile(path string) ([]reading.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	var readings []reading.Reading
	for i, row := range records {
		if i == 0 && len(row) > 0 && row[0] == "timestamp" {
			continue
		}
		if len(row) < 5 {
			continue
		}

		t, err := time.ParseInLocation(reading.TimestampLayout, row[0], time.Local)
		if err != nil {
			continue
		}
		tempC, _ := strconv.ParseFloat(row[1], 64)
		tempF, _ := strconv.ParseFloat(row[2], 64)
		tempK, _ := strconv.ParseFloat(row[3], 64)
		pressure, _ := strconv.ParseFloat(row[4], 64)

		readings = append(readings, reading.Reading{
			TempC:       tempC,
			TempF:       tempF,
			TempK:       tempK,
			PressureHPa: pressure,
			Time:        t,
		})
	}

	return readings, nil
}
