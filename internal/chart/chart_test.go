package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/soren/icewatch/internal/trend"
)

func TestRenderScatterWithTrend(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)
	temps := []float64{-17.8, -17.2, -16.9, -17.4, -16.3}
	times := make([]time.Time, len(temps))
	for i := range times {
		times[i] = base.Add(time.Duration(i) * 10 * time.Second)
	}

	out := Render(times, temps, trend.Fitted(temps), 40, 8)
	if out == "" {
		t.Fatal("plot should not be empty")
	}
	if !strings.ContainsRune(out, '●') {
		t.Error("expected observed point markers in plot")
	}
	if !strings.ContainsRune(out, '·') {
		t.Error("expected trend line markers in plot")
	}
	if !strings.Contains(out, "14:00:00") {
		t.Error("expected time axis label")
	}
	t.Logf("plot:\n%s", out)
}

func TestRenderEmptyWindow(t *testing.T) {
	out := Render(nil, nil, nil, 40, 8)
	if out == "" {
		t.Fatal("empty window should render a placeholder, not nothing")
	}
	if strings.ContainsRune(out, '●') {
		t.Error("placeholder must not contain point markers")
	}
}

func TestRenderSingleReading(t *testing.T) {
	times := []time.Time{time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)}
	temps := []float64{-17.0}

	out := Render(times, temps, trend.Fitted(temps), 40, 8)
	if !strings.ContainsRune(out, '●') {
		t.Error("expected the single point to be plotted")
	}
}

func TestRenderZeroSize(t *testing.T) {
	if out := Render(nil, nil, nil, 0, 8); out != "" {
		t.Errorf("zero width: got %q, want empty", out)
	}
	if out := Render(nil, nil, nil, 40, 0); out != "" {
		t.Errorf("zero height: got %q, want empty", out)
	}
}
