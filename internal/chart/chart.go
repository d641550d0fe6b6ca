// Package chart renders the temperature window as a text scatter plot
// with the fitted trend line overlaid and HH:MM:SS labels on the time
// axis.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPoint = lipgloss.Color("39")  // observed readings
	colorTrend = lipgloss.Color("214") // fitted line
	colorAxis  = lipgloss.Color("240")
	colorDim   = lipgloss.Color("236")
)

const (
	pointMark = '●'
	trendMark = '·'
	gutterW   = 8 // y-axis label gutter, "%6.1f" plus axis rune
)

// Render draws observed temperatures and their fitted trend values over
// a width x height character plot area (gutter and time axis added on
// top of that). times, temps and fitted must share length and order,
// oldest first. An empty window renders a dim placeholder line.
func Render(times []time.Time, temps, fitted []float64, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(temps) == 0 {
		dim := lipgloss.NewStyle().Foreground(colorDim)
		return dim.Render(strings.Repeat("╌", width))
	}

	rangeMin, rangeMax := valueRange(temps, fitted)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	cols := columnPositions(len(temps), width)

	// grid[row][col], row 0 is the top.
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	toRow := func(v float64) int {
		norm := (v - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		return (height - 1) - int(math.Round(norm*float64(height-1)))
	}

	// Trend first so observed points win shared cells.
	for c := cols[0]; c <= cols[len(cols)-1]; c++ {
		grid[toRow(trendAt(cols, fitted, c))][c] = trendMark
	}
	for i, v := range temps {
		grid[toRow(v)][cols[i]] = pointMark
	}

	axisStyle := lipgloss.NewStyle().Foreground(colorAxis)
	pointStyle := lipgloss.NewStyle().Foreground(colorPoint)
	trendStyle := lipgloss.NewStyle().Foreground(colorTrend)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		switch row {
		case 0:
			sb.WriteString(axisStyle.Render(fmt.Sprintf("%6.1f ┤", rangeMax)))
		case height - 1:
			sb.WriteString(axisStyle.Render(fmt.Sprintf("%6.1f ┤", rangeMin)))
		default:
			sb.WriteString(axisStyle.Render(strings.Repeat(" ", gutterW-1) + "│"))
		}
		for col := 0; col < width; col++ {
			switch grid[row][col] {
			case pointMark:
				sb.WriteString(pointStyle.Render(string(pointMark)))
			case trendMark:
				sb.WriteString(trendStyle.Render(string(trendMark)))
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(axisStyle.Render(strings.Repeat(" ", gutterW-1) + "└" + strings.Repeat("─", width)))

	if labels := renderTimeAxis(times, cols, width); labels != "" {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", gutterW))
		sb.WriteString(labels)
	}

	return sb.String()
}

// valueRange pads the observed/fitted extent so points never sit on the
// plot border.
func valueRange(temps, fitted []float64) (float64, float64) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, v := range temps {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for _, v := range fitted {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo - 0.2, hi + 0.2
}

// columnPositions spreads n readings across the plot width, newest at
// the right edge. A single reading sits at the right edge.
func columnPositions(n, width int) []int {
	cols := make([]int, n)
	if n == 1 {
		cols[0] = width - 1
		return cols
	}
	for i := 0; i < n; i++ {
		cols[i] = i * (width - 1) / (n - 1)
	}
	return cols
}

// trendAt linearly interpolates the fitted series at plot column c.
// Exact for a least-squares line since the fitted values are colinear.
func trendAt(cols []int, fitted []float64, c int) float64 {
	if len(fitted) == 1 {
		return fitted[0]
	}
	for i := 0; i < len(cols)-1; i++ {
		if c > cols[i+1] {
			continue
		}
		segW := cols[i+1] - cols[i]
		if segW == 0 {
			return fitted[i+1]
		}
		t := float64(c-cols[i]) / float64(segW)
		return fitted[i] + t*(fitted[i+1]-fitted[i])
	}
	return fitted[len(fitted)-1]
}

// renderTimeAxis places an HH:MM:SS label under each reading column,
// dropping labels that would overlap the previous one.
func renderTimeAxis(times []time.Time, cols []int, width int) string {
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	lastEnd := -1
	for i, t := range times {
		if t.IsZero() {
			continue
		}
		label := t.Format("15:04:05")
		start := cols[i] - len(label)/2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width {
			start = width - len(label)
			end = width
			if start < 0 {
				continue
			}
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	out := strings.TrimRight(string(line), " ")
	if out == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(colorAxis).Render(out)
}
