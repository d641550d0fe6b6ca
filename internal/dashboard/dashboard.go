// Package dashboard implements the live conditions TUI using BubbleTea:
// a timed refresh loop that records one synthetic reading per tick and
// re-renders the value cards, the recent-readings table, and the
// temperature trend chart.
package dashboard

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soren/icewatch/internal/chart"
	"github.com/soren/icewatch/internal/history"
	"github.com/soren/icewatch/internal/reading"
)

// Recorder receives every recorded reading (CSV export).
type Recorder interface {
	Write(reading.Reading) error
	Close()
}

// Publisher broadcasts every recorded reading (MQTT telemetry).
type Publisher interface {
	PublishReading(reading.Reading) error
	Close()
}

// Options wire the model's collaborators. Recorder and Publisher may be
// nil; Logger defaults to slog.Default().
type Options struct {
	Interval  time.Duration
	Generator *reading.Generator
	Store     *history.Store
	Recorder  Recorder
	Publisher Publisher
	Logger    *slog.Logger
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type publishErrMsg struct{ err error }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard. Only the tick
// branch of Update mutates the store; renderers consume the snapshot
// taken at the same tick.
type Model struct {
	interval  time.Duration
	gen       *reading.Generator
	store     *history.Store
	recorder  Recorder
	publisher Publisher
	logger    *slog.Logger

	snap      history.Snapshot
	err       error
	width     int
	height    int
	scroll    int
	lastTick  time.Time
	startTime time.Time
	paused    bool
}

// New creates the initial model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		interval:  opts.Interval,
		gen:       opts.Generator,
		store:     opts.Store,
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		logger:    logger,
		snap:      opts.Store.Snapshot(),
		startTime: time.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func firstTick() tea.Msg {
	return tickMsg(time.Now())
}

// publishCmd runs the broker publish off the update loop so a slow
// broker never delays a tick.
func publishCmd(p Publisher, r reading.Reading) tea.Cmd {
	return func() tea.Msg {
		if err := p.PublishReading(r); err != nil {
			return publishErrMsg{err}
		}
		return nil
	}
}

// ── Init / Update ────────────────────────────────────────────────────

// Init fires an immediate first tick; recordTick schedules every
// subsequent one, so exactly one timer chain exists.
func (m Model) Init() tea.Cmd {
	return firstTick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recorder != nil {
				m.recorder.Close()
			}
			if m.publisher != nil {
				m.publisher.Close()
			}
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tickCmd(m.interval)
		}
		return m.recordTick(time.Time(msg))

	case publishErrMsg:
		m.err = msg.err
		m.logger.Warn("publish failed", "error", msg.err)
	}

	return m, nil
}

// recordTick advances state by exactly one reading and reschedules.
func (m Model) recordTick(at time.Time) (Model, tea.Cmd) {
	r := m.gen.Next()
	m.store.Record(r)
	m.snap = m.store.Snapshot()
	m.lastTick = at
	m.err = nil

	cmds := []tea.Cmd{tickCmd(m.interval)}

	if m.recorder != nil {
		if err := m.recorder.Write(r); err != nil {
			m.err = fmt.Errorf("record: %w", err)
			m.logger.Warn("csv write failed", "error", err)
		}
	}
	if m.publisher != nil {
		cmds = append(cmds, publishCmd(m.publisher, r))
	}

	return m, tea.Batch(cmds...)
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorHeader   = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorValue    = lipgloss.Color("250")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorTemp     = lipgloss.Color("39")
	colorPressure = lipgloss.Color("78")
	colorPaused   = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 60 {
		contentWidth = 60
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	if !m.snap.HasLatest {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for first reading...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderCards(contentWidth))
		sections = append(sections, m.renderTable(contentWidth))
		sections = append(sections, m.renderChart(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("ANTARCTIC CONDITIONS")

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if !m.lastTick.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(fmt.Sprintf("every %s · last %s", m.interval, m.lastTick.Format("15:04:05")))
		statusParts = append(statusParts, ts)
	}

	if m.paused {
		p := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED")
		statusParts = append(statusParts, p)
	}

	if m.recorder != nil {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render("REC"))
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderCards(totalWidth int) string {
	cardWidth := totalWidth/3 - 2
	if cardWidth < 24 {
		cardWidth = 24
	}

	headerS := lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	temp, desc := m.snap.LatestTemperature()

	timeCard := m.card(cardWidth,
		headerS.Render("Current Date and Time"),
		lipgloss.NewStyle().Foreground(colorLabel).Bold(true).Render(m.snap.LatestTimestamp()),
	)

	tempCard := m.card(cardWidth,
		headerS.Render("Current Temperature"),
		lipgloss.NewStyle().Foreground(colorTemp).Bold(true).Render(fmt.Sprintf("%.1f °C", temp))+
			dimS.Render("  "+desc),
	)

	pressureCard := m.card(cardWidth,
		headerS.Render("Barometric Pressure"),
		lipgloss.NewStyle().Foreground(colorPressure).Bold(true).Render(fmt.Sprintf("%.1f hPa", m.snap.LatestPressure())),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, timeCard, tempCard, pressureCard)
}

func (m Model) card(width int, lines ...string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderTable(totalWidth int) string {
	headerS := lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	colS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(colorValue)

	widths := []int{20, 9, 9, 9, 13}

	var rows []string
	rows = append(rows, headerS.Render("Most Recent Readings"))

	var head strings.Builder
	for i, col := range history.TableColumns {
		head.WriteString(colS.Render(pad(col, widths[i], i != 0)))
		head.WriteString(" ")
	}
	rows = append(rows, head.String())

	innerWidth := 0
	for _, w := range widths {
		innerWidth += w + 1
	}
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("237")).
		Render(strings.Repeat("─", innerWidth))
	rows = append(rows, sep)

	for _, row := range m.snap.Rows() {
		var sb strings.Builder
		for i, cell := range row {
			sb.WriteString(valS.Render(pad(cell, widths[i], i != 0)))
			sb.WriteString(" ")
		}
		rows = append(rows, sb.String())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderChart(totalWidth int) string {
	headerS := lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	plotWidth := totalWidth - 16
	if plotWidth < 30 {
		plotWidth = 30
	}
	if plotWidth > 120 {
		plotWidth = 120
	}

	times, temps, fitted := m.snap.TrendChartData()
	plot := chart.Render(times, temps, fitted, plotWidth, 9)

	legend := lipgloss.NewStyle().Foreground(colorTemp).Render("● readings") +
		dimS.Render("  ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("· trend") +
		dimS.Render(fmt.Sprintf("  slope %+.3f °C/tick", m.snap.Line.Slope))

	content := lipgloss.JoinVertical(lipgloss.Left,
		headerS.Render("Temperature Trend"),
		legend,
		plot,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(content)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  j/k") + keyS.Render(":scroll") +
		dimS.Render("  p") + keyS.Render(":pause")

	window := dimS.Render(fmt.Sprintf("window %d/%d", m.store.Len(), m.store.Capacity()))

	gap := width - lipgloss.Width(keys) - lipgloss.Width(window) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys + filler + window)
}

// pad left- or right-aligns s into a w-wide cell.
func pad(s string, w int, right bool) string {
	if len(s) > w {
		return s[:w]
	}
	fill := strings.Repeat(" ", w-len(s))
	if right {
		return fill + s
	}
	return s + fill
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
