// Package statsui provides the Bubble Tea session history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fretdrill/internal/game"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/stats"
)

const (
	tabOverview = iota
	tabNoteTable
)

const plotHeight = 10

var modeFilters = []string{"", game.SingleNote.String(), game.FindAll.String(), game.Triads.String()}

const (
	accent = lipgloss.Color("#C89A3A")
	wood   = lipgloss.Color("#8B5A2B")
	bright = lipgloss.Color("#F0F0F0")
	muted  = lipgloss.Color("#6E6E6E")
	red    = lipgloss.Color("#FF4D4F")
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeTabStyle = tabStyle.Bold(true).Foreground(bright).BorderForeground(accent)
	idleTabStyle   = tabStyle.Foreground(muted).BorderForeground(wood)
	hintStyle      = lipgloss.NewStyle().Foreground(muted)
	failStyle      = lipgloss.NewStyle().Foreground(red)
	cardStyle      = tabStyle.BorderForeground(wood)
	cardLabelStyle = lipgloss.NewStyle().Foreground(muted)
	cardFigure     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	tableTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src stats.SessionSource
	cfg model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	noteTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(src stats.SessionSource, cfg model.StatsConfig) *Model {
	m := &Model{
		src:       src,
		cfg:       cfg,
		tabs:      []string{"Overview", "Notes"},
		overview:  viewport.New(0, 0),
		noteTable: buildNoteTable(nil, 0, 1),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "m":
			m.cfg.Mode = nextModeFilter(m.cfg.Mode)
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabNoteTable {
				m.noteTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabNoteTable {
				m.noteTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabNoteTable {
			m.noteTable, cmd = m.noteTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeTabStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.noteTable.SetWidth(m.width)
	m.noteTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabNoteTable {
		m.noteTable.Focus()
	} else {
		m.noteTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.noteTable.SetRows(noteRows(report.NoteAggsAll))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	m.overview.SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, m.contentWidth()))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, idleTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + hintStyle.Render(truncateLine(m.filterSummary(), m.width))
}

func (m *Model) filterSummary() string {
	mode := m.cfg.Mode
	if mode == "" {
		mode = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filter: mode=%s  since=%s  last=%s  window=%d", mode, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderFooter() string {
	help := hintStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Mode: m  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + failStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabNoteTable {
		switch {
		case len(m.report.Sessions) == 0:
			return "No sessions found."
		case len(m.report.NoteAggsAll) == 0:
			return "No note stats found."
		default:
			return tableTextStyle.Render(m.noteTable.View())
		}
	}
	return m.overview.View()
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, sessions, window, width, plotHeight); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(renderSummaryCards(sessions, width)+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	var totalRate, totalAcc, totalScore float64
	best := 0
	for _, s := range sessions {
		rate, acc := stats.SessionMetrics(s.Correct, s.Errors, s.DurationMs)
		totalRate += rate
		totalAcc += acc
		totalScore += float64(s.Score)
		if s.Score > best {
			best = s.Score
		}
	}
	count := float64(len(sessions))
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(sessions))),
		metricCard("Avg Score", fmt.Sprintf("%.1f", totalScore/count)),
		metricCard("Best Score", strconv.Itoa(best)),
		metricCard("Correct/min", fmt.Sprintf("%.1f", totalRate/count)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", totalAcc/count*100)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardFigure.Render(value))
}

func noteColumns() []table.Column {
	return []table.Column{
		{Title: "Note", Width: 4},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Wrong", Width: 6},
		{Title: "Total", Width: 6},
	}
}

// noteRows lists the most practiced notes first.
func noteRows(aggs []model.NoteAggregate) []table.Row {
	sorted := append([]model.NoteAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Correct+sorted[i].Wrong, sorted[j].Correct+sorted[j].Wrong
		if ti == tj {
			return sorted[i].Note < sorted[j].Note
		}
		return ti > tj
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		total := agg.Correct + agg.Wrong
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		rows = append(rows, table.Row{
			agg.Note,
			fmt.Sprintf("%.2f%%", acc),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Wrong),
			strconv.Itoa(total),
		})
	}
	return rows
}

func buildNoteTable(aggs []model.NoteAggregate, width, height int) table.Model {
	t := table.New(
		table.WithColumns(noteColumns()),
		table.WithRows(noteRows(aggs)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(noteTableStyles())
	return t
}

func noteTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(accent).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(wood).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Bold(true).Foreground(bright)
	return styles
}

func nextModeFilter(mode string) string {
	for i, m := range modeFilters {
		if m == mode {
			return modeFilters[(i+1)%len(modeFilters)]
		}
	}
	return modeFilters[0]
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return max(1, n-1)
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
