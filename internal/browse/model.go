// Package browse provides the Bubble Tea period browser.
package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/invoice"
	"github.com/verte-zerg/tuibill/internal/model"
	"github.com/verte-zerg/tuibill/internal/stats"
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea period browser.
type Model struct {
	log       model.Log
	summaries []stats.PeriodSummary

	periods table.Model
	detail  viewport.Model

	showDetail  bool
	detailTitle string
	errMsg      string

	width  int
	height int
}

// NewModel constructs a browser over log.
func NewModel(log model.Log) *Model {
	m := &Model{
		log:       log,
		summaries: stats.Summarize(log),
		detail:    viewport.New(0, 0),
	}
	m.periods = table.New(
		table.WithColumns(periodColumns()),
		table.WithRows(periodRows(m.summaries)),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, len(m.summaries))),
	)
	m.periods.SetStyles(periodTableStyles())
	if n := len(m.summaries); n > 0 {
		m.periods.SetCursor(n - 1)
	}
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.showDetail {
			switch msg.String() {
			case "esc", "backspace", "left", "h":
				m.showDetail = false
				m.errMsg = ""
				return m, nil
			case "g", "home":
				m.detail.GotoTop()
				return m, nil
			case "G", "end":
				m.detail.GotoBottom()
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "enter", "right", "l":
			m.openDetail(m.periods.Cursor())
			return m, nil
		}
		var cmd tea.Cmd
		m.periods, cmd = m.periods.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	var body string
	if m.showDetail {
		body = headerStyle.Render(m.detailTitle) + "\n" + m.detail.View()
	} else {
		body = tableMutedStyle.Render(m.periods.View())
	}
	return strings.Join([]string{
		fitLines(header, m.width, lipgloss.Height(header)),
		fitLines(body, m.width, bodyHeight),
		fitLines(footer, m.width, lipgloss.Height(footer)),
	}, "\n")
}

func (m *Model) openDetail(cursor int) {
	if cursor < 0 || cursor >= len(m.summaries) {
		return
	}
	summary := m.summaries[cursor]
	period, err := m.log.Period(summary.Index)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	content, err := invoice.Table(*period)
	switch {
	case errors.Is(err, model.ErrEmptyPeriod):
		content = "No sessions in this period."
	case err != nil:
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.detailTitle = fmt.Sprintf("Period %d (%s)", summary.Index, summary.Range)
	m.detail.SetContent(strings.TrimRight(content, "\n"))
	m.detail.GotoTop()
	m.showDetail = true
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())
	m.periods.SetWidth(m.width)
	m.periods.SetHeight(maxInt(1, bodyHeight-1))
	m.detail.Width = m.width
	m.detail.Height = maxInt(1, bodyHeight-1)
}

func (m *Model) renderHeader() string {
	cards := []string{
		metricCard("Periods", fmt.Sprintf("%d", len(m.log.Periods))),
		metricCard("Sessions", fmt.Sprintf("%d", m.log.SessionCount())),
		metricCard("Hours", fmt.Sprintf("%.1f", earnings.RoundHalfUp(m.log.Hours(), 1))),
		metricCard("Earned", earnings.FormatMoney(m.log.Earned())),
	}
	if m.width > 0 && m.width < 60 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:2]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[2:]...),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderFooter() string {
	help := "Move: up/down  Open: enter  Quit: q"
	if m.showDetail {
		help = "Scroll: up/down/pgup/pgdn  Back: esc  Quit: q"
	}
	line := headerStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return line + "\n" + errorStyle.Render(m.errMsg)
	}
	return line
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func periodColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "Sessions", Width: 8},
		{Title: "Hours", Width: 7},
		{Title: "Earned", Width: 11},
		{Title: "Dates", Width: 24},
	}
}

func periodRows(summaries []stats.PeriodSummary) []table.Row {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		label := fmt.Sprintf("%d", s.Index)
		if s.Current {
			label += "*"
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%d", s.Sessions),
			fmt.Sprintf("%.1f", earnings.RoundHalfUp(s.Hours, 1)),
			earnings.FormatMoney(s.Earned),
			s.Range,
		})
	}
	return rows
}

func periodTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// Run shows the browser until the user quits.
func Run(log model.Log) error {
	if _, err := tea.NewProgram(NewModel(log), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
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
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
