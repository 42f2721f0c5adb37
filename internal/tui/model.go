// Package tui provides the Bubble Tea session interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
	"github.com/verte-zerg/tuibill/internal/recorder"
)

const (
	defaultWidth  = 60
	tagTimeLayout = "15:04:05"
)

// TickMsg redraws the elapsed time and earnings.
type TickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type keyMap struct {
	Stop      key.Binding
	Commit    key.Binding
	Backspace key.Binding
	Abort     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Stop:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop and save")),
		Commit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add tag")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("backspace", "delete")),
		Abort:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "discard")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Stop, k.Abort}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Commit, k.Backspace}, {k.Stop, k.Abort}}
}

var (
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	earnedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	tagTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle  = lipgloss.NewStyle().Underline(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea session UI around a recorder.
type Model struct {
	rec  *recorder.Recorder
	keys keyMap
	help help.Model

	width  int
	height int

	done    bool
	session model.Session
	err     error
}

// NewModel constructs a session UI for a running recorder.
func NewModel(rec *recorder.Recorder) *Model {
	return &Model{
		rec:  rec,
		keys: defaultKeys(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.rec.TickInterval())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd(m.rec.TickInterval())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ev recorder.Event
	switch {
	case key.Matches(msg, m.keys.Abort):
		m.finish(model.Session{}, recorder.ErrAborted)
		return m, tea.Quit
	case key.Matches(msg, m.keys.Stop):
		ev = recorder.Event{Kind: recorder.EventStop}
	case key.Matches(msg, m.keys.Commit):
		ev = recorder.Event{Kind: recorder.EventCommit}
	case key.Matches(msg, m.keys.Backspace):
		ev = recorder.Event{Kind: recorder.EventBackspace}
	case msg.Type == tea.KeySpace:
		ev = recorder.Event{Kind: recorder.EventInput, Runes: []rune{' '}}
	case msg.Type == tea.KeyRunes:
		ev = recorder.Event{Kind: recorder.EventInput, Runes: msg.Runes}
	default:
		return m, nil
	}

	session, stopped, err := m.rec.Apply(ev)
	if err != nil {
		m.finish(model.Session{}, err)
		return m, tea.Quit
	}
	if stopped {
		m.finish(session, nil)
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) finish(session model.Session, err error) {
	m.done = true
	m.session = session
	m.err = err
}

// Result returns the finished session. A UI that exited without stopping
// the recorder reports ErrInputClosed.
func (m *Model) Result() (model.Session, error) {
	if !m.done {
		return model.Session{}, recorder.ErrInputClosed
	}
	return m.session, m.err
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	// Border and padding take two columns on each side.
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	frame := m.rec.Frame()
	info := m.renderBox("Session Info", []string{m.infoLine(frame)}, inner)
	inputLines := wrapText(frame.Pending, inner-1)
	inputLines[len(inputLines)-1] += cursorStyle.Render(" ")
	input := m.renderBox("Input", inputLines, inner)
	footer := footerStyle.Render(m.help.View(m.keys))

	tagLines := m.tagLines(frame.Tags, inner)
	if m.height > 0 {
		used := lipgloss.Height(info) + lipgloss.Height(input) + lipgloss.Height(footer) + 3
		tagLines = lastLines(tagLines, m.height-used)
	}
	tags := m.renderBox("Tags", tagLines, inner)

	return lipgloss.JoinVertical(lipgloss.Left, info, tags, input, footer)
}

func (m *Model) infoLine(frame recorder.Frame) string {
	return fmt.Sprintf("Time: %s  Earned: %s  Rate: %s/h",
		earnings.FormatClock(frame.Elapsed),
		earnedStyle.Render(earnings.FormatMoney(frame.Earned)),
		earnings.FormatMoney(frame.Rate),
	)
}

func (m *Model) tagLines(tags []model.Tag, width int) []string {
	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		stamp := tag.Time.Format(tagTimeLayout)
		prefix := stamp + " -- "
		note := runewidth.Truncate(tag.Note, width-runewidth.StringWidth(prefix), "…")
		lines = append(lines, tagTimeStyle.Render(stamp)+" -- "+note)
	}
	return lines
}

func (m *Model) renderBox(title string, lines []string, width int) string {
	body := titleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return boxStyle.Width(width + 2).Render(body)
}

func lastLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// Run drives rec through an alt-screen Bubble Tea program until the user
// stops or discards the session.
func Run(ctx context.Context, rec *recorder.Recorder) (model.Session, error) {
	m := NewModel(rec)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", recorder.ErrAborted, err)
	}
	return m.Result()
}
