package browse

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuibill/internal/model"
)

func sampleLog() model.Log {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	log := model.NewLog()
	log.AppendSession(model.Session{Start: day, End: day.Add(8 * time.Hour), HourlyRate: 20, Tags: []model.Tag{{Note: "kickoff", Time: day}}})
	log.StartNewPeriod()
	log.AppendSession(model.Session{Start: day.Add(72 * time.Hour), End: day.Add(74 * time.Hour), HourlyRate: 30, Tags: []model.Tag{}})
	log.StartNewPeriod()
	return log
}

func TestPeriodRows(t *testing.T) {
	m := NewModel(sampleLog())
	rows := m.periods.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "1" || rows[0][2] != "8.0" || rows[0][3] != "$160.00" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[2][0] != "3*" || rows[2][4] != "-" {
		t.Fatalf("current period not flagged: %v", rows[2])
	}
	if m.periods.Cursor() != 2 {
		t.Fatalf("cursor should start on the current period, got %d", m.periods.Cursor())
	}
}

func TestEnterOpensPeriodDetail(t *testing.T) {
	m := NewModel(sampleLog())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatalf("enter should open the period detail")
	}
	if m.detailTitle != "Period 1 (2024-01-01)" {
		t.Fatalf("unexpected title: %q", m.detailTitle)
	}
	view := m.View()
	if !strings.Contains(view, "kickoff") || !strings.Contains(view, "Total: 8.0 hours, $160.00") {
		t.Fatalf("detail view missing invoice table:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetail {
		t.Fatalf("esc should return to the period list")
	}
}

func TestEmptyPeriodDetail(t *testing.T) {
	m := NewModel(sampleLog())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail || m.errMsg != "" {
		t.Fatalf("empty period should open with a notice, err=%q", m.errMsg)
	}
	if !strings.Contains(m.View(), "No sessions in this period.") {
		t.Fatalf("missing empty notice:\n%s", m.View())
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(sampleLog())
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%q should quit", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%q should return tea.Quit", msg.String())
		}
	}
}

func TestViewHeaderTotals(t *testing.T) {
	m := NewModel(sampleLog())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"Sessions", "10.0", "$220.00", "2024-01-04"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewEmptyBeforeResize(t *testing.T) {
	if got := NewModel(sampleLog()).View(); got != "" {
		t.Fatalf("expected empty view before first resize, got %q", got)
	}
}

func TestTruncateLineUsesDisplayWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Quit: q", 20, "Quit: q"},
		{"Scroll: up/down", 10, "Scroll:..."},
		{"期間を選択して開く", 10, "期間を..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		got := truncateLine(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncateLine(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncateLine(%q, %d) is %d columns wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}
