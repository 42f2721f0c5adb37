package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuibill/internal/model"
)

func session(start time.Time, d time.Duration, rate float64) model.Session {
	return model.Session{Start: start, End: start.Add(d), HourlyRate: rate, Tags: []model.Tag{}}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	log := model.NewLog()
	log.AppendSession(session(day, 8*time.Hour, 20))
	log.AppendSession(session(day.Add(48*time.Hour), 2*time.Hour, 20))
	log.StartNewPeriod()

	got := Summarize(log)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].Index != 1 || got[0].Current || got[0].Sessions != 2 {
		t.Fatalf("unexpected first summary: %+v", got[0])
	}
	if got[0].Hours != 10 || got[0].Earned != 200 {
		t.Fatalf("unexpected totals: %+v", got[0])
	}
	if got[0].Range != "2024-01-01 to 2024-01-03" {
		t.Fatalf("unexpected range: %q", got[0].Range)
	}
	if !got[1].Current || got[1].Sessions != 0 || got[1].Range != "-" {
		t.Fatalf("unexpected current summary: %+v", got[1])
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("flat sparkline = %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("min/max sparkline = %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	log := model.NewLog()
	log.AppendSession(session(day, 8*time.Hour, 20))
	log.StartNewPeriod()
	log.AppendSession(session(day.Add(72*time.Hour), time.Hour, 30))
	log.AppendSession(session(day.Add(96*time.Hour), 3*time.Hour, 30))

	var buf bytes.Buffer
	if err := RenderSummary(&buf, log, 0); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Period",
		"2 (current)",
		"$160.00",
		"Total: 3 sessions, 12.0 hours, $280.00",
		"Current period:  @",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryClipsSparkline(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	log := model.NewLog()
	for i := 0; i < 40; i++ {
		log.AppendSession(session(day.Add(time.Duration(i)*24*time.Hour), time.Duration(i+1)*time.Minute, 60))
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, log, 26); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	if len(last) != 26 {
		t.Fatalf("sparkline line width = %d, want 26: %q", len(last), last)
	}
}

func TestRenderSummaryEmptyLog(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, model.NewLog(), 0); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if buf.String() != "No sessions recorded.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	if got := TerminalWidth(&bytes.Buffer{}); got != terminalWidthBackup {
		t.Fatalf("TerminalWidth = %d, want %d", got, terminalWidthBackup)
	}
}
