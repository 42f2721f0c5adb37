package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	dateLayout          = "2006-01-02"
)

// PeriodSummary is the rollup of one period.
type PeriodSummary struct {
	Index    int
	Current  bool
	Sessions int
	Hours    float64
	Earned   float64
	Range    string
}

// Summarize rolls up every period of the log, oldest first. Index is 1-based.
func Summarize(log model.Log) []PeriodSummary {
	out := make([]PeriodSummary, 0, len(log.Periods))
	for i, p := range log.Periods {
		out = append(out, PeriodSummary{
			Index:    i + 1,
			Current:  i == len(log.Periods)-1,
			Sessions: len(p.Sessions),
			Hours:    p.Hours(),
			Earned:   p.Earned(),
			Range:    PeriodRange(p),
		})
	}
	return out
}

// PeriodRange formats the dates a period spans, or "-" when it is empty.
func PeriodRange(p model.Period) string {
	if len(p.Sessions) == 0 {
		return "-"
	}
	start := p.Start().Format(dateLayout)
	end := p.End().Format(dateLayout)
	if start == end {
		return start
	}
	return start + " to " + end
}

// SessionEarnings lists the earnings of each session in the period.
func SessionEarnings(p model.Period) []float64 {
	values := make([]float64, len(p.Sessions))
	for i, s := range p.Sessions {
		values[i] = s.Earned()
	}
	return values
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the per-period table, log totals and a sparkline of
// current-period session earnings clipped to width columns (0 = no limit).
func RenderSummary(w io.Writer, log model.Log, width int) error {
	summaries := Summarize(log)
	if log.SessionCount() == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded.")
		return err
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		label := fmt.Sprintf("%d", s.Index)
		if s.Current {
			label += " (current)"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%d", s.Sessions),
			fmt.Sprintf("%.1f", earnings.RoundHalfUp(s.Hours, 1)),
			earnings.FormatMoney(s.Earned),
			s.Range,
		})
	}
	lines := FormatTable(
		[]string{"Period", "Sessions", "Hours", "Earned", "Dates"},
		rows,
		map[int]bool{1: true, 2: true, 3: true},
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %d sessions, %.1f hours, %s\n",
		log.SessionCount(),
		earnings.RoundHalfUp(log.Hours(), 1),
		earnings.FormatMoney(log.Earned()),
	); err != nil {
		return err
	}

	values := SessionEarnings(*log.CurrentPeriod())
	if len(values) == 0 {
		return nil
	}
	const label = "Current period: "
	if width > 0 {
		limit := width - len(label)
		if limit < 1 {
			limit = 1
		}
		if len(values) > limit {
			values = values[len(values)-limit:]
		}
	}
	_, err := fmt.Fprintf(w, "%s%s\n", label, Sparkline(values))
	return err
}

// TerminalWidth returns the column count of w when it is a terminal, or a
// fallback otherwise.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
