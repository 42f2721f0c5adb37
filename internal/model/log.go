package model

import (
	"fmt"
	"time"

	"github.com/verte-zerg/tuibill/internal/earnings"
)

// Period is a billing cycle rendered into one invoice.
type Period struct {
	Sessions []Session `json:"sessions"`
}

// Earned sums the earnings of every session.
func (p Period) Earned() float64 {
	total := 0.0
	for _, s := range p.Sessions {
		total += s.Earned()
	}
	return total
}

// Hours sums the duration of every session in hours.
func (p Period) Hours() float64 {
	total := 0.0
	for _, s := range p.Sessions {
		total += s.Hours()
	}
	return total
}

// RoundedHours is Hours rounded half-up to one decimal for display.
func (p Period) RoundedHours() float64 {
	return earnings.RoundHalfUp(p.Hours(), 1)
}

// Start returns the start of the first session, zero for an empty period.
func (p Period) Start() time.Time {
	if len(p.Sessions) == 0 {
		return time.Time{}
	}
	return p.Sessions[0].Start
}

// End returns the end of the last session, zero for an empty period.
func (p Period) End() time.Time {
	if len(p.Sessions) == 0 {
		return time.Time{}
	}
	return p.Sessions[len(p.Sessions)-1].End
}

// Rows derives the invoice lines. An empty period cannot be rendered.
func (p Period) Rows() ([]Row, error) {
	if len(p.Sessions) == 0 {
		return nil, ErrEmptyPeriod
	}
	rows := make([]Row, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		day := s.Start
		rows = append(rows, Row{
			Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
			Began:     s.Start,
			Completed: s.End,
			Hours:     earnings.RoundHalfUp(s.Hours(), 1),
			Rate:      s.HourlyRate,
			Earned:    s.Earned(),
			Notes:     s.Notes(),
		})
	}
	return rows, nil
}

// Log is the full persisted history of periods. The current period is always
// the last one.
type Log struct {
	Periods []Period `json:"periods"`
}

// NewLog returns a log holding one empty period.
func NewLog() Log {
	return Log{Periods: []Period{{Sessions: []Session{}}}}
}

// CurrentPeriod returns the period new sessions are appended to.
func (l *Log) CurrentPeriod() *Period {
	if len(l.Periods) == 0 {
		l.Periods = append(l.Periods, Period{Sessions: []Session{}})
	}
	return &l.Periods[len(l.Periods)-1]
}

// AppendSession adds s to the current period. No ordering checks are made.
func (l *Log) AppendSession(s Session) {
	p := l.CurrentPeriod()
	p.Sessions = append(p.Sessions, s)
}

// StartNewPeriod opens an empty period that becomes current.
func (l *Log) StartNewPeriod() {
	l.Periods = append(l.Periods, Period{Sessions: []Session{}})
}

// Period selects a period: 0 is the current one, n >= 1 is 1-based.
func (l *Log) Period(n int) (*Period, error) {
	if n == 0 {
		return l.CurrentPeriod(), nil
	}
	if n < 0 || n > len(l.Periods) {
		return nil, fmt.Errorf("%w: %d (log has %d)", ErrPeriodOutOfRange, n, len(l.Periods))
	}
	return &l.Periods[n-1], nil
}

// Earned sums earnings over every period.
func (l Log) Earned() float64 {
	total := 0.0
	for _, p := range l.Periods {
		total += p.Earned()
	}
	return total
}

// Hours sums hours over every period.
func (l Log) Hours() float64 {
	total := 0.0
	for _, p := range l.Periods {
		total += p.Hours()
	}
	return total
}

// SessionCount counts sessions over every period.
func (l Log) SessionCount() int {
	n := 0
	for _, p := range l.Periods {
		n += len(p.Sessions)
	}
	return n
}
