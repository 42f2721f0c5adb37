package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func workday(day int, from, to int, rate float64, notes ...string) Session {
	start := time.Date(2024, 1, day, from, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, day, to, 0, 0, 0, time.UTC)
	tags := make([]Tag, 0, len(notes))
	for i, note := range notes {
		tags = append(tags, Tag{Note: note, Time: start.Add(time.Duration(i+1) * time.Minute)})
	}
	return Session{Start: start, End: end, HourlyRate: rate, Tags: tags}
}

func TestNewLogCurrentPeriodIsEmpty(t *testing.T) {
	log := NewLog()
	if len(log.Periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(log.Periods))
	}
	if n := len(log.CurrentPeriod().Sessions); n != 0 {
		t.Fatalf("expected empty current period, got %d sessions", n)
	}
}

func TestCurrentPeriodCreatesWhenMissing(t *testing.T) {
	var log Log
	p := log.CurrentPeriod()
	if p == nil || len(log.Periods) != 1 {
		t.Fatalf("expected current period to be created, periods=%d", len(log.Periods))
	}
}

func TestAppendSessionLandsInNewPeriod(t *testing.T) {
	log := NewLog()
	log.AppendSession(workday(1, 9, 12, 20))
	log.StartNewPeriod()
	log.AppendSession(workday(2, 9, 10, 20))

	if len(log.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(log.Periods))
	}
	if n := len(log.Periods[0].Sessions); n != 1 {
		t.Fatalf("old period has %d sessions, want 1", n)
	}
	if n := len(log.Periods[1].Sessions); n != 1 {
		t.Fatalf("new period has %d sessions, want 1", n)
	}
	if log.CurrentPeriod() != &log.Periods[1] {
		t.Fatalf("current period is not the last period")
	}
}

func TestAppendSessionAcceptsOverlap(t *testing.T) {
	log := NewLog()
	log.AppendSession(workday(2, 9, 12, 20))
	log.AppendSession(workday(1, 10, 11, 20))
	if n := len(log.CurrentPeriod().Sessions); n != 2 {
		t.Fatalf("expected 2 sessions, got %d", n)
	}
}

func TestPeriodEarnedIsSumOfSessions(t *testing.T) {
	if got := (Period{}).Earned(); got != 0 {
		t.Fatalf("empty period earned = %v, want 0", got)
	}
	p := Period{Sessions: []Session{
		workday(1, 9, 17, 20),
		workday(2, 9, 10, 35.5),
		workday(3, 13, 15, 12),
	}}
	want := 0.0
	for _, s := range p.Sessions {
		want += s.Earned()
	}
	if got := p.Earned(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Earned = %v, want %v", got, want)
	}
	if math.Abs(want-(160+35.5+24)) > 1e-9 {
		t.Fatalf("unexpected session earnings sum %v", want)
	}
}

func TestSingleWorkdayRollups(t *testing.T) {
	p := Period{Sessions: []Session{workday(1, 9, 17, 20)}}
	if got := p.Hours(); got != 8.0 {
		t.Fatalf("Hours = %v, want 8.0", got)
	}
	if got := p.Earned(); got != 160.0 {
		t.Fatalf("Earned = %v, want 160.0", got)
	}
	rows, err := p.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Hours != 8.0 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRowsEmptyPeriod(t *testing.T) {
	if _, err := (Period{}).Rows(); !errors.Is(err, ErrEmptyPeriod) {
		t.Fatalf("Rows err = %v, want ErrEmptyPeriod", err)
	}
}

func TestRowsRoundingAndActivity(t *testing.T) {
	start := time.Date(2024, 3, 4, 22, 30, 0, 0, time.UTC)
	s := Session{
		Start:      start,
		End:        start.Add(2*time.Hour + 15*time.Minute),
		HourlyRate: 40,
		Tags: []Tag{
			{Note: "reviewed PR", Time: start.Add(time.Minute)},
			{Note: "deploy", Time: start.Add(time.Hour)},
		},
	}
	rows, err := (Period{Sessions: []Session{s}}).Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row := rows[0]
	if row.Hours != 2.3 {
		t.Fatalf("Hours = %v, want 2.3", row.Hours)
	}
	if row.Activity() != "reviewed PR, deploy" {
		t.Fatalf("Activity = %q", row.Activity())
	}
	if !row.Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date = %v", row.Date)
	}
	if !row.Completed.Equal(start.Add(2*time.Hour + 15*time.Minute)) {
		t.Fatalf("Completed = %v", row.Completed)
	}
}

func TestSessionDurationNeverNegative(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s := Session{Start: start, End: start.Add(-time.Hour), HourlyRate: 20}
	if s.Duration() != 0 || s.Earned() != 0 {
		t.Fatalf("expected zero duration and earnings, got %v %v", s.Duration(), s.Earned())
	}
}

func TestLogPeriodSelector(t *testing.T) {
	log := NewLog()
	log.AppendSession(workday(1, 9, 10, 10))
	log.StartNewPeriod()

	p, err := log.Period(0)
	if err != nil || p != &log.Periods[1] {
		t.Fatalf("Period(0) = %p, %v", p, err)
	}
	p, err = log.Period(1)
	if err != nil || len(p.Sessions) != 1 {
		t.Fatalf("Period(1) = %+v, %v", p, err)
	}
	for _, n := range []int{-1, 3} {
		if _, err := log.Period(n); !errors.Is(err, ErrPeriodOutOfRange) {
			t.Fatalf("Period(%d) err = %v", n, err)
		}
	}
}

func TestLogTotals(t *testing.T) {
	log := NewLog()
	log.AppendSession(workday(1, 9, 17, 20))
	log.StartNewPeriod()
	log.AppendSession(workday(2, 9, 11, 50))
	if got := log.Earned(); math.Abs(got-260) > 1e-9 {
		t.Fatalf("Log.Earned = %v, want 260", got)
	}
	if got := log.Hours(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("Log.Hours = %v, want 10", got)
	}
	if got := log.SessionCount(); got != 2 {
		t.Fatalf("SessionCount = %d, want 2", got)
	}
}
