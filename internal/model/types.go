// Package model defines the billing log data structures.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/verte-zerg/tuibill/internal/earnings"
)

var (
	// ErrEmptyPeriod is returned when a period without sessions is rendered.
	ErrEmptyPeriod = errors.New("period must have at least one session")
	// ErrPeriodOutOfRange is returned for a period index the log does not have.
	ErrPeriodOutOfRange = errors.New("period index out of range")
)

// Tag is a timestamped note captured during a session.
type Tag struct {
	Note string    `json:"note"`
	Time time.Time `json:"time"`
}

// Session is one continuous timed work interval.
type Session struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	HourlyRate float64   `json:"hourly_rate"`
	Tags       []Tag     `json:"tags"`
}

// Duration returns the billed span of the session.
func (s Session) Duration() time.Duration {
	return earnings.Elapsed(s.Start, s.End)
}

// Hours returns the session duration in fractional hours.
func (s Session) Hours() float64 {
	return earnings.Hours(s.Duration())
}

// Earned returns the pay accrued over the session.
func (s Session) Earned() float64 {
	return earnings.Earned(s.HourlyRate, s.Duration())
}

// Notes returns the tag notes in capture order.
func (s Session) Notes() []string {
	notes := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		notes = append(notes, tag.Note)
	}
	return notes
}

// Row is the per-session line an invoice renders.
type Row struct {
	Date      time.Time
	Began     time.Time
	Completed time.Time
	Hours     float64
	Rate      float64
	Earned    float64
	Notes     []string
}

// Activity joins the row notes for a single table cell.
func (r Row) Activity() string {
	return strings.Join(r.Notes, ", ")
}
