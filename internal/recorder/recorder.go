// Package recorder drives a live work session from start to stop.
package recorder

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/verte-zerg/tuibill/internal/clock"
	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
	"github.com/verte-zerg/tuibill/internal/taglog"
)

// State is the recorder lifecycle state.
type State int

const (
	// Running accepts ticks, input and tag commits.
	Running State = iota
	// Stopped is terminal; the session has been produced.
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrStopped is returned when a stopped recorder is stopped again.
	ErrStopped = errors.New("session already stopped")
	// ErrInputClosed reports that the input source went away mid-session.
	ErrInputClosed = errors.New("input source closed; session discarded")
	// ErrAborted reports a session cancelled before it was stopped.
	ErrAborted = errors.New("session aborted; session discarded")
)

// Snapshot is the live elapsed/earned reading at a tick.
type Snapshot struct {
	At      time.Time
	Elapsed time.Duration
	Earned  float64
}

// Recorder is the session state machine.
type Recorder struct {
	clock   clock.Clock
	rate    float64
	start   time.Time
	tick    time.Duration
	tags    *taglog.TagLog
	pending []rune
	state   State
}

// New validates the rate and starts a session now, backdated by
// catchUpMinutes.
func New(clk clock.Clock, rate, catchUpMinutes float64) (*Recorder, error) {
	tick, err := earnings.TickInterval(rate)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Recorder{
		clock: clk,
		rate:  rate,
		start: earnings.EffectiveStart(clk.Now(), catchUpMinutes),
		tick:  tick,
		tags:  taglog.New(),
		state: Running,
	}, nil
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	return r.state
}

// Start returns the effective start of the session.
func (r *Recorder) Start() time.Time {
	return r.start
}

// Rate returns the hourly rate.
func (r *Recorder) Rate() float64 {
	return r.rate
}

// TickInterval returns the redraw cadence.
func (r *Recorder) TickInterval() time.Duration {
	return r.tick
}

// Tick reads the clock and returns the current elapsed/earned values.
func (r *Recorder) Tick() Snapshot {
	now := r.clock.Now()
	elapsed := earnings.Elapsed(r.start, now)
	return Snapshot{
		At:      now,
		Elapsed: elapsed,
		Earned:  earnings.Earned(r.rate, elapsed),
	}
}

// Input appends runes to the pending note. Control runes such as pasted
// newlines and tabs become spaces so a note stays on one line.
func (r *Recorder) Input(runes []rune) {
	if r.state != Running {
		return
	}
	for _, ch := range runes {
		if unicode.IsControl(ch) {
			ch = ' '
		}
		r.pending = append(r.pending, ch)
	}
}

// Backspace removes the last pending rune.
func (r *Recorder) Backspace() {
	if r.state != Running || len(r.pending) == 0 {
		return
	}
	r.pending = r.pending[:len(r.pending)-1]
}

// Pending returns the uncommitted note text.
func (r *Recorder) Pending() string {
	return string(r.pending)
}

// Commit turns the pending note into a tag and clears the buffer. Blank input
// adds nothing and Commit reports false.
func (r *Recorder) Commit() bool {
	if r.state != Running {
		return false
	}
	note := string(r.pending)
	r.pending = nil
	return r.tags.Append(note, r.clock.Now())
}

// Tags returns the tags committed so far.
func (r *Recorder) Tags() []model.Tag {
	return r.tags.List()
}

// Stop ends the session and returns it.
func (r *Recorder) Stop() (model.Session, error) {
	if r.state != Running {
		return model.Session{}, ErrStopped
	}
	r.state = Stopped
	end := r.clock.Now()
	if end.Before(r.start) {
		end = r.start
	}
	return model.Session{
		Start:      r.start,
		End:        end,
		HourlyRate: r.rate,
		Tags:       r.tags.List(),
	}, nil
}
