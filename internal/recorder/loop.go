package recorder

import (
	"context"
	"fmt"

	"github.com/verte-zerg/tuibill/internal/model"
)

// EventKind identifies an input event.
type EventKind int

const (
	// EventInput appends Runes to the pending note.
	EventInput EventKind = iota
	// EventBackspace removes the last pending rune.
	EventBackspace
	// EventCommit commits the pending note as a tag.
	EventCommit
	// EventStop ends the session.
	EventStop
)

// Event is one user action delivered to the loop.
type Event struct {
	Kind  EventKind
	Runes []rune
}

// Frame is everything a renderer needs to draw the session.
type Frame struct {
	Snapshot
	Rate    float64
	Tags    []model.Tag
	Pending string
}

// FrameRenderer draws frames.
type FrameRenderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to FrameRenderer.
type RendererFunc func(Frame) error

// Render implements FrameRenderer.
func (f RendererFunc) Render(frame Frame) error {
	return f(frame)
}

// Frame builds the current frame.
func (r *Recorder) Frame() Frame {
	return Frame{
		Snapshot: r.Tick(),
		Rate:     r.rate,
		Tags:     r.tags.List(),
		Pending:  r.Pending(),
	}
}

// Apply feeds one event to the state machine. It returns the finished session
// and true when the event stopped the recorder.
func (r *Recorder) Apply(ev Event) (model.Session, bool, error) {
	switch ev.Kind {
	case EventInput:
		r.Input(ev.Runes)
	case EventBackspace:
		r.Backspace()
	case EventCommit:
		r.Commit()
	case EventStop:
		session, err := r.Stop()
		if err != nil {
			return model.Session{}, false, err
		}
		return session, true, nil
	}
	return model.Session{}, false, nil
}

// Run is the session event loop. It redraws, then waits for the next tick or
// the next event, whichever comes first, until a stop event arrives. A closed
// event channel or a cancelled context discards the session.
func (r *Recorder) Run(ctx context.Context, events <-chan Event, out FrameRenderer) (model.Session, error) {
	if r.state != Running {
		return model.Session{}, ErrStopped
	}
	for {
		if err := out.Render(r.Frame()); err != nil {
			return model.Session{}, fmt.Errorf("failed to render frame: %w", err)
		}
		select {
		case <-ctx.Done():
			return model.Session{}, fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
		case ev, ok := <-events:
			if !ok {
				return model.Session{}, ErrInputClosed
			}
			session, stopped, err := r.Apply(ev)
			if err != nil {
				return model.Session{}, err
			}
			if stopped {
				return session, nil
			}
		case <-r.clock.After(r.tick):
		}
	}
}
