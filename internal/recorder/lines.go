package recorder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/tuibill/internal/earnings"
)

// StopCommand is the line that ends a line-mode session.
const StopCommand = ":stop"

// maxNoteBytes caps one line-mode note. Longer lines are split into several
// notes instead of failing the scan.
const maxNoteBytes = 64 * 1024

// LineEvents turns lines read from r into events: every line is committed as
// a tag, and StopCommand stops the session. Lines longer than maxNoteBytes
// are committed in pieces. The channel is closed when r hits EOF or fails, or
// when ctx is done.
func LineEvents(ctx context.Context, r io.Reader) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxNoteBytes)
		scanner.Split(scanNotes(maxNoteBytes))
		for scanner.Scan() {
			line := scanner.Text()
			batch := lineToEvents(line)
			for _, ev := range batch {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
			if len(batch) == 1 && batch[0].Kind == EventStop {
				return
			}
		}
	}()
	return events
}

// scanNotes is bufio.ScanLines that emits a full buffer of at most limit
// bytes as its own token, cut on a rune boundary, rather than ErrTooLong.
func scanNotes(limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance > 0 || token != nil || err != nil || len(data) < limit {
			return advance, token, err
		}
		cut := limit
		last := cut - 1
		for last > 0 && !utf8.RuneStart(data[last]) {
			last--
		}
		if last > 0 && !utf8.FullRune(data[last:cut]) {
			cut = last
		}
		return cut, data[:cut], nil
	}
}

func lineToEvents(line string) []Event {
	if strings.TrimSpace(line) == StopCommand {
		return []Event{{Kind: EventStop}}
	}
	return []Event{
		{Kind: EventInput, Runes: []rune(line)},
		{Kind: EventCommit},
	}
}

// PlainRenderer redraws a single status line, for terminals without the TUI.
type PlainRenderer struct {
	W io.Writer
}

// Render implements FrameRenderer.
func (p PlainRenderer) Render(frame Frame) error {
	_, err := fmt.Fprintf(p.W, "\rTime: %s. Earned: %s. Tags: %d.",
		earnings.FormatClock(frame.Elapsed),
		earnings.FormatMoney(frame.Earned),
		len(frame.Tags),
	)
	return err
}
