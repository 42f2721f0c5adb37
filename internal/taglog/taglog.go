// Package taglog collects the notes taken during a session.
package taglog

import (
	"strings"
	"time"

	"github.com/verte-zerg/tuibill/internal/model"
)

// TagLog is an ordered, append-only list of tags.
type TagLog struct {
	tags []model.Tag
}

// New returns an empty TagLog.
func New() *TagLog {
	return &TagLog{tags: []model.Tag{}}
}

// Append records note at the given time. Notes that are empty after trimming
// are rejected and Append reports false.
func (l *TagLog) Append(note string, at time.Time) bool {
	note = strings.TrimSpace(note)
	if note == "" {
		return false
	}
	l.tags = append(l.tags, model.Tag{Note: note, Time: at})
	return true
}

// List returns a copy of the tags in capture order.
func (l *TagLog) List() []model.Tag {
	out := make([]model.Tag, len(l.tags))
	copy(out, l.tags)
	return out
}

// Len returns the number of tags.
func (l *TagLog) Len() int {
	return len(l.tags)
}
