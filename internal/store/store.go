// Package store persists the billing log.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/tuibill/internal/model"
)

// Gateway loads and saves whole-log snapshots.
type Gateway interface {
	// Load returns the stored log, or a fresh log when nothing is stored yet.
	Load(ctx context.Context) (model.Log, error)
	// Save replaces the stored log.
	Save(ctx context.Context, log model.Log) error
	Close() error
}

// Open picks a backend for path by extension: SQLite for .db, .sqlite and
// .sqlite3, JSON otherwise.
func Open(path string) (Gateway, error) {
	if IsSQLitePath(path) {
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewJSON(path), nil
}

// IsSQLitePath reports whether path names an SQLite store.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// normalize restores the at-least-one-period invariant and replaces nil
// slices so snapshots encode the same way on every save.
func normalize(log model.Log) model.Log {
	if len(log.Periods) == 0 {
		return model.NewLog()
	}
	for i := range log.Periods {
		if log.Periods[i].Sessions == nil {
			log.Periods[i].Sessions = []model.Session{}
		}
		for j := range log.Periods[i].Sessions {
			if log.Periods[i].Sessions[j].Tags == nil {
				log.Periods[i].Sessions[j].Tags = []model.Tag{}
			}
		}
	}
	return log
}
