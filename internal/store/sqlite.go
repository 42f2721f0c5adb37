package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuibill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite stores the log in an SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS periods (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			period_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			hourly_rate REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tags (
			session_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			note TEXT NOT NULL,
			tagged_at TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_period ON sessions(period_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save implements Gateway. The previous snapshot is replaced in one
// transaction.
func (s *SQLite) Save(ctx context.Context, log model.Log) (err error) {
	log = normalize(log)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, stmt := range []string{`DELETE FROM tags`, `DELETE FROM sessions`, `DELETE FROM periods`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	for pi, period := range log.Periods {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `INSERT INTO periods (position) VALUES (?)`, pi)
		if err != nil {
			return fmt.Errorf("failed to insert period: %w", err)
		}
		var periodID int64
		if periodID, err = res.LastInsertId(); err != nil {
			return err
		}
		for si, session := range period.Sessions {
			res, err = tx.ExecContext(ctx,
				`INSERT INTO sessions (period_id, position, started_at, ended_at, hourly_rate)
				 VALUES (?, ?, ?, ?, ?)`,
				periodID,
				si,
				session.Start.Format(time.RFC3339Nano),
				session.End.Format(time.RFC3339Nano),
				session.HourlyRate,
			)
			if err != nil {
				return fmt.Errorf("failed to insert session: %w", err)
			}
			var sessionID int64
			if sessionID, err = res.LastInsertId(); err != nil {
				return err
			}
			for ti, tag := range session.Tags {
				if _, err = tx.ExecContext(ctx,
					`INSERT INTO tags (session_id, position, note, tagged_at) VALUES (?, ?, ?, ?)`,
					sessionID, ti, tag.Note, tag.Time.Format(time.RFC3339Nano),
				); err != nil {
					return fmt.Errorf("failed to insert tag: %w", err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// Load implements Gateway. An empty database yields a fresh log.
func (s *SQLite) Load(ctx context.Context) (model.Log, error) {
	periodIDs, err := s.periodIDs(ctx)
	if err != nil {
		return model.Log{}, err
	}
	if len(periodIDs) == 0 {
		return model.NewLog(), nil
	}
	tagsBySession, err := s.tagsBySession(ctx)
	if err != nil {
		return model.Log{}, err
	}
	sessionsByPeriod, err := s.sessionsByPeriod(ctx, tagsBySession)
	if err != nil {
		return model.Log{}, err
	}

	log := model.Log{Periods: make([]model.Period, 0, len(periodIDs))}
	for _, id := range periodIDs {
		log.Periods = append(log.Periods, model.Period{Sessions: sessionsByPeriod[id]})
	}
	return normalize(log), nil
}

func (s *SQLite) periodIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM periods ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SQLite) sessionsByPeriod(ctx context.Context, tags map[int64][]model.Tag) (map[int64][]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period_id, started_at, ended_at, hourly_rate
		 FROM sessions
		 ORDER BY period_id ASC, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64][]model.Session{}
	for rows.Next() {
		var id, periodID int64
		var startedAt, endedAt string
		var session model.Session
		if err := rows.Scan(&id, &periodID, &startedAt, &endedAt, &session.HourlyRate); err != nil {
			return nil, err
		}
		if session.Start, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if session.End, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		session.Tags = tags[id]
		result[periodID] = append(result[periodID], session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLite) tagsBySession(ctx context.Context) (map[int64][]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, note, tagged_at FROM tags ORDER BY session_id ASC, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64][]model.Tag{}
	for rows.Next() {
		var sessionID int64
		var taggedAt string
		var tag model.Tag
		if err := rows.Scan(&sessionID, &tag.Note, &taggedAt); err != nil {
			return nil, err
		}
		if tag.Time, err = time.Parse(time.RFC3339Nano, taggedAt); err != nil {
			return nil, err
		}
		result[sessionID] = append(result[sessionID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
