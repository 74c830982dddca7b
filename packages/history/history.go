// Package history keeps a local record of pwrun sessions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the history database location relative to the project
var DefaultPath = filepath.Join(".pwrun", "history.db")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	env         TEXT NOT NULL DEFAULT '',
	filter      TEXT NOT NULL DEFAULT '',
	browsers    TEXT NOT NULL DEFAULT '',
	workers     TEXT NOT NULL DEFAULT '',
	run_id      TEXT NOT NULL DEFAULT '',
	command     TEXT NOT NULL DEFAULT '',
	exit_code   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// Entry is one recorded session
type Entry struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Env       string        `json:"env,omitempty"`
	Filter    string        `json:"filter"`
	Browsers  string        `json:"browsers"`
	Workers   string        `json:"workers"`
	RunID     string        `json:"run_id,omitempty"`
	Command   string        `json:"command"`
	ExitCode  int           `json:"exit_code"`
	Duration  time.Duration `json:"duration"`
}

// Passed reports whether the session exited with 0
func (e *Entry) Passed() bool {
	return e.ExitCode == 0
}

// Store is a history database
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return &Store{db: db, queryTimeout: 10 * time.Second}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores e, assigning an id and start time when they are empty
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, env, filter, browsers, workers, run_id, command, exit_code, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StartedAt.UnixMilli(), e.Env, e.Filter, e.Browsers, e.Workers, e.RunID, e.Command,
		e.ExitCode, e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns up to limit sessions, most recent first. limit <= 0 lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT id, started_at, env, filter, browsers, workers, run_id, command, exit_code, duration_ms
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e          Entry
			startedAt  int64
			durationMs int64
		)
		if err := rows.Scan(&e.ID, &startedAt, &e.Env, &e.Filter, &e.Browsers, &e.Workers,
			&e.RunID, &e.Command, &e.ExitCode, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.StartedAt = time.UnixMilli(startedAt)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Last returns the most recent session, or nil when there is none
func (s *Store) Last(ctx context.Context) (*Entry, error) {
	entries, err := s.List(ctx, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}
