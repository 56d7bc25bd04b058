// Package history keeps an append-only sqlite log of every notification
// delivery attempt made by the daemon.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id    TEXT    NOT NULL,
    name       TEXT    NOT NULL,
    importance TEXT    NOT NULL,
    reason     TEXT    NOT NULL,
    fired_at   INTEGER NOT NULL,
    delivered  INTEGER NOT NULL,
    error      TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS deliveries_fired_at ON deliveries (fired_at);
`

// ErrClosed is returned by operations on a closed Log.
var ErrClosed = errors.New("history: log is closed")

// Entry is a single delivery attempt.
type Entry struct {
	TaskID     string    `json:"taskId"`
	Name       string    `json:"name"`
	Importance string    `json:"importance"`
	Reason     string    `json:"reason"`
	FiredAt    time.Time `json:"firedAt"`
	Delivered  bool      `json:"delivered"`
	Error      string    `json:"error,omitempty"`
}

// Log is the delivery history database.
type Log struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open history database: %w", err)
	}
	// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot initialize history database: %w", err)
	}
	return &Log{db: db}, nil
}

// Record appends e to the log.
func (l *Log) Record(ctx context.Context, e Entry) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return ErrClosed
	}
	delivered := 0
	if e.Delivered {
		delivered = 1
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO deliveries (task_id, name, importance, reason, fired_at, delivered, error)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.TaskID, e.Name, e.Importance, e.Reason, e.FiredAt.UnixNano(), delivered, e.Error)
	if err != nil {
		return fmt.Errorf("error: failed to record delivery: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT task_id, name, importance, reason, fired_at, delivered, error
        FROM deliveries
        ORDER BY fired_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			firedAt   int64
			delivered int
		)
		if err := rows.Scan(&e.TaskID, &e.Name, &e.Importance, &e.Reason, &firedAt, &delivered, &e.Error); err != nil {
			return nil, fmt.Errorf("error: failed to scan history row: %w", err)
		}
		e.FiredAt = time.Unix(0, firedAt)
		e.Delivered = delivered != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate history rows: %w", err)
	}
	return entries, nil
}

// Close closes the database. Further calls return ErrClosed.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
