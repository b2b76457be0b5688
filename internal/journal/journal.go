// Package journal persists panel lifecycle events to SQLite so a run can
// be inspected after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/marcus/modalkit/pkg/modal"
)

// Journal wraps the database connection
type Journal struct {
	conn *sql.DB
	path string
}

// Entry is one recorded lifecycle event
type Entry struct {
	ID        int64
	SessionID string
	Seq       int
	PanelID   string
	Type      modal.EventType
	RelatedID string
	Payload   string
	Timestamp time.Time
}

// Session is one recorded run
type Session struct {
	ID        string
	Namespace string
	Source    string
	StartedAt time.Time
	Events    int
}

// Open opens (creating if needed) the journal at path
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// single writer; the recorder serializes writes anyway
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{conn: conn, path: path}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.conn.Close()
}

// Path returns the database file path
func (j *Journal) Path() string {
	return j.path
}

// StartSession records a new run and returns its id
func (j *Journal) StartSession(ctx context.Context, namespace, source string) (string, error) {
	id := "ses-" + uuid.NewString()[:8]
	_, err := j.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, namespace, source, started_at) VALUES (?, ?, ?, ?)`,
		id, namespace, source, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

// Record inserts entries in one transaction
func (j *Journal) Record(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := j.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (session_id, seq, panel_id, type, related_id, payload, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		ts := e.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.SessionID, e.Seq, e.PanelID, string(e.Type), e.RelatedID, e.Payload, ts.UTC()); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// Filter narrows Recent
type Filter struct {
	SessionID string
	PanelID   string
	Types     []modal.EventType
	Limit     int
}

// Recent returns the newest entries matching f, oldest first
func (j *Journal) Recent(ctx context.Context, f Filter) ([]Entry, error) {
	var where []string
	var args []any
	if f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.PanelID != "" {
		where = append(where, "panel_id = ?")
		args = append(args, f.PanelID)
	}
	if len(f.Types) > 0 {
		marks := make([]string, len(f.Types))
		for i, t := range f.Types {
			marks[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "type IN ("+strings.Join(marks, ", ")+")")
	}

	query := `SELECT id, session_id, seq, panel_id, type, related_id, payload, timestamp FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var typ string
		var related, payload sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.PanelID, &typ, &related, &payload, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = modal.EventType(typ)
		e.RelatedID = related.String
		e.Payload = payload.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// Sessions lists recorded runs, newest first, with their event counts
func (j *Journal) Sessions(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT s.id, s.namespace, s.source, s.started_at, COUNT(e.id)
		FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC, s.rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Namespace, &s.Source, &s.StartedAt, &s.Events); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune deletes events and sessions older than cutoff. Returns events removed.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.conn.ExecContext(ctx,
		`DELETE FROM events WHERE session_id IN (SELECT id FROM sessions WHERE started_at < ?)`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	n, _ := res.RowsAffected()
	if _, err := j.conn.ExecContext(ctx, `DELETE FROM sessions WHERE started_at < ?`, cutoff.UTC()); err != nil {
		return n, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}
