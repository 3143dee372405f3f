// Package persistence provides the SQLite-backed run log: one row per run,
// one row per simulation event, plus an end-of-run character snapshot.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/townlife/internal/ecs"
)

// DB wraps a SQLite connection for run logging.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		town TEXT NOT NULL,
		started_at TEXT NOT NULL DEFAULT (datetime('now')),
		months INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS characters (
		run_id TEXT NOT NULL REFERENCES runs(id),
		uid INTEGER NOT NULL,
		name TEXT NOT NULL,
		state_json TEXT NOT NULL,
		PRIMARY KEY (run_id, uid)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun registers a new run and returns its id.
func (db *DB) CreateRun(seed int64, town string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, seed, town) VALUES (?, ?, ?)",
		id, seed, town,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun records the number of months the run completed.
func (db *DB) FinishRun(runID string, months int) error {
	_, err := db.conn.Exec("UPDATE runs SET months = ? WHERE id = ?", months, runID)
	return err
}

// SaveEvents appends a batch of events in one transaction.
func (db *DB) SaveEvents(runID string, events []ecs.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT INTO events (run_id, tick, kind, data_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("marshal event %q: %w", e.Kind, err)
		}
		if _, err := stmt.Exec(runID, e.Tick, e.Kind, string(data)); err != nil {
			return fmt.Errorf("insert event %q: %w", e.Kind, err)
		}
	}

	return tx.Commit()
}

// SaveCharacters snapshots the given entities (full replace for the run).
// Each entity is stored as its serialized component map.
func (db *DB) SaveCharacters(runID string, characters []*ecs.GameObject) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM characters WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO characters (run_id, uid, name, state_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range characters {
		state, err := json.Marshal(g.ToMap())
		if err != nil {
			return fmt.Errorf("marshal character %q: %w", g.Name(), err)
		}
		if _, err := stmt.Exec(runID, g.UID(), g.Name(), string(state)); err != nil {
			return fmt.Errorf("insert character %q: %w", g.Name(), err)
		}
	}

	return tx.Commit()
}

// EventCount returns the number of events logged for a run.
func (db *DB) EventCount(runID string) (int, error) {
	var count int
	err := db.conn.Get(&count, "SELECT COUNT(*) FROM events WHERE run_id = ?", runID)
	return count, err
}

// RecentEvents returns the most recent events for a run, newest first.
func (db *DB) RecentEvents(runID string, limit int) ([]ecs.Event, error) {
	rows, err := db.conn.Queryx(
		"SELECT tick, kind, data_json FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ecs.Event
	for rows.Next() {
		var tick uint64
		var kind, dataJSON string
		if err := rows.Scan(&tick, &kind, &dataJSON); err != nil {
			return nil, err
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, fmt.Errorf("unmarshal event %q: %w", kind, err)
		}
		events = append(events, ecs.Event{Kind: kind, Tick: tick, Data: data})
	}
	return events, rows.Err()
}
