package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// pragmas run on every open. The pool is pinned to a single connection, so
// they apply to every statement the repositories issue.
var pragmas = []string{
	"journal_mode = WAL",
	"foreign_keys = ON",
	"busy_timeout = 5000",
}

// InitDB opens (creating if needed) the controller database at path and
// brings its schema up to date.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func configure(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			return fmt.Errorf("set PRAGMA %s: %w", p, err)
		}
	}
	return ensureSchema(db)
}

// schema is applied in order inside one transaction. Every statement must be
// idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		repeating BOOLEAN NOT NULL,
		days TEXT NOT NULL,
		schedules TEXT NOT NULL,
		next_dates TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rules_created ON rules (created_at, id)`,

	// single-row tables
	`CREATE TABLE IF NOT EXISTS hold (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		hold_id TEXT NOT NULL,
		value REAL NOT NULL,
		until_time TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		away_temp_c REAL NOT NULL,
		tz_offset_min INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS device_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		target_c REAL NOT NULL,
		from_schedule BOOLEAN NOT NULL,
		hold_id TEXT,
		rule_id TEXT,
		next_change TIMESTAMP,
		summary TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS device_events (
		id TEXT PRIMARY KEY,
		occurred_at TIMESTAMP NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		meta TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_events_occurred ON device_events (occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_device_events_type ON device_events (type, occurred_at)`,

	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL
	)`,
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
