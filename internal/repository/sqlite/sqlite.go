// Package sqlite implements repository.Store on SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary builds
// without cgo. Use ":memory:" for a throwaway database in tests.
//
// Ids are xid strings. Timestamps are stored as RFC3339Nano text so the zone
// a record was written with survives the round trip.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/repository"

	// registers the "sqlite" driver with database/sql
	_ "modernc.org/sqlite"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, applies pragmas and runs migrations.
//
// dbPath examples:
//   - "data/whisper.db" → file-based database
//   - ":memory:"        → in-memory database, gone on Close
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// every pooled connection to ":memory:" is a separate empty database
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. Every statement is idempotent, so it runs on
// each start.
func (db *DB) migrate() error {
	steps := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				created_at    TEXT NOT NULL
			);`},
		{"moods", `
			CREATE TABLE IF NOT EXISTS moods (
				id        TEXT PRIMARY KEY,
				user_id   TEXT NOT NULL REFERENCES users(id),
				mood      TEXT NOT NULL,
				text      TEXT NOT NULL DEFAULT '',
				timestamp TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_moods_user_id ON moods(user_id);`},
		{"journals", `
			CREATE TABLE IF NOT EXISTS journals (
				id        TEXT PRIMARY KEY,
				user_id   TEXT NOT NULL REFERENCES users(id),
				mood      TEXT NOT NULL DEFAULT '',
				text      TEXT NOT NULL,
				timestamp TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_journals_user_id ON journals(user_id);`},
		{"tasks", `
			CREATE TABLE IF NOT EXISTS tasks (
				id      TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				title   TEXT NOT NULL,
				date    TEXT NOT NULL,
				note    TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(user_id, date);`},
		{"encouragements", `
			CREATE TABLE IF NOT EXISTS encouragements (
				id         TEXT PRIMARY KEY,
				text       TEXT NOT NULL,
				author_uid TEXT NOT NULL DEFAULT '',
				timestamp  TEXT NOT NULL
			);`},
		{"saved_encouragements", `
			CREATE TABLE IF NOT EXISTS saved_encouragements (
				id        TEXT PRIMARY KEY,
				user_id   TEXT NOT NULL REFERENCES users(id),
				text      TEXT NOT NULL,
				liked     INTEGER NOT NULL DEFAULT 0,
				timestamp TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_saved_user_id ON saved_encouragements(user_id);`},
		{"question_answers", `
			CREATE TABLE IF NOT EXISTS question_answers (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL REFERENCES users(id),
				question_id   TEXT NOT NULL,
				question_text TEXT NOT NULL,
				answer        TEXT NOT NULL,
				date          TEXT NOT NULL,
				UNIQUE (user_id, date)
			);`},
	}

	for _, s := range steps {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}

	// GitHub login arrived after the users table shipped.
	if err := db.addColumnIfNotExists("users", "github_id", "INTEGER"); err != nil {
		return fmt.Errorf("adding github_id to users: %w", err)
	}
	if _, err := db.conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id ON users(github_id) WHERE github_id IS NOT NULL`,
	); err != nil {
		return fmt.Errorf("creating users github_id index: %w", err)
	}

	return nil
}

// addColumnIfNotExists makes ALTER TABLE ADD COLUMN idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

func newID() string {
	return xid.New().String()
}

// checkID rejects ids that are not xids before any query runs.
func checkID(resource, id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.InvalidID(resource, id)
	}
	return nil
}

// timeLayout is RFC 3339 with a fixed nine-digit fraction. RFC3339Nano trims
// trailing zeros, which breaks ORDER BY on the text column within a second.
// Values written in the same zone sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
// modernc.org/sqlite surfaces it as text only.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// expectOneRow turns a zero-row UPDATE or DELETE into a not-found error.
func expectOneRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
