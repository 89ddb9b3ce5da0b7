// Package storage is the authoritative record store. It owns per-record
// optimistic concurrency (the version column) and the global revision
// counter, both enforced at the SQL layer.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
)

// New opens the SQLite database at the given path and configures it for a
// single-writer, multi-reader workload: WAL journaling, a 30s busy
// timeout, and a small fixed connection pool.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL lets readers proceed while a writer commits. NORMAL sync is
	// safe under WAL.
	pragmas := []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=30000`,
		`PRAGMA synchronous=NORMAL`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema. It is idempotent and safe to run on every
// startup.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			schema_version INTEGER NOT NULL DEFAULT 1,
			revision_id INTEGER NOT NULL DEFAULT 0,
			generated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`INSERT OR IGNORE INTO meta (id, schema_version, revision_id, generated_at)
		 VALUES (1, 1, 0, datetime('now'));`,
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			email TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			tags TEXT,
			color TEXT,
			updated_at TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			search_keywords TEXT,
			hinweise TEXT,
			copy_paste_text TEXT,
			color TEXT,
			is_super_tag INTEGER,
			is_gvpl_tag INTEGER,
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL,
			created_by TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			header TEXT NOT NULL,
			description TEXT,
			tags TEXT,
			search_keywords TEXT,
			validity_always_valid INTEGER NOT NULL DEFAULT 1,
			validity_valid_from TEXT,
			validity_valid_to TEXT,
			notes TEXT,
			raci_r1_member_id TEXT NOT NULL,
			raci_r2_member_id TEXT,
			raci_r3_member_id TEXT,
			raci_c_member_ids TEXT,
			raci_i_member_ids TEXT,
			updated_at TEXT NOT NULL,
			priority INTEGER,
			has_file_number INTEGER,
			file_number TEXT,
			has_shared_file_path INTEGER,
			shared_file_path TEXT,
			size TEXT,
			version INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE INDEX IF NOT EXISTS idx_topics_header ON topics(header);`,
		`CREATE INDEX IF NOT EXISTS idx_topics_updated_at ON topics(updated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_members_display_name ON members(display_name);`,
		`CREATE INDEX IF NOT EXISTS idx_members_active ON members(active);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

// querier abstracts *sql.DB and *sql.Tx so repo helpers work both inside
// and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runInTx runs fn inside a transaction, committing on nil and rolling
// back on error. Mutations and their revision bump share one transaction
// so they commit or fail together.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Database(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Database(err)
	}
	return nil
}

// now returns the canonical timestamp format for persisted records.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
