package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS operators (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS machines (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		kind       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id                   TEXT PRIMARY KEY,
		number               TEXT NOT NULL DEFAULT '',
		title                TEXT NOT NULL,
		customer             TEXT NOT NULL DEFAULT '',
		quantity             INTEGER NOT NULL DEFAULT 0,
		status               TEXT NOT NULL DEFAULT 'pending'
		                     CHECK(status IN ('pending','in_progress','completed','cancelled')),
		assigned_operator_id TEXT REFERENCES operators(id) ON DELETE SET NULL,
		machine_id           TEXT REFERENCES machines(id) ON DELETE SET NULL,
		due_date             TEXT,
		completed_at         TEXT,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_operator ON jobs(assigned_operator_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_number ON jobs(number) WHERE number != ''`,

	`CREATE TABLE IF NOT EXISTS time_log_entries (
		id                 TEXT PRIMARY KEY,
		job_id             TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		operator_id        TEXT NOT NULL REFERENCES operators(id) ON DELETE CASCADE,
		machine_id         TEXT REFERENCES machines(id) ON DELETE SET NULL,
		started_at         TEXT NOT NULL,
		ended_at           TEXT,
		break_minutes      INTEGER NOT NULL DEFAULT 0 CHECK(break_minutes >= 0),
		productivity_score INTEGER CHECK(productivity_score BETWEEN 1 AND 10),
		notes              TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_operator ON time_log_entries(operator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_job ON time_log_entries(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_started ON time_log_entries(started_at)`,

	// At most one open entry per operator.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_one_open
		ON time_log_entries(operator_id) WHERE ended_at IS NULL`,
}
