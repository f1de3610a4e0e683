package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
)

const entryColumns = `id, job_id, operator_id, machine_id, started_at, ended_at,
	break_minutes, productivity_score, notes, created_at, updated_at`

// SQLiteTimeLogRepo implements TimeLogRepo using a SQLite database.
type SQLiteTimeLogRepo struct {
	db db.DBTX
}

func NewSQLiteTimeLogRepo(conn db.DBTX) *SQLiteTimeLogRepo {
	return &SQLiteTimeLogRepo{db: conn}
}

// Create inserts a new entry. A second open entry for the same operator is
// rejected by the idx_entries_one_open index and reported as a ConflictError.
func (r *SQLiteTimeLogRepo) Create(ctx context.Context, e *domain.TimeLogEntry) error {
	query := `INSERT INTO time_log_entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.JobID,
		e.OperatorID,
		nullableStr(e.MachineID),
		formatTime(e.StartedAt),
		nullableTimeToString(e.EndedAt, timeLayout),
		e.BreakMinutes,
		nullableIntToValue(e.ProductivityScore),
		e.Notes,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("operator %s already has an active job", e.OperatorID))
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("inserting time log entry: unknown job or operator: %w", ErrNotFound)
		}
		return fmt.Errorf("inserting time log entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeLogRepo) GetByID(ctx context.Context, id string) (*domain.TimeLogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_log_entries WHERE id = ?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTimeLogRepo) GetOpenByOperator(ctx context.Context, operatorID string) (*domain.TimeLogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_log_entries
		WHERE operator_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, operatorID))
}

func (r *SQLiteTimeLogRepo) ListByOperator(ctx context.Context, operatorID string, since *time.Time) ([]*domain.TimeLogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_log_entries WHERE operator_id = ?`
	args := []any{operatorID}
	if since != nil {
		query += ` AND (started_at >= ? OR ended_at IS NULL)`
		args = append(args, formatTime(*since))
	}
	query += ` ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries by operator: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTimeLogRepo) ListByJob(ctx context.Context, jobID string) ([]*domain.TimeLogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_log_entries WHERE job_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing entries by job: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTimeLogRepo) Update(ctx context.Context, e *domain.TimeLogEntry) error {
	query := `UPDATE time_log_entries SET machine_id = ?, ended_at = ?, break_minutes = ?,
		productivity_score = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStr(e.MachineID),
		nullableTimeToString(e.EndedAt, timeLayout),
		e.BreakMinutes,
		nullableIntToValue(e.ProductivityScore),
		e.Notes,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time log entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating time log entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("time log entry %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTimeLogRepo) scanEntry(row *sql.Row) (*domain.TimeLogEntry, error) {
	e, err := scanEntryRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("time log entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time log entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteTimeLogRepo) scanEntries(rows *sql.Rows) ([]*domain.TimeLogEntry, error) {
	var entries []*domain.TimeLogEntry
	for rows.Next() {
		e, err := scanEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning time log entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time log entries: %w", err)
	}
	return entries, nil
}

func scanEntryRow(row rowScanner) (*domain.TimeLogEntry, error) {
	var e domain.TimeLogEntry
	var machineID, endedAt sql.NullString
	var score sql.NullInt64
	var startedAtStr, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&e.ID, &e.JobID, &e.OperatorID, &machineID, &startedAtStr, &endedAt,
		&e.BreakMinutes, &score, &e.Notes, &createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	e.MachineID = parseNullableStr(machineID)
	e.EndedAt = parseNullableTime(endedAt, time.RFC3339)
	e.ProductivityScore = parseNullableInt(score)

	var err error
	if e.StartedAt, err = time.Parse(time.RFC3339, startedAtStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
