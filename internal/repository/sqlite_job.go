package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
)

const jobColumns = `id, number, title, customer, quantity, status, assigned_operator_id,
	machine_id, due_date, completed_at, created_at, updated_at`

// SQLiteJobRepo implements JobRepo using a SQLite database.
type SQLiteJobRepo struct {
	db db.DBTX
}

// NewSQLiteJobRepo creates a new SQLiteJobRepo. conn may be a *sql.DB or a
// transaction handed out by a UnitOfWork.
func NewSQLiteJobRepo(conn db.DBTX) *SQLiteJobRepo {
	return &SQLiteJobRepo{db: conn}
}

func (r *SQLiteJobRepo) Create(ctx context.Context, j *domain.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		j.ID,
		j.Number,
		j.Title,
		j.Customer,
		j.Quantity,
		string(j.Status),
		nullableStr(j.AssignedOperatorID),
		nullableStr(j.MachineID),
		nullableTimeToString(j.DueDate, timeLayout),
		nullableTimeToString(j.CompletedAt, timeLayout),
		formatTime(j.CreatedAt),
		formatTime(j.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("job number %s already exists", j.Number))
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("inserting job: unknown operator or machine: %w", ErrNotFound)
		}
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (r *SQLiteJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	return r.scanJob(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteJobRepo) GetByNumber(ctx context.Context, number string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE number = ? AND number != ''`
	return r.scanJob(r.db.QueryRowContext(ctx, query, number))
}

func (r *SQLiteJobRepo) List(ctx context.Context, filter JobFilter) ([]*domain.Job, error) {
	var where []string
	var args []any
	switch {
	case filter.Status != "":
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	case !filter.IncludeClosed:
		where = append(where, "status IN ('pending','in_progress')")
	}
	if filter.OperatorID != "" {
		where = append(where, "assigned_operator_id = ?")
		args = append(args, filter.OperatorID)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()
	return r.scanJobs(rows)
}

func (r *SQLiteJobRepo) ListForOperator(ctx context.Context, operatorID string, includeCompleted bool) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE (assigned_operator_id = ?
		       OR id IN (SELECT job_id FROM time_log_entries WHERE operator_id = ?))`
	if !includeCompleted {
		query += ` AND status IN ('pending','in_progress')`
	}
	query += ` ORDER BY created_at, number`

	rows, err := r.db.QueryContext(ctx, query, operatorID, operatorID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for operator: %w", err)
	}
	defer rows.Close()
	return r.scanJobs(rows)
}

func (r *SQLiteJobRepo) Update(ctx context.Context, j *domain.Job) error {
	query := `UPDATE jobs SET number = ?, title = ?, customer = ?, quantity = ?, status = ?,
		assigned_operator_id = ?, machine_id = ?, due_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		j.Number,
		j.Title,
		j.Customer,
		j.Quantity,
		string(j.Status),
		nullableStr(j.AssignedOperatorID),
		nullableStr(j.MachineID),
		nullableTimeToString(j.DueDate, timeLayout),
		nullableTimeToString(j.CompletedAt, timeLayout),
		formatTime(j.UpdatedAt),
		j.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("updating job: unknown operator or machine: %w", ErrNotFound)
		}
		return fmt.Errorf("updating job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", j.ID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteJobRepo) scanJob(row *sql.Row) (*domain.Job, error) {
	j, err := scanJobRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("job: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	return j, nil
}

func (r *SQLiteJobRepo) scanJobs(rows *sql.Rows) ([]*domain.Job, error) {
	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJobRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func scanJobRow(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var status string
	var operatorID, machineID, dueDate, completedAt sql.NullString
	var createdAtStr, updatedAtStr string

	if err := row.Scan(
		&j.ID, &j.Number, &j.Title, &j.Customer, &j.Quantity, &status,
		&operatorID, &machineID, &dueDate, &completedAt, &createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	j.Status = domain.JobStatus(status)
	j.AssignedOperatorID = parseNullableStr(operatorID)
	j.MachineID = parseNullableStr(machineID)
	j.DueDate = parseNullableTime(dueDate, time.RFC3339)
	j.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var err error
	if j.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if j.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &j, nil
}
