package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
)

// SQLiteOperatorRepo implements OperatorRepo using a SQLite database.
type SQLiteOperatorRepo struct {
	db db.DBTX
}

func NewSQLiteOperatorRepo(conn db.DBTX) *SQLiteOperatorRepo {
	return &SQLiteOperatorRepo{db: conn}
}

func (r *SQLiteOperatorRepo) Create(ctx context.Context, o *domain.Operator) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO operators (id, name, active, created_at) VALUES (?, ?, ?, ?)`,
		o.ID, o.Name, boolToInt(o.Active), formatTime(o.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("operator %s already exists", o.ID))
		}
		return fmt.Errorf("inserting operator: %w", err)
	}
	return nil
}

func (r *SQLiteOperatorRepo) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, active, created_at FROM operators WHERE id = ?`, id)
	o, err := scanOperatorRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("operator: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning operator: %w", err)
	}
	return o, nil
}

func (r *SQLiteOperatorRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Operator, error) {
	query := `SELECT id, name, active, created_at FROM operators`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	defer rows.Close()

	var ops []*domain.Operator
	for rows.Next() {
		o, err := scanOperatorRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operator row: %w", err)
		}
		ops = append(ops, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operators: %w", err)
	}
	return ops, nil
}

func scanOperatorRow(row rowScanner) (*domain.Operator, error) {
	var o domain.Operator
	var active int
	var createdAtStr string
	if err := row.Scan(&o.ID, &o.Name, &active, &createdAtStr); err != nil {
		return nil, err
	}
	o.Active = intToBool(active)
	var err error
	if o.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &o, nil
}

// SQLiteMachineRepo implements MachineRepo using a SQLite database.
type SQLiteMachineRepo struct {
	db db.DBTX
}

func NewSQLiteMachineRepo(conn db.DBTX) *SQLiteMachineRepo {
	return &SQLiteMachineRepo{db: conn}
}

func (r *SQLiteMachineRepo) Create(ctx context.Context, m *domain.Machine) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO machines (id, name, kind, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Kind, formatTime(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("machine %s already exists", m.ID))
		}
		return fmt.Errorf("inserting machine: %w", err)
	}
	return nil
}

func (r *SQLiteMachineRepo) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, kind, created_at FROM machines WHERE id = ?`, id)
	m, err := scanMachineRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("machine: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning machine: %w", err)
	}
	return m, nil
}

func (r *SQLiteMachineRepo) List(ctx context.Context) ([]*domain.Machine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, kind, created_at FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	defer rows.Close()

	var machines []*domain.Machine
	for rows.Next() {
		m, err := scanMachineRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning machine row: %w", err)
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}
	return machines, nil
}

func scanMachineRow(row rowScanner) (*domain.Machine, error) {
	var m domain.Machine
	var createdAtStr string
	if err := row.Scan(&m.ID, &m.Name, &m.Kind, &createdAtStr); err != nil {
		return nil, err
	}
	var err error
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &m, nil
}
