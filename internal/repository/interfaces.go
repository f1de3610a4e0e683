package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
)

// JobFilter narrows List results. Zero values mean "any".
type JobFilter struct {
	Status     domain.JobStatus
	OperatorID string
	// IncludeClosed keeps completed and cancelled jobs when Status is empty.
	IncludeClosed bool
}

type JobRepo interface {
	Create(ctx context.Context, j *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	GetByNumber(ctx context.Context, number string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	// ListForOperator returns jobs assigned to the operator or carrying at
	// least one of the operator's time log entries.
	ListForOperator(ctx context.Context, operatorID string, includeCompleted bool) ([]*domain.Job, error)
	Update(ctx context.Context, j *domain.Job) error
}

type TimeLogRepo interface {
	Create(ctx context.Context, e *domain.TimeLogEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeLogEntry, error)
	GetOpenByOperator(ctx context.Context, operatorID string) (*domain.TimeLogEntry, error)
	// ListByOperator returns entries started at or after since plus any open
	// entry (all entries when since is nil), newest first.
	ListByOperator(ctx context.Context, operatorID string, since *time.Time) ([]*domain.TimeLogEntry, error)
	ListByJob(ctx context.Context, jobID string) ([]*domain.TimeLogEntry, error)
	Update(ctx context.Context, e *domain.TimeLogEntry) error
}

type OperatorRepo interface {
	Create(ctx context.Context, o *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Operator, error)
}

type MachineRepo interface {
	Create(ctx context.Context, m *domain.Machine) error
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	List(ctx context.Context) ([]*domain.Machine, error)
}
