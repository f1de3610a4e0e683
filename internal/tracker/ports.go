package tracker

import (
	"context"

	"github.com/alexanderramin/jobshop/internal/domain"
)

// JobStore is the job side of the backing store.
type JobStore interface {
	ListJobsForOperator(ctx context.Context, operatorID string, includeCompleted bool) ([]*domain.Job, error)
	// SetJobStatus returns domain.ErrNotFound for an unknown job.
	SetJobStatus(ctx context.Context, jobID string, status domain.JobStatus) (*domain.Job, error)
}

// TimeLogStore is the time log side of the backing store.
type TimeLogStore interface {
	ListEntriesForOperator(ctx context.Context, operatorID string) ([]*domain.TimeLogEntry, error)
	// CreateEntry returns a domain.ConflictError when the operator already
	// has an open entry.
	CreateEntry(ctx context.Context, operatorID, jobID string, machineID *string, notes string) (*domain.TimeLogEntry, error)
	AddBreak(ctx context.Context, entryID string, minutes int, reason string) (*domain.TimeLogEntry, error)
	CloseEntry(ctx context.Context, entryID, notes string, score int) (*domain.TimeLogEntry, error)
}
