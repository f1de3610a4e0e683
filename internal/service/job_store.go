package service

import (
	"context"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/events"
	"github.com/alexanderramin/jobshop/internal/repository"
)

// JobStore serves job reads and status transitions to the session tracker.
type JobStore struct {
	jobs      repository.JobRepo
	uow       db.UnitOfWork
	publisher events.Publisher
	observer  UseCaseObserver
	now       func() time.Time
}

func NewJobStore(
	jobs repository.JobRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) *JobStore {
	return &JobStore{
		jobs:      jobs,
		uow:       uow,
		publisher: publisherOrNoop(publisher),
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobStore) ListJobsForOperator(ctx context.Context, operatorID string, includeCompleted bool) ([]*domain.Job, error) {
	return s.jobs.ListForOperator(ctx, operatorID, includeCompleted)
}

// SetJobStatus applies the workflow transition to status. Repeating the
// current status is a no-op and publishes nothing.
func (s *JobStore) SetJobStatus(ctx context.Context, jobID string, status domain.JobStatus) (job *domain.Job, err error) {
	startedAt := time.Now()
	fields := map[string]any{"job_id": jobID, "status": string(status)}
	defer func() { observeUseCase(ctx, s.observer, "set-job-status", startedAt, fields, err) }()

	var previous domain.JobStatus
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txJobs := repository.NewSQLiteJobRepo(tx)

		j, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		previous = j.Status
		if err := j.TransitionTo(status, s.now()); err != nil {
			return err
		}
		if j.Status != previous {
			if err := txJobs.Update(ctx, j); err != nil {
				return err
			}
		}
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["previous_status"] = string(previous)
	if job.Status != previous {
		publishCommitted(ctx, s.publisher, s.observer, events.Event{
			Type:       events.JobStatusChanged,
			Timestamp:  job.UpdatedAt,
			JobID:      job.ID,
			OperatorID: domain.StrFromPtr(job.AssignedOperatorID),
			JobStatus:  string(job.Status),
		})
	}
	return job, nil
}
