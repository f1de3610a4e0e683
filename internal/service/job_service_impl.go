package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/events"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/google/uuid"
)

type jobService struct {
	jobs      repository.JobRepo
	uow       db.UnitOfWork
	publisher events.Publisher
	observer  UseCaseObserver
}

func NewJobService(
	jobs repository.JobRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) JobService {
	return &jobService{
		jobs:      jobs,
		uow:       uow,
		publisher: publisherOrNoop(publisher),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *jobService) Create(ctx context.Context, j *domain.Job) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"number": j.Number}
	defer func() { observeUseCase(ctx, s.observer, "create-job", startedAt, fields, err) }()

	j.Title = strings.TrimSpace(j.Title)
	j.Number = strings.ToUpper(strings.TrimSpace(j.Number))
	if j.Title == "" {
		return domain.NewValidationError("title", "job title is required")
	}
	if err := j.ValidateNumber(); err != nil {
		return err
	}
	if j.Quantity < 0 {
		return domain.NewValidationError("quantity", "quantity cannot be negative")
	}

	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = domain.JobPending
	}
	if !domain.ValidJobStatuses[j.Status] {
		return domain.NewValidationError("status", fmt.Sprintf("unknown job status %q", j.Status))
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	fields["job_id"] = j.ID

	return s.jobs.Create(ctx, j)
}

func (s *jobService) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *jobService) Resolve(ctx context.Context, ref string) (*domain.Job, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.NewValidationError("job", "job reference is required")
	}
	j, err := s.jobs.GetByID(ctx, ref)
	if err == nil {
		return j, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	j, err = s.jobs.GetByNumber(ctx, strings.ToUpper(ref))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("job %q: %w", ref, domain.ErrNotFound)
		}
		return nil, err
	}
	return j, nil
}

func (s *jobService) List(ctx context.Context, filter repository.JobFilter) ([]*domain.Job, error) {
	if filter.Status != "" && !domain.ValidJobStatuses[filter.Status] {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown job status %q", filter.Status))
	}
	return s.jobs.List(ctx, filter)
}

// Assign hands the job to an operator and optionally a machine. Closed jobs
// cannot be reassigned.
func (s *jobService) Assign(ctx context.Context, jobID, operatorID string, machineID *string) (job *domain.Job, err error) {
	startedAt := time.Now()
	fields := map[string]any{"job_id": jobID, "operator_id": operatorID}
	defer func() { observeUseCase(ctx, s.observer, "assign-job", startedAt, fields, err) }()

	if strings.TrimSpace(operatorID) == "" {
		return nil, domain.NewValidationError("operator", "operator is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txJobs := repository.NewSQLiteJobRepo(tx)

		if _, err := repository.NewSQLiteOperatorRepo(tx).GetByID(ctx, operatorID); err != nil {
			return err
		}
		if machineID != nil {
			if _, err := repository.NewSQLiteMachineRepo(tx).GetByID(ctx, *machineID); err != nil {
				return err
			}
		}

		j, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if j.IsTerminal() {
			return domain.NewConflictError(fmt.Sprintf("cannot assign job %s: already %s", j.DisplayID(), j.Status))
		}
		j.AssignedOperatorID = &operatorID
		if machineID != nil {
			j.MachineID = machineID
		}
		j.UpdatedAt = time.Now().UTC()
		if err := txJobs.Update(ctx, j); err != nil {
			return err
		}
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Cancel(ctx context.Context, jobID string) (job *domain.Job, err error) {
	startedAt := time.Now()
	fields := map[string]any{"job_id": jobID}
	defer func() { observeUseCase(ctx, s.observer, "cancel-job", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txJobs := repository.NewSQLiteJobRepo(tx)

		j, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		open, err := repository.NewSQLiteTimeLogRepo(tx).ListByJob(ctx, jobID)
		if err != nil {
			return err
		}
		if domain.FindOpenEntry(open) != nil {
			return domain.NewConflictError(fmt.Sprintf("job %s has an operator clocked in", j.DisplayID()))
		}
		if err := j.Cancel(time.Now().UTC()); err != nil {
			return err
		}
		if err := txJobs.Update(ctx, j); err != nil {
			return err
		}
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishCommitted(ctx, s.publisher, s.observer, events.Event{
		Type:       events.JobStatusChanged,
		Timestamp:  job.UpdatedAt,
		JobID:      job.ID,
		OperatorID: domain.StrFromPtr(job.AssignedOperatorID),
		JobStatus:  string(job.Status),
	})
	return job, nil
}
