package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/events"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/google/uuid"
)

// entryHistoryWindow bounds how far back ListEntriesForOperator reaches.
// Open entries are always returned regardless of age.
const entryHistoryWindow = 7 * 24 * time.Hour

// TimeLogStore owns time log entries: clock-in, breaks and clock-out.
type TimeLogStore struct {
	entries   repository.TimeLogRepo
	uow       db.UnitOfWork
	publisher events.Publisher
	observer  UseCaseObserver
	now       func() time.Time
}

func NewTimeLogStore(
	entries repository.TimeLogRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) *TimeLogStore {
	return &TimeLogStore{
		entries:   entries,
		uow:       uow,
		publisher: publisherOrNoop(publisher),
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *TimeLogStore) ListEntriesForOperator(ctx context.Context, operatorID string) ([]*domain.TimeLogEntry, error) {
	since := s.now().Add(-entryHistoryWindow)
	return s.entries.ListByOperator(ctx, operatorID, &since)
}

// CreateEntry opens a new entry for the operator on jobID. The machine
// defaults to the job's machine. A pending job moves to in_progress in the
// same transaction.
func (s *TimeLogStore) CreateEntry(ctx context.Context, operatorID, jobID string, machineID *string, notes string) (entry *domain.TimeLogEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"operator_id": operatorID, "job_id": jobID}
	defer func() { observeUseCase(ctx, s.observer, "create-entry", startedAt, fields, err) }()

	now := s.now()
	var jobStarted bool
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txJobs := repository.NewSQLiteJobRepo(tx)
		txEntries := repository.NewSQLiteTimeLogRepo(tx)

		job, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return domain.NewConflictError(fmt.Sprintf("job %s is %s", job.DisplayID(), job.Status))
		}

		open, err := txEntries.GetOpenByOperator(ctx, operatorID)
		switch {
		case err == nil:
			return domain.NewConflictError(fmt.Sprintf("operator %s already has an active job (entry %s)", operatorID, open.ID))
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if machineID == nil {
			machineID = job.MachineID
		}
		e := &domain.TimeLogEntry{
			ID:         uuid.New().String(),
			JobID:      jobID,
			OperatorID: operatorID,
			MachineID:  machineID,
			StartedAt:  now,
			Notes:      notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := txEntries.Create(ctx, e); err != nil {
			return err
		}

		if job.Status == domain.JobPending {
			if err := job.Start(now); err != nil {
				return err
			}
			if err := txJobs.Update(ctx, job); err != nil {
				return err
			}
			jobStarted = true
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["entry_id"] = entry.ID
	publishCommitted(ctx, s.publisher, s.observer, events.Event{
		Type:       events.EntryOpened,
		Timestamp:  entry.StartedAt,
		OperatorID: operatorID,
		JobID:      jobID,
		EntryID:    entry.ID,
	})
	if jobStarted {
		publishCommitted(ctx, s.publisher, s.observer, events.Event{
			Type:       events.JobStatusChanged,
			Timestamp:  now,
			OperatorID: operatorID,
			JobID:      jobID,
			JobStatus:  string(domain.JobInProgress),
		})
	}
	return entry, nil
}

// AddBreak adds minutes to the entry's break total. The entry stays open.
func (s *TimeLogStore) AddBreak(ctx context.Context, entryID string, minutes int, reason string) (entry *domain.TimeLogEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"entry_id": entryID, "minutes": minutes}
	defer func() { observeUseCase(ctx, s.observer, "add-break", startedAt, fields, err) }()

	entry, err = s.mutateEntry(ctx, entryID, func(e *domain.TimeLogEntry, now time.Time) error {
		return e.AddBreak(minutes, reason, now)
	})
	if err != nil {
		return nil, err
	}

	publishCommitted(ctx, s.publisher, s.observer, events.Event{
		Type:       events.EntryBreakAdded,
		Timestamp:  entry.UpdatedAt,
		OperatorID: entry.OperatorID,
		JobID:      entry.JobID,
		EntryID:    entry.ID,
		Minutes:    minutes,
	})
	return entry, nil
}

// CloseEntry ends the entry with the given notes and productivity score.
func (s *TimeLogStore) CloseEntry(ctx context.Context, entryID, notes string, score int) (entry *domain.TimeLogEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"entry_id": entryID, "score": score}
	defer func() { observeUseCase(ctx, s.observer, "close-entry", startedAt, fields, err) }()

	entry, err = s.mutateEntry(ctx, entryID, func(e *domain.TimeLogEntry, now time.Time) error {
		return e.Close(now, notes, score)
	})
	if err != nil {
		return nil, err
	}

	publishCommitted(ctx, s.publisher, s.observer, events.Event{
		Type:       events.EntryClosed,
		Timestamp:  *entry.EndedAt,
		OperatorID: entry.OperatorID,
		JobID:      entry.JobID,
		EntryID:    entry.ID,
		Minutes:    entry.BreakMinutes,
		Score:      score,
	})
	return entry, nil
}

func (s *TimeLogStore) mutateEntry(ctx context.Context, entryID string, apply func(e *domain.TimeLogEntry, now time.Time) error) (*domain.TimeLogEntry, error) {
	var entry *domain.TimeLogEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteTimeLogRepo(tx)

		e, err := txEntries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if err := apply(e, s.now()); err != nil {
			return err
		}
		if err := txEntries.Update(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}
