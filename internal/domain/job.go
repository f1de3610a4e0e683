package domain

import (
	"fmt"
	"regexp"
	"time"
)

var jobNumberPattern = regexp.MustCompile(`^[A-Z]{2,4}-[0-9]{1,6}$`)

// Job is a unit of production work (a job sheet).
type Job struct {
	ID                 string
	Number             string
	Title              string
	Customer           string
	Quantity           int
	Status             JobStatus
	AssignedOperatorID *string
	MachineID          *string
	DueDate            *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidateNumber checks the job sheet number format: 2-4 uppercase letters,
// a dash, then 1-6 digits (e.g. JS-1042). An empty number is allowed.
func (j *Job) ValidateNumber() error {
	if j.Number == "" {
		return nil
	}
	if !jobNumberPattern.MatchString(j.Number) {
		return NewValidationError("number", fmt.Sprintf("job number %q must look like JS-1042", j.Number))
	}
	return nil
}

// DisplayID prefers the job sheet number, falling back to a truncated ID.
func (j *Job) DisplayID() string {
	if j.Number != "" {
		return j.Number
	}
	if len(j.ID) >= 8 {
		return j.ID[:8]
	}
	return j.ID
}

// IsTerminal reports whether the job can no longer change status.
func (j *Job) IsTerminal() bool {
	return j.Status == JobCompleted || j.Status == JobCancelled
}

// Start moves a pending job to in_progress. Starting a job that is already
// in progress is a no-op.
func (j *Job) Start(now time.Time) error {
	switch j.Status {
	case JobPending:
		j.Status = JobInProgress
		j.UpdatedAt = now
		return nil
	case JobInProgress:
		return nil
	default:
		return NewConflictError(fmt.Sprintf("job %s is %s", j.DisplayID(), j.Status))
	}
}

// Complete marks the job completed. Completing a completed job keeps the
// original CompletedAt.
func (j *Job) Complete(now time.Time) error {
	switch j.Status {
	case JobPending, JobInProgress:
		j.Status = JobCompleted
		j.CompletedAt = &now
		j.UpdatedAt = now
		return nil
	case JobCompleted:
		return nil
	default:
		return NewConflictError(fmt.Sprintf("job %s is cancelled", j.DisplayID()))
	}
}

// Cancel is allowed from pending or in_progress only.
func (j *Job) Cancel(now time.Time) error {
	if j.IsTerminal() {
		return NewConflictError(fmt.Sprintf("cannot cancel job %s: already %s", j.DisplayID(), j.Status))
	}
	j.Status = JobCancelled
	j.UpdatedAt = now
	return nil
}

// TransitionTo applies the workflow transition for the requested status.
func (j *Job) TransitionTo(status JobStatus, now time.Time) error {
	switch status {
	case JobInProgress:
		return j.Start(now)
	case JobCompleted:
		return j.Complete(now)
	case JobCancelled:
		return j.Cancel(now)
	case JobPending:
		if j.Status == JobPending {
			return nil
		}
		return NewConflictError(fmt.Sprintf("job %s cannot move back to pending", j.DisplayID()))
	default:
		return NewValidationError("status", fmt.Sprintf("unknown job status %q", status))
	}
}
