package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/google/uuid"
)

var testJobNumberCounter atomic.Int64

// now is truncated to the second so fixtures survive the RFC3339 round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewTestOperator(name string) *domain.Operator {
	return &domain.Operator{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: now(),
	}
}

func NewTestMachine(name, kind string) *domain.Machine {
	return &domain.Machine{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      kind,
		CreatedAt: now(),
	}
}

// Job options
type JobOption func(*domain.Job)

func WithJobStatus(s domain.JobStatus) JobOption {
	return func(j *domain.Job) {
		j.Status = s
	}
}

func WithJobNumber(n string) JobOption {
	return func(j *domain.Job) {
		j.Number = n
	}
}

func WithAssignedOperator(id string) JobOption {
	return func(j *domain.Job) {
		j.AssignedOperatorID = &id
	}
}

func WithJobMachine(id string) JobOption {
	return func(j *domain.Job) {
		j.MachineID = &id
	}
}

func WithJobDueDate(d time.Time) JobOption {
	return func(j *domain.Job) {
		j.DueDate = &d
	}
}

func NewTestJob(title string, opts ...JobOption) *domain.Job {
	ts := now()
	j := &domain.Job{
		ID:        uuid.New().String(),
		Number:    fmt.Sprintf("JS-%d", testJobNumberCounter.Add(1)),
		Title:     title,
		Customer:  "Acme Print",
		Quantity:  500,
		Status:    domain.JobPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Entry options
type EntryOption func(*domain.TimeLogEntry)

func WithEntryStartedAt(t time.Time) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.StartedAt = t
	}
}

// WithEntryEndedAt closes the entry at t with a default score of 8.
func WithEntryEndedAt(t time.Time) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.EndedAt = &t
		if e.ProductivityScore == nil {
			score := 8
			e.ProductivityScore = &score
		}
	}
}

func WithBreakMinutes(m int) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.BreakMinutes = m
	}
}

func WithEntryNotes(n string) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.Notes = n
	}
}

func WithEntryMachine(id string) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.MachineID = &id
	}
}

func WithProductivityScore(s int) EntryOption {
	return func(e *domain.TimeLogEntry) {
		e.ProductivityScore = &s
	}
}

// NewTestEntry returns an open entry started an hour ago.
func NewTestEntry(jobID, operatorID string, opts ...EntryOption) *domain.TimeLogEntry {
	ts := now()
	e := &domain.TimeLogEntry{
		ID:         uuid.New().String(),
		JobID:      jobID,
		OperatorID: operatorID,
		StartedAt:  ts.Add(-time.Hour),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
