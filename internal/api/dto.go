package api

import (
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/tracker"
)

type jobDTO struct {
	ID                 string     `json:"id"`
	Number             string     `json:"number,omitempty"`
	Title              string     `json:"title"`
	Customer           string     `json:"customer,omitempty"`
	Quantity           int        `json:"quantity"`
	Status             string     `json:"status"`
	AssignedOperatorID *string    `json:"assigned_operator_id,omitempty"`
	MachineID          *string    `json:"machine_id,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toJobDTO(j *domain.Job) *jobDTO {
	if j == nil {
		return nil
	}
	return &jobDTO{
		ID:                 j.ID,
		Number:             j.Number,
		Title:              j.Title,
		Customer:           j.Customer,
		Quantity:           j.Quantity,
		Status:             string(j.Status),
		AssignedOperatorID: j.AssignedOperatorID,
		MachineID:          j.MachineID,
		DueDate:            j.DueDate,
		CompletedAt:        j.CompletedAt,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

func toJobDTOs(jobs []*domain.Job) []*jobDTO {
	out := make([]*jobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobDTO(j))
	}
	return out
}

type entryDTO struct {
	ID                string     `json:"id"`
	JobID             string     `json:"job_id"`
	OperatorID        string     `json:"operator_id"`
	MachineID         *string    `json:"machine_id,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	BreakMinutes      int        `json:"break_minutes"`
	ProductivityScore *int       `json:"productivity_score,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

func toEntryDTO(e *domain.TimeLogEntry) *entryDTO {
	if e == nil {
		return nil
	}
	return &entryDTO{
		ID:                e.ID,
		JobID:             e.JobID,
		OperatorID:        e.OperatorID,
		MachineID:         e.MachineID,
		StartedAt:         e.StartedAt,
		EndedAt:           e.EndedAt,
		BreakMinutes:      e.BreakMinutes,
		ProductivityScore: e.ProductivityScore,
		Notes:             e.Notes,
	}
}

type statsDTO struct {
	TotalSeconds       int64   `json:"total_seconds"`
	WorkingSeconds     int64   `json:"working_seconds"`
	BreakSeconds       int64   `json:"break_seconds"`
	CompletedJobsCount int     `json:"completed_jobs_count"`
	Efficiency         float64 `json:"efficiency"`
}

func toStatsDTO(s domain.DailyStats) statsDTO {
	return statsDTO{
		TotalSeconds:       int64(s.TotalTime / time.Second),
		WorkingSeconds:     int64(s.WorkingTime / time.Second),
		BreakSeconds:       int64(s.BreakTime / time.Second),
		CompletedJobsCount: s.CompletedJobsCount,
		Efficiency:         s.Efficiency,
	}
}

type sessionDTO struct {
	OperatorID     string      `json:"operator_id"`
	State          string      `json:"state"`
	Paused         bool        `json:"paused"`
	ElapsedSeconds int64       `json:"elapsed_seconds"`
	Active         *entryDTO   `json:"active,omitempty"`
	ActiveJob      *jobDTO     `json:"active_job,omitempty"`
	Jobs           []*jobDTO   `json:"jobs"`
	Entries        []*entryDTO `json:"entries"`
	RefreshedAt    *time.Time  `json:"refreshed_at,omitempty"`
}

func toSessionDTO(snap tracker.Snapshot, elapsed time.Duration) sessionDTO {
	out := sessionDTO{
		OperatorID:     snap.OperatorID,
		State:          string(snap.State),
		Paused:         snap.Paused,
		ElapsedSeconds: int64(elapsed / time.Second),
		Active:         toEntryDTO(snap.Active),
		ActiveJob:      toJobDTO(snap.ActiveJob()),
		Jobs:           toJobDTOs(snap.Jobs),
		Entries:        make([]*entryDTO, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		out.Entries = append(out.Entries, toEntryDTO(e))
	}
	if !snap.RefreshedAt.IsZero() {
		t := snap.RefreshedAt
		out.RefreshedAt = &t
	}
	return out
}

type completionDTO struct {
	ClosedEntry *entryDTO `json:"closed_entry,omitempty"`
	Job         *jobDTO   `json:"job,omitempty"`
	Error       string    `json:"error,omitempty"`
}

func toCompletionDTO(c *tracker.Completion) completionDTO {
	if c == nil {
		return completionDTO{}
	}
	return completionDTO{ClosedEntry: toEntryDTO(c.ClosedEntry), Job: toJobDTO(c.Job)}
}

type operatorDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type machineDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}
