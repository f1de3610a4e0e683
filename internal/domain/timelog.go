package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeLogEntry is one continuous work session of an operator on a job.
// A nil EndedAt means the entry is still open.
type TimeLogEntry struct {
	ID                string
	JobID             string
	OperatorID        string
	MachineID         *string
	StartedAt         time.Time
	EndedAt           *time.Time
	BreakMinutes      int
	ProductivityScore *int
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e *TimeLogEntry) IsOpen() bool {
	return e.EndedAt == nil
}

// Duration is the wall-clock span of the entry. Open entries run until now.
func (e *TimeLogEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.EndedAt != nil {
		end = *e.EndedAt
	}
	if end.Before(e.StartedAt) {
		return 0
	}
	return end.Sub(e.StartedAt)
}

// AddBreak accumulates break minutes on an open entry. The entry stays open.
func (e *TimeLogEntry) AddBreak(minutes int, reason string, now time.Time) error {
	if !e.IsOpen() {
		return NewConflictError(fmt.Sprintf("time log entry %s is already closed", e.ID))
	}
	if minutes <= 0 {
		return NewValidationError("minutes", "break minutes must be positive")
	}
	e.BreakMinutes += minutes
	line := fmt.Sprintf("Break %dm", minutes)
	if r := strings.TrimSpace(reason); r != "" {
		line += ": " + r
	}
	e.Notes = appendNote(e.Notes, line)
	e.UpdatedAt = now
	return nil
}

// Close ends the entry, storing the productivity score and final notes.
func (e *TimeLogEntry) Close(now time.Time, notes string, score int) error {
	if !e.IsOpen() {
		return NewConflictError(fmt.Sprintf("time log entry %s is already closed", e.ID))
	}
	if err := ValidateProductivityScore(score); err != nil {
		return err
	}
	ended := now
	if ended.Before(e.StartedAt) {
		ended = e.StartedAt
	}
	e.EndedAt = &ended
	e.ProductivityScore = &score
	e.Notes = appendNote(e.Notes, strings.TrimSpace(notes))
	e.UpdatedAt = now
	return nil
}

// ValidateProductivityScore checks that score lies in [1,10].
func ValidateProductivityScore(score int) error {
	if score < MinProductivityScore || score > MaxProductivityScore {
		return NewValidationError("productivity_score",
			fmt.Sprintf("productivity score must be between %d and %d", MinProductivityScore, MaxProductivityScore))
	}
	return nil
}

// FindOpenEntry returns the open entry of the slice, or nil. When more than
// one entry is open the most recently started one wins.
func FindOpenEntry(entries []*TimeLogEntry) *TimeLogEntry {
	var open *TimeLogEntry
	for _, e := range entries {
		if !e.IsOpen() {
			continue
		}
		if open == nil || e.StartedAt.After(open.StartedAt) {
			open = e
		}
	}
	return open
}

func appendNote(existing, line string) string {
	if line == "" {
		return existing
	}
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
