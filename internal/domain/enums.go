package domain

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// ValidJobStatuses is the canonical set of accepted job status strings.
var ValidJobStatuses = map[JobStatus]bool{
	JobPending: true, JobInProgress: true, JobCompleted: true, JobCancelled: true,
}

type SessionState string

const (
	SessionIdle   SessionState = "idle"
	SessionActive SessionState = "active"
	// SessionOnBreak is informational only. A break never stops the clock.
	SessionOnBreak SessionState = "on_break"
)

const (
	MinProductivityScore = 1
	MaxProductivityScore = 10
)
