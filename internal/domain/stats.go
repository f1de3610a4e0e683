package domain

import "time"

// DailyStats aggregates an operator's time log entries for one calendar day.
type DailyStats struct {
	TotalTime          time.Duration
	WorkingTime        time.Duration
	BreakTime          time.Duration
	CompletedJobsCount int
	// Efficiency is WorkingTime as a percentage of TotalTime, 0 when idle all day.
	Efficiency float64
}

// SameLocalDay reports whether a and b fall on the same calendar date in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ComputeDailyStats filters entries to those started on now's local date and
// aggregates them. Open entries count up to now. jobStatus maps job IDs to
// their current status and decides which closed entries count as completed
// jobs.
func ComputeDailyStats(entries []*TimeLogEntry, jobStatus map[string]JobStatus, now time.Time, loc *time.Location) DailyStats {
	var stats DailyStats
	var breakMin int
	for _, e := range entries {
		if !SameLocalDay(e.StartedAt, now, loc) {
			continue
		}
		stats.TotalTime += e.Duration(now)
		breakMin += e.BreakMinutes
		if !e.IsOpen() && jobStatus[e.JobID] == JobCompleted {
			stats.CompletedJobsCount++
		}
	}

	stats.BreakTime = time.Duration(breakMin) * time.Minute
	stats.WorkingTime = stats.TotalTime - stats.BreakTime
	if stats.WorkingTime < 0 {
		stats.WorkingTime = 0
	}
	if stats.TotalTime > 0 {
		stats.Efficiency = float64(stats.WorkingTime) / float64(stats.TotalTime) * 100
	}
	return stats
}
