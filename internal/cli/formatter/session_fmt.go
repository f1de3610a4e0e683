package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
)

const efficiencyBarWidth = 16

// SessionView is what FormatSession needs from a tracker snapshot.
type SessionView struct {
	OperatorID  string
	State       domain.SessionState
	Active      *domain.TimeLogEntry
	ActiveJob   *domain.Job
	Elapsed     time.Duration
	RefreshedAt time.Time
}

// FormatSession renders the operator's current clock state.
func FormatSession(v SessionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", SessionBadge(v.State), Dim("operator "+v.OperatorID))

	if v.Active == nil {
		b.WriteString("\n" + Dim("Not clocked in."))
	} else {
		label := v.Active.JobID
		title := ""
		if v.ActiveJob != nil {
			label = v.ActiveJob.DisplayID()
			title = v.ActiveJob.Title
		}
		fmt.Fprintf(&b, "\n%s %s\n", Bold(label), title)
		fmt.Fprintf(&b, "%s %s\n", Dim("Elapsed   "), StyleHeader.Render(FormatClock(v.Elapsed)))
		fmt.Fprintf(&b, "%s %s\n", Dim("Started   "), v.Active.StartedAt.Local().Format("15:04"))
		fmt.Fprintf(&b, "%s %s", Dim("Breaks    "), FormatMinutes(v.Active.BreakMinutes))
	}
	if !v.RefreshedAt.IsZero() {
		fmt.Fprintf(&b, "\n\n%s", Dim("updated "+v.RefreshedAt.Local().Format("15:04:05")))
	}
	return RenderBox("Session", b.String()) + "\n"
}

// FormatStats renders today's totals with an efficiency bar.
func FormatStats(s domain.DailyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Total     "), FormatDuration(s.TotalTime))
	fmt.Fprintf(&b, "%s %s\n", Dim("Working   "), FormatDuration(s.WorkingTime))
	fmt.Fprintf(&b, "%s %s\n", Dim("Breaks    "), FormatDuration(s.BreakTime))
	fmt.Fprintf(&b, "%s %d\n", Dim("Completed "), s.CompletedJobsCount)
	fmt.Fprintf(&b, "%s %s", Dim("Efficiency"), RenderEfficiency(s.Efficiency, efficiencyBarWidth))
	return RenderBox("Today", b.String()) + "\n"
}

// FormatEntry is a one-line summary of a time log entry.
func FormatEntry(e *domain.TimeLogEntry, now time.Time) string {
	parts := []string{
		TruncID(e.ID),
		e.StartedAt.Local().Format("15:04"),
		FormatDuration(e.Duration(now)),
	}
	if e.BreakMinutes > 0 {
		parts = append(parts, Dim("break "+FormatMinutes(e.BreakMinutes)))
	}
	if e.ProductivityScore != nil {
		parts = append(parts, ScoreColor(*e.ProductivityScore))
	}
	if e.IsOpen() {
		parts = append(parts, StyleGreen.Render("open"))
	}
	return strings.Join(parts, "  ")
}
