package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDueLabel(t *testing.T) {
	now := time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"today early", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), "Today"},
		{"tomorrow", time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC), "Tomorrow"},
		{"in 5 days", time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), "In 5d"},
		{"far out", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), "Aug 1"},
		{"late", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "2d late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueLabel(tt.due, now))
		})
	}
}

func TestDueStyled_Nil(t *testing.T) {
	assert.Contains(t, DueStyled(nil, time.Now()), "--")
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now, now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2h ago", HumanTimestampFrom(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Jun 14 15:00", HumanTimestampFrom(now.Add(-48*time.Hour), now))
}

func TestTruncID(t *testing.T) {
	got := TruncID("a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")
	assert.Contains(t, TruncID("short"), "short")
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{165, "2h 45m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinutes(tt.input))
		})
	}
}

func TestFormatDurationAndClock(t *testing.T) {
	assert.Equal(t, "2h 45m", FormatDuration(2*time.Hour+45*time.Minute+59*time.Second))
	assert.Equal(t, "01:02:03", FormatClock(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "00:00:00", FormatClock(-time.Second))
	assert.Equal(t, "27:00:00", FormatClock(27*time.Hour))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Broch...", Truncate("Brochures A4", 8))
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("TEST", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{
		{StyleGreen.Render("x"), "1"},
		{"longer", "2"},
	})
	lines := splitLines(out)
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderEfficiency(t *testing.T) {
	assert.Contains(t, RenderEfficiency(91.67, 10), " 92%")
	assert.Contains(t, RenderEfficiency(150, 10), "100%")
	assert.Contains(t, RenderEfficiency(-3, 10), "  0%")
}

func TestJobStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.JobStatus
		contains string
	}{
		{domain.JobPending, "Pending"},
		{domain.JobInProgress, "In Progress"},
		{domain.JobCompleted, "Completed"},
		{domain.JobCancelled, "Cancelled"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Contains(t, JobStatusPill(tt.status), tt.contains)
		})
	}
}

func TestSessionBadge(t *testing.T) {
	assert.Contains(t, SessionBadge(domain.SessionActive), "CLOCKED IN")
	assert.Contains(t, SessionBadge(domain.SessionOnBreak), "PAUSED")
	assert.Contains(t, SessionBadge(domain.SessionIdle), "IDLE")
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
