package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// JobStatusPill returns a colored indicator such as "● In Progress".
func JobStatusPill(status domain.JobStatus) string {
	switch status {
	case domain.JobPending:
		return StyleBlue.Render("○ Pending")
	case domain.JobInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.JobCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.JobCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// SessionBadge shows whether the operator is clocked in. The paused dot is
// display-only; the timer keeps running.
func SessionBadge(state domain.SessionState) string {
	switch state {
	case domain.SessionActive:
		return StyleGreen.Render("● CLOCKED IN")
	case domain.SessionOnBreak:
		return StyleYellow.Render("◐ PAUSED")
	default:
		return StyleDim.Render("○ IDLE")
	}
}

// ScoreColor colors a productivity score: 8+ green, 5-7 yellow, below red.
func ScoreColor(score int) string {
	s := fmt.Sprintf("%d/10", score)
	switch {
	case score >= 8:
		return StyleGreen.Render(s)
	case score >= 5:
		return StyleYellow.Render(s)
	default:
		return StyleRed.Render(s)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
