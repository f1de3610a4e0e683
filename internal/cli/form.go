package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errClockOutAborted = errors.New("clock-out cancelled")

// jobshopHuhTheme returns a huh theme using the formatter palette.
func jobshopHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateNotes(minLen int) func(string) error {
	return func(s string) error {
		if n := utf8.RuneCountInString(strings.TrimSpace(s)); n < minLen {
			return fmt.Errorf("at least %d characters (%d so far)", minLen, n)
		}
		return nil
	}
}

func scoreOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, 10)
	for i := 10; i >= 1; i-- {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d", i), i))
	}
	return opts
}

// clockOutForm asks for the notes and productivity score that a plain
// clock-out requires.
func clockOutForm(notes *string, score *int, minLen int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What did you get done?").
				Description(fmt.Sprintf("At least %d characters.", minLen)).
				Value(notes).
				Validate(validateNotes(minLen)),
			huh.NewSelect[int]().
				Title("Productivity (1-10)").
				Options(scoreOptions()...).
				Value(score),
		),
	).WithTheme(jobshopHuhTheme()).WithShowHelp(false)
}

func runClockOutForm(app *App, notes *string, score *int, scoreSet bool) error {
	if !scoreSet || *score == 0 {
		*score = app.defaultScore()
	}
	if err := clockOutForm(notes, score, app.minNoteLen()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errClockOutAborted
		}
		return err
	}
	return nil
}
