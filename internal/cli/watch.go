package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	watchTickInterval = time.Second
	watchBreakMinutes = 15
)

// watchTracker is the part of the tracker the live view drives.
type watchTracker interface {
	Refresh(ctx context.Context, operatorID string) (bool, error)
	AddBreak(ctx context.Context, operatorID string, minutes int, reason string) (*domain.TimeLogEntry, error)
	TogglePause(operatorID string) bool
	ElapsedTime(operatorID string) time.Duration
	TodaysStatistics(operatorID string) domain.DailyStats
	Snapshot(operatorID string) tracker.Snapshot
}

type watchKeyMap struct {
	Pause   key.Binding
	Break   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Break, k.Refresh, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", fmt.Sprintf("%dm break", watchBreakMinutes))),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ── messages ─────────────────────────────────────────────────────────────────

type watchTickMsg time.Time

type watchRefreshedMsg struct {
	err error
}

type watchBreakMsg struct {
	entry *domain.TimeLogEntry
	err   error
}

// ── model ────────────────────────────────────────────────────────────────────

// watchModel renders the live timer for one operator. The elapsed time is
// recomputed every second; the store is polled every pollInterval.
type watchModel struct {
	tracker      watchTracker
	operator     string
	pollInterval time.Duration
	now          func() time.Time

	keys watchKeyMap
	help help.Model

	snap     tracker.Snapshot
	elapsed  time.Duration
	stats    domain.DailyStats
	lastPoll time.Time
	err      error
	notice   string
	width    int
}

func newWatchModel(t watchTracker, operator string, pollInterval time.Duration, now func() time.Time) *watchModel {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &watchModel{
		tracker:      t,
		operator:     operator,
		pollInterval: pollInterval,
		now:          now,
		keys:         defaultWatchKeys(),
		help:         help.New(),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(watchTickInterval, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m *watchModel) refreshCmd() tea.Cmd {
	m.lastPoll = m.now()
	t, op := m.tracker, m.operator
	return func() tea.Msg {
		_, err := t.Refresh(context.Background(), op)
		return watchRefreshedMsg{err: err}
	}
}

func (m *watchModel) breakCmd() tea.Cmd {
	t, op := m.tracker, m.operator
	return func() tea.Msg {
		entry, err := t.AddBreak(context.Background(), op, watchBreakMinutes, "break")
		return watchBreakMsg{entry: entry, err: err}
	}
}

func (m *watchModel) sync() {
	m.snap = m.tracker.Snapshot(m.operator)
	m.elapsed = m.tracker.ElapsedTime(m.operator)
	m.stats = m.tracker.TodaysStatistics(m.operator)
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case watchTickMsg:
		m.sync()
		cmds := []tea.Cmd{tickCmd()}
		if m.now().Sub(m.lastPoll) >= m.pollInterval {
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case watchRefreshedMsg:
		m.err = msg.err
		m.sync()
		return m, nil

	case watchBreakMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.notice = fmt.Sprintf("Break recorded (%s total)", formatter.FormatMinutes(msg.entry.BreakMinutes))
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			if m.tracker.TogglePause(m.operator) {
				m.notice = "Paused (display only)"
			} else {
				m.notice = ""
			}
			m.sync()
			return m, nil
		case key.Matches(msg, m.keys.Break):
			return m, m.breakCmd()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshCmd()
		}
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder

	view := sessionView(m.snap, m.elapsed)
	view.OperatorID = m.operator
	b.WriteString(formatter.FormatSession(view))
	b.WriteString(formatter.FormatStats(m.stats))

	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("! "+m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func newWatchCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live timer for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			m := newWatchModel(app.Tracker, op, app.PollInterval, app.Now)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
