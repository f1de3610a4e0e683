package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/tracker"
	"github.com/spf13/cobra"
)

func newClockCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Clock in and out of jobs",
	}

	cmd.AddCommand(
		newClockInCmd(app, resolveOp),
		newClockOutCmd(app, resolveOp),
		newClockBreakCmd(app, resolveOp),
		newClockPauseCmd(app, resolveOp),
		newClockStatusCmd(app, resolveOp),
	)

	return cmd
}

func newClockInCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "in JOB",
		Short: "Start working on a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			j, err := app.Jobs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			entry, err := app.Tracker.StartJob(ctx, op, j.ID, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clocked in to %s at %s\n",
				j.DisplayID(), entry.StartedAt.Local().Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes for this session")
	return cmd
}

func newClockOutCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	var notes string
	var score int

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out of the active job with notes and a productivity score",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			if notes == "" && app.interactive() {
				if err := runClockOutForm(app, &notes, &score, cmd.Flags().Changed("score")); err != nil {
					return err
				}
			}

			res, err := app.Tracker.CompleteOrClockOut(cmd.Context(), op, "", notes, score)
			if err != nil {
				return err
			}
			e := res.ClosedEntry
			fmt.Fprintf(cmd.OutOrStdout(), "Clocked out after %s (breaks %s, score %s)\n",
				formatter.FormatDuration(e.Duration(app.now())),
				formatter.FormatMinutes(e.BreakMinutes),
				formatter.ScoreColor(*e.ProductivityScore))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "What was done (at least 10 characters)")
	cmd.Flags().IntVar(&score, "score", app.defaultScore(), "Productivity score 1-10")
	return cmd
}

func newClockBreakCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "break MINUTES",
		Short: "Record a break on the active job (the timer keeps running)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return domain.NewValidationError("minutes", fmt.Sprintf("%q is not a number of minutes", args[0]))
			}
			entry, err := app.Tracker.AddBreak(cmd.Context(), op, minutes, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Break recorded: %s total on this session\n",
				formatter.FormatMinutes(entry.BreakMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the break was taken")
	return cmd
}

func newClockPauseCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Toggle the display-only pause indicator (kept by watch and serve only)",
		Long: `Toggle the pause indicator for the current session.

Pause is display-only: the timer keeps running and nothing is stored. The
flag lives in the running process, so a one-shot "clock pause" is forgotten
when the command exits. Press "p" in "jobshop watch", or call
POST /api/operators/{op}/pause on "jobshop serve", to keep it visible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			if _, err := app.Tracker.Refresh(cmd.Context(), op); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if app.Tracker.TogglePause(op) {
				fmt.Fprintln(out, "Paused (display only, the timer keeps running; not kept after this command, use watch or serve)")
			} else if app.Tracker.Snapshot(op).Active == nil {
				fmt.Fprintln(out, "Not clocked in; nothing to pause")
			} else {
				fmt.Fprintln(out, "Resumed")
			}
			return nil
		},
	}
}

func newClockStatusCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			if _, err := app.Tracker.Refresh(cmd.Context(), op); err != nil {
				return err
			}
			snap := app.Tracker.Snapshot(op)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(sessionView(snap, app.Tracker.ElapsedTime(op))))
			return nil
		},
	}
}

func sessionView(snap tracker.Snapshot, elapsed time.Duration) formatter.SessionView {
	return formatter.SessionView{
		OperatorID:  snap.OperatorID,
		State:       snap.State,
		Active:      snap.Active,
		ActiveJob:   snap.ActiveJob(),
		Elapsed:     elapsed,
		RefreshedAt: snap.RefreshedAt,
	}
}
