package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/spf13/cobra"
)

func newJobCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage job sheets",
	}

	cmd.AddCommand(
		newJobAddCmd(app),
		newJobListCmd(app, resolveOp),
		newJobShowCmd(app),
		newJobAssignCmd(app),
		newJobCancelCmd(app),
		newJobCompleteCmd(app, resolveOp),
	)

	return cmd
}

func newJobAddCmd(app *App) *cobra.Command {
	var number, title, customer, dueDate, assign, machine string
	var quantity int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a job sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			j := &domain.Job{
				Number:             number,
				Title:              title,
				Customer:           customer,
				Quantity:           quantity,
				AssignedOperatorID: optional(assign),
				MachineID:          optional(machine),
			}
			if dueDate != "" {
				due, err := time.ParseInLocation(time.DateOnly, dueDate, time.Local)
				if err != nil {
					return domain.NewValidationError("due-date", "expected YYYY-MM-DD")
				}
				j.DueDate = &due
			}
			if err := app.Jobs.Create(context.Background(), j); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created job %s: %s (%s)\n", j.DisplayID(), j.Title, j.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Job sheet number, e.g. JS-1042")
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Print quantity")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assign, "assign", "", "Assign to operator ID")
	cmd.Flags().StringVar(&machine, "machine", "", "Machine ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newJobListCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	var all, mine bool
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.JobFilter{
				Status:        domain.JobStatus(status),
				IncludeClosed: all,
			}
			if mine {
				op, err := resolveOp()
				if err != nil {
					return err
				}
				filter.OperatorID = op
			}
			jobs, err := app.Jobs.List(context.Background(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatJobList(jobs, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed and cancelled jobs")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only jobs assigned to the operator")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, in_progress, completed, cancelled)")

	return cmd
}

func newJobShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show JOB",
		Short: "Show a job sheet by ID or number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := app.Jobs.Resolve(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatJobDetail(j, app.now()))
			return nil
		},
	}
}

func newJobAssignCmd(app *App) *cobra.Command {
	var to, machine string

	cmd := &cobra.Command{
		Use:   "assign JOB",
		Short: "Assign a job to an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			j, err := app.Jobs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			j, err = app.Jobs.Assign(ctx, j.ID, to, optional(machine))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned job %s to %s\n", j.DisplayID(), to)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Operator ID")
	cmd.Flags().StringVar(&machine, "machine", "", "Machine ID")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newJobCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel JOB",
		Short: "Cancel a pending or in-progress job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			j, err := app.Jobs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			j, err = app.Jobs.Cancel(ctx, j.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled job %s\n", j.DisplayID())
			return nil
		},
	}
}

func newJobCompleteCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	var notes string
	var score int

	cmd := &cobra.Command{
		Use:   "complete JOB",
		Short: "Mark a job completed, clocking out first if it is the active job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			j, err := app.Jobs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			res, err := app.Tracker.CompleteOrClockOut(ctx, op, j.ID, notes, score)
			out := cmd.OutOrStdout()
			if res != nil && res.ClosedEntry != nil {
				fmt.Fprintf(out, "Clocked out of %s after %s\n", j.DisplayID(),
					formatter.FormatDuration(res.ClosedEntry.Duration(app.now())))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Job %s completed\n", j.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	cmd.Flags().IntVar(&score, "score", 0, "Productivity score 1-10 (default 8)")

	return cmd
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
