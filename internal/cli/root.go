package cli

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/service"
	"github.com/alexanderramin/jobshop/internal/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds everything the CLI commands call into.
type App struct {
	Jobs    service.JobService
	Shop    service.ShopService
	Tracker *tracker.Tracker

	// Operator is the default when --operator is not given.
	Operator           string
	PollInterval       time.Duration
	MinClockOutNoteLen int
	DefaultScore       int
	Now                func() time.Time

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error

	Logger *slog.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) defaultScore() int {
	if a.DefaultScore > 0 {
		return a.DefaultScore
	}
	return tracker.DefaultProductivityScore
}

func (a *App) minNoteLen() int {
	if a.MinClockOutNoteLen > 0 {
		return a.MinClockOutNoteLen
	}
	return tracker.DefaultMinClockOutNoteLen
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "jobshop" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var operator string

	root := &cobra.Command{
		Use:           "jobshop",
		Short:         "Shop-floor job and time tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.Logger == nil {
				return
			}
			var flags []string
			cmd.Flags().Visit(func(f *pflag.Flag) {
				flags = append(flags, "--"+f.Name+"="+f.Value.String())
			})
			app.Logger.Debug("command", "path", cmd.CommandPath(), "flags", flags, "args", args)
		},
	}
	root.PersistentFlags().StringVarP(&operator, "operator", "o", "", "Operator ID (default from JOBSHOP_OPERATOR)")

	resolveOp := func() (string, error) {
		op := strings.TrimSpace(operator)
		if op == "" {
			op = strings.TrimSpace(app.Operator)
		}
		if op == "" {
			return "", domain.NewValidationError("operator", "operator is required (use --operator or JOBSHOP_OPERATOR)")
		}
		return op, nil
	}

	root.AddCommand(
		newJobCmd(app, resolveOp),
		newOperatorCmd(app),
		newMachineCmd(app),
		newClockCmd(app, resolveOp),
		newStatsCmd(app, resolveOp),
		newServeCmd(app),
		newWatchCmd(app, resolveOp),
	)

	return root
}

type operatorResolver func() (string, error)
