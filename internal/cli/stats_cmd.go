package cli

import (
	"fmt"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App, resolveOp operatorResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Time statistics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Today's totals, breaks, completed jobs and efficiency",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := resolveOp()
			if err != nil {
				return err
			}
			if _, err := app.Tracker.Refresh(cmd.Context(), op); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(app.Tracker.TodaysStatistics(op)))
			return nil
		},
	})

	return cmd
}
