package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/jobshop/internal/cli/formatter"
	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/spf13/cobra"
)

func newOperatorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage operators",
	}

	var id string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := &domain.Operator{ID: id, Name: args[0], Active: true}
			if err := app.Shop.CreateOperator(context.Background(), o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered operator %s (%s)\n", o.Name, o.ID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "Operator ID such as a badge number (default: generated)")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := app.Shop.ListOperators(context.Background(), all)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No operators found.")
				return nil
			}
			rows := make([][]string, 0, len(ops))
			for _, o := range ops {
				state := formatter.StyleGreen.Render("active")
				if !o.Active {
					state = formatter.Dim("inactive")
				}
				rows = append(rows, []string{o.ID, formatter.Bold(o.Name), state})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Operators",
				formatter.RenderTable([]string{"ID", "NAME", "STATE"}, rows))+"\n")
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "Include inactive operators")

	cmd.AddCommand(add, list)
	return cmd
}

func newMachineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Manage machines",
	}

	var id, kind string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Machine{ID: id, Name: args[0], Kind: kind}
			if err := app.Shop.CreateMachine(context.Background(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered machine %s (%s)\n", m.Name, m.ID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "Machine ID (default: generated)")
	add.Flags().StringVar(&kind, "kind", "", "Machine kind: offset, digital, guillotine, folder")

	list := &cobra.Command{
		Use:   "list",
		Short: "List machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			machines, err := app.Shop.ListMachines(context.Background())
			if err != nil {
				return err
			}
			if len(machines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No machines found.")
				return nil
			}
			rows := make([][]string, 0, len(machines))
			for _, m := range machines {
				rows = append(rows, []string{m.ID, formatter.Bold(m.Name), formatter.StylePurple.Render(m.Kind)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Machines",
				formatter.RenderTable([]string{"ID", "NAME", "KIND"}, rows))+"\n")
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
