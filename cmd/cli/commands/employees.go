package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// EmployeesCmd creates the employees command group
func EmployeesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage the on-call roster",
	}
	cmd.AddCommand(listEmployeesCmd(app), addEmployeeCmd(app), updateEmployeeCmd(app), removeEmployeeCmd(app))
	return cmd
}

func listEmployeesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := services.ListEmployees(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%d employee(s):\n\n", len(employees))
			for _, e := range employees {
				fmt.Fprintf(out, "  %-36s  %-3s  %-24s  %s\n", e.ID, e.Rank, e.Name, e.Department)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func addEmployeeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <rank>",
		Short: "Add an employee (rank R2-R5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			department, _ := cmd.Flags().GetString("department")

			employee, err := services.AddEmployee(app.Ctx, app.Database, app.Logger,
				services.EmployeeInput{Name: args[0], Rank: args[1], Department: department})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Added %s (%s) with id %s\n\n", employee.Name, employee.Rank, employee.ID)
			return nil
		},
	}
	cmd.Flags().String("department", "", "Department of the employee")
	return cmd
}

func updateEmployeeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id> <name> <rank>",
		Short: "Overwrite the name, rank and department of an employee",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			department, _ := cmd.Flags().GetString("department")

			employee, err := services.UpdateEmployee(app.Ctx, app.Database, app.Logger, args[0],
				services.EmployeeInput{Name: args[1], Rank: args[2], Department: department})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Updated %s (%s)\n\n", employee.Name, employee.Rank)
			return nil
		},
	}
	cmd.Flags().String("department", "", "Department of the employee")
	return cmd
}

func removeEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an employee and their vacation days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RemoveEmployee(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Removed %s\n\n", args[0])
			return nil
		},
	}
}
