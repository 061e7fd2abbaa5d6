package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <month> <day> <employee_id>",
		Short: "Put an employee on duty for one day of the current schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			day, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("day must be a number, got %q", args[1])
			}

			result, err := services.AssignDay(app.Ctx, app.Database, app.Logger, month, day, args[2])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Assigned day %d of %s\n", day, month)
			printViolations(out, result.Violations)
			fmt.Fprintln(out)
			return nil
		},
	}
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <month> <day>",
		Short: "Clear one day of the current schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			day, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("day must be a number, got %q", args[1])
			}

			if _, err := services.ClearDay(app.Ctx, app.Database, app.Logger, month, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Cleared day %d of %s\n\n", day, month)
			return nil
		},
	}
}
