package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// VacationCmd creates the vacation command
func VacationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vacation <month> <employee_id> <day>...",
		Short: "Toggle vacation days of an employee",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, arg := range args[2:] {
				day, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("day must be a number, got %q", arg)
				}
				onVacation, err := services.ToggleVacation(app.Ctx, app.Database, app.Logger, args[1], month, day)
				if err != nil {
					return err
				}
				state := "available"
				if onVacation {
					state = "on vacation"
				}
				fmt.Fprintf(out, "  %s %d: %s\n", month, day, state)
			}
			return nil
		},
	}
}

// VacationsCmd creates the vacations command
func VacationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vacations <month>",
		Short: "List the vacation days of every employee for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			days, err := services.VacationDays(app.Ctx, app.Database, month)
			if err != nil {
				return err
			}
			employees, err := services.ListEmployees(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nVacations in %s\n\n", month)
			for _, e := range employees {
				if len(days[e.ID]) == 0 {
					continue
				}
				fmt.Fprintf(out, "  %-24s %v\n", e.Name, days[e.ID])
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
