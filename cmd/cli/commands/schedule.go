package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <month>",
		Short: "Generate a schedule preview for a month (the current schedule is untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			notify, _ := cmd.Flags().GetBool("notify")

			preview, err := app.Controller.GeneratePreview(app.Ctx, month)
			if err != nil {
				return err
			}
			employees, err := services.ListEmployees(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSchedule(out, month, preview.Schedule, rosterNames(employees))
			printConflicts(out, preview.Conflicts)
			printViolations(out, preview.Violations)
			fmt.Fprintf(out, "\nRun 'apply %s' to install this preview or 'discard %s' to drop it.\n\n", args[0], args[0])

			if notify {
				gmail, err := app.GmailClient()
				if err != nil {
					return err
				}
				sent, err := services.NotifyConflicts(app.Ctx, gmail, app.Logger, app.Cfg.ConflictRecipients, preview)
				if err != nil {
					return err
				}
				if sent {
					fmt.Fprintf(out, "✓ Conflict report sent to %d recipient(s)\n\n", len(app.Cfg.ConflictRecipients))
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("notify", false, "Email the conflict report to the configured recipients")
	return cmd
}

// ApplyCmd creates the apply command
func ApplyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <month>",
		Short: "Install the preview as the current schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			schedule, err := app.Controller.ApplyPreview(app.Ctx, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Applied schedule for %s (%d of %d days assigned)\n\n",
				month, len(schedule), month.DaysInMonth())
			return nil
		},
	}
}

// UndoCmd creates the undo command
func UndoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <month>",
		Short: "Restore the schedule replaced by the last apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			schedule, err := app.Controller.Undo(app.Ctx, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Restored previous schedule for %s (%d days assigned)\n\n", month, len(schedule))
			return nil
		},
	}
}

// DiscardCmd creates the discard command
func DiscardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <month>",
		Short: "Drop the preview of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			if err := app.Controller.DiscardPreview(app.Ctx, month); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Discarded preview for %s\n\n", month)
			return nil
		},
	}
}

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <month>",
		Short: "Show the current schedule (or the preview with --preview)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			showPreview, _ := cmd.Flags().GetBool("preview")

			employees, err := services.ListEmployees(app.Ctx, app.Database)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if showPreview {
				preview, err := app.Controller.GetPreview(app.Ctx, month)
				if err != nil {
					return err
				}
				printSchedule(out, month, preview.Schedule, rosterNames(employees))
				printConflicts(out, preview.Conflicts)
				return nil
			}

			schedule, err := app.Controller.CurrentSchedule(app.Ctx, month)
			if err != nil {
				return err
			}
			canUndo, err := app.Controller.CanUndo(app.Ctx, month)
			if err != nil {
				return err
			}
			app.Logger.Debug("Showing schedule", zap.String("month", month.Key()), zap.Bool("undo_available", canUndo))

			printSchedule(out, month, schedule, rosterNames(employees))
			if canUndo {
				fmt.Fprintf(out, "A previous schedule is kept; run 'undo %s' to restore it.\n\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().Bool("preview", false, "Show the pending preview instead of the current schedule")
	return cmd
}
