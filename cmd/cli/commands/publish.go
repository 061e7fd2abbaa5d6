package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <month>",
		Short: "Publish the current schedule of a month to the rota spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.RotaSheetID == "" {
				return fmt.Errorf("rotaSheetID is not configured")
			}
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}
			if err := services.PublishSchedule(app.Ctx, app.Database, sheets, app.Logger, app.Cfg.RotaSheetID, month); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Published %s\n\n", month)
			return nil
		},
	}
}
