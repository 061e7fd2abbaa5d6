package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup of the roster, vacations and applied schedules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			path := fmt.Sprintf("duty-rota-%s.json", now.Format("2006-01-02"))
			if len(args) > 0 {
				path = args[0]
			}

			snapshot, err := services.ExportSnapshot(app.Ctx, app.Database, app.Logger, now)
			if err != nil {
				return err
			}

			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer file.Close()

			if err := services.WriteSnapshot(file, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Backup written to %s\n\n", path)
			return nil
		},
	}
}

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer file.Close()

			snapshot, err := services.ReadSnapshot(file)
			if err != nil {
				return err
			}
			if err := services.ImportSnapshot(app.Ctx, app.Database, app.Logger, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Imported %d employee(s) and %d month(s) from %s\n\n",
				len(snapshot.Employees), len(snapshot.Schedules), args[0])
			return nil
		},
	}
}
