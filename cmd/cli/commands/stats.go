package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// balanceThreshold separates an even weekday spread from an uneven one
const balanceThreshold = 1.5

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [month]...",
		Short: "Show duty totals and weekday balance (all applied months by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			months := make([]model.Month, 0, len(args))
			for _, arg := range args {
				month, err := parseMonthArg(arg)
				if err != nil {
					return err
				}
				months = append(months, month)
			}

			stats, err := services.ComputeStatistics(app.Ctx, app.Database, app.Logger, months)
			if err != nil {
				return err
			}
			printStatistics(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func printStatistics(w io.Writer, stats *services.DutyStatistics) {
	fmt.Fprintf(w, "\nDuty statistics over %d month(s)\n\n", len(stats.Months))

	header := make([]string, 0, 7)
	for weekday := model.Monday; weekday <= model.Sunday; weekday++ {
		header = append(header, fmt.Sprintf("%4s", weekday))
	}
	fmt.Fprintf(w, "  %-24s %-4s %6s %8s %s %8s\n", "Name", "Rank", "Total", "Weekend", strings.Join(header, ""), "Balance")

	for _, e := range stats.Employees {
		counts := make([]string, 0, 7)
		for _, count := range e.ByWeekday {
			counts = append(counts, fmt.Sprintf("%4d", count))
		}
		marker := "✓"
		if e.BalanceScore >= balanceThreshold {
			marker = "!"
		}
		fmt.Fprintf(w, "  %-24s %-4s %6d %8d %s %7.2f%s\n",
			e.Name, e.Rank, e.TotalDuties, e.WeekendDays, strings.Join(counts, ""), e.BalanceScore, marker)
	}
	fmt.Fprintln(w)
}
