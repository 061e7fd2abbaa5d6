package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jakechorley/duty-rota/pkg/core/allocator"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// monthArgLayout is the calendar month format accepted on the command line ("2026-06" is June)
const monthArgLayout = "2006-01"

// parseMonthArg parses a calendar month such as "2026-06"
func parseMonthArg(arg string) (model.Month, error) {
	t, err := time.Parse(monthArgLayout, arg)
	if err != nil {
		return model.Month{}, fmt.Errorf("month must look like 2026-06, got %q", arg)
	}
	return model.MonthOf(t), nil
}

// rosterNames maps ids to "Name (Rank)" labels
func rosterNames(employees []db.Employee) map[string]string {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = fmt.Sprintf("%s (%s)", e.Name, e.Rank)
	}
	return names
}

// printSchedule writes one line per day, marking weekend blocks and unassigned days
func printSchedule(w io.Writer, month model.Month, schedule model.Schedule, names map[string]string) {
	fmt.Fprintf(w, "\n%s\n\n", month)
	for day := 1; day <= month.DaysInMonth(); day++ {
		weekday := month.Weekday(day)
		marker := " "
		if weekday.IsWeekendBlock() {
			marker = "*"
		}

		label := "UNASSIGNED"
		if id, ok := schedule[day]; ok {
			label = id
			if name, ok := names[id]; ok {
				label = name
			}
		}
		fmt.Fprintf(w, "  %s %2d %s  %s\n", marker, day, weekday, label)
	}
	fmt.Fprintln(w)
}

// printConflicts writes the conflict list, or a coverage note when there is none
func printConflicts(w io.Writer, conflicts []string) {
	if len(conflicts) == 0 {
		fmt.Fprintln(w, "✓ Every day is covered")
		return
	}
	fmt.Fprintf(w, "⚠️  %d conflict(s):\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(w, "  ✗ %s\n", c)
	}
}

// printViolations writes hard-constraint warnings
func printViolations(w io.Writer, violations []allocator.DayViolation) {
	for _, v := range violations {
		if v.Day > 0 {
			fmt.Fprintf(w, "  ⚠️  day %d [%s] %s\n", v.Day, v.ConstraintName, v.Description)
		} else {
			fmt.Fprintf(w, "  ⚠️  [%s] %s\n", v.ConstraintName, v.Description)
		}
	}
}
