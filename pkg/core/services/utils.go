package services

import (
	"fmt"
	"slices"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// buildRoster converts database records into the allocator's employees.
// Vacation records of every month are attached; extraDays (recurring blackouts) are merged into monthKey.
func buildRoster(employees []db.Employee, vacations []db.Vacation, monthKey string, extraDays map[string][]int) []model.Employee {
	byEmployee := make(map[string]map[string][]int, len(employees))
	for _, v := range vacations {
		months, ok := byEmployee[v.EmployeeID]
		if !ok {
			months = make(map[string][]int)
			byEmployee[v.EmployeeID] = months
		}
		months[v.MonthKey] = append(months[v.MonthKey], v.Day)
	}

	roster := make([]model.Employee, 0, len(employees))
	for _, e := range employees {
		months := byEmployee[e.ID]
		if extra := extraDays[e.ID]; len(extra) > 0 {
			if months == nil {
				months = make(map[string][]int)
			}
			merged := append(slices.Clone(months[monthKey]), extra...)
			slices.Sort(merged)
			months[monthKey] = slices.Compact(merged)
		}

		roster = append(roster, model.Employee{
			ID:           e.ID,
			Name:         e.Name,
			Rank:         model.Rank(e.Rank),
			Department:   e.Department,
			VacationDays: months,
		})
	}
	return roster
}

// scheduleFromAssignments converts stored assignments into a schedule
func scheduleFromAssignments(assignments []db.Assignment) model.Schedule {
	schedule := make(model.Schedule, len(assignments))
	for _, a := range assignments {
		schedule[a.Day] = a.EmployeeID
	}
	return schedule
}

// assignmentsFromSchedule converts a schedule into assignments ordered by day
func assignmentsFromSchedule(monthKey string, slot db.Slot, schedule model.Schedule) []db.Assignment {
	assignments := make([]db.Assignment, 0, len(schedule))
	for _, day := range schedule.Days() {
		assignments = append(assignments, db.Assignment{
			MonthKey:   monthKey,
			Slot:       slot,
			Day:        day,
			EmployeeID: schedule[day],
		})
	}
	return assignments
}

// parseRank validates a rank name
func parseRank(rank string) (model.Rank, error) {
	r := model.Rank(rank)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidRank, rank, model.Ranks)
	}
	return r, nil
}

// employeeNames maps employee ids to display names
func employeeNames(employees []db.Employee) map[string]string {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names
}
