package allocator

import (
	"fmt"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// DayViolation represents a broken hard constraint found in a finished schedule
type DayViolation struct {
	Day            int
	Date           string
	ConstraintName string
	Description    string
}

// Constraint is a hard eligibility rule applied by the assignment passes.
// Every constraint acts as a veto: an employee is only a candidate for a slot if all
// constraints of the pass allow it.
type Constraint interface {
	// Name returns a human-readable identifier for this constraint
	Name() string

	// Allows reports whether the employee may take every day in days
	// given the current state of the run
	Allows(state *RunState, emp *EmployeeState, days []int) bool

	// Validate checks a finished schedule against this constraint
	// Returns a slice of violations (empty if all valid)
	Validate(state *RunState) []DayViolation
}

// VacationConstraint rejects employees on vacation on any of the requested days
type VacationConstraint struct{}

func (VacationConstraint) Name() string {
	return "Vacation"
}

func (VacationConstraint) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	for _, day := range days {
		if emp.IsOnVacation(day) {
			return false
		}
	}
	return true
}

func (c VacationConstraint) Validate(state *RunState) []DayViolation {
	var violations []DayViolation
	for _, day := range state.Schedule.Days() {
		emp := state.AssignedTo(day)
		if emp != nil && emp.IsOnVacation(day) {
			violations = append(violations, newViolation(state, day, c.Name(),
				fmt.Sprintf("%s is on vacation", emp.Employee.Name)))
		}
	}
	return violations
}

// RestConstraint enforces 24h rest: nobody works two consecutive days.
// It checks the day before (including the last recorded duty) and the day after,
// since the weekend pass fills days ahead of the daily pass.
type RestConstraint struct{}

func (RestConstraint) Name() string {
	return "Rest"
}

func (RestConstraint) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	for _, day := range days {
		if emp.DaysSinceLastDuty(day) == 1 {
			return false
		}
		if state.IsAssignedTo(day-1, emp.ID()) || state.IsAssignedTo(day+1, emp.ID()) {
			return false
		}
	}
	return true
}

func (c RestConstraint) Validate(state *RunState) []DayViolation {
	var violations []DayViolation
	for day := 2; day <= state.DaysInMonth; day++ {
		id, ok := state.Schedule[day]
		if !ok || state.Schedule[day-1] != id {
			continue
		}
		violations = append(violations, newViolation(state, day, c.Name(),
			fmt.Sprintf("%s works days %d and %d back to back", employeeName(state, id), day-1, day)))
	}
	return violations
}

// QuotaConstraint requires enough quota headroom for every requested day
type QuotaConstraint struct{}

func (QuotaConstraint) Name() string {
	return "Quota"
}

func (QuotaConstraint) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	return emp.Deficit() >= len(days)
}

func (c QuotaConstraint) Validate(state *RunState) []DayViolation {
	var violations []DayViolation
	for _, emp := range state.Employees {
		count := state.Schedule.CountFor(emp.ID())
		if count > emp.Quota {
			violations = append(violations, DayViolation{
				ConstraintName: c.Name(),
				Description:    fmt.Sprintf("%s has %d duties but quota is %d", emp.Employee.Name, count, emp.Quota),
			})
		}
	}
	return violations
}

// WeekendCapConstraint limits how many weekend-block days one employee may take.
// The check happens before assignment, so a Friday/Sunday anchor can end one day over the cap;
// it is therefore not validated afterwards.
type WeekendCapConstraint struct{}

func (WeekendCapConstraint) Name() string {
	return "WeekendCap"
}

func (WeekendCapConstraint) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	return emp.WeekendDays < state.WeekendCap
}

func (WeekendCapConstraint) Validate(state *RunState) []DayViolation {
	return nil
}

// ThursdayRestConstraint gives three days off after a Thursday duty: whoever works a Thursday
// cannot work the Friday, Saturday or Sunday that follows it.
type ThursdayRestConstraint struct{}

func (ThursdayRestConstraint) Name() string {
	return "ThursdayRest"
}

func (ThursdayRestConstraint) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	for _, day := range days {
		for _, other := range thursdayRestWindow(state, day) {
			if state.IsAssignedTo(other, emp.ID()) {
				return false
			}
		}
	}
	return true
}

func (c ThursdayRestConstraint) Validate(state *RunState) []DayViolation {
	var violations []DayViolation
	for day := 1; day <= state.DaysInMonth; day++ {
		if state.Month.Weekday(day) != model.Thursday {
			continue
		}
		id, ok := state.Schedule[day]
		if !ok {
			continue
		}
		for offset := 1; offset <= 3 && day+offset <= state.DaysInMonth; offset++ {
			if state.Schedule[day+offset] == id {
				violations = append(violations, newViolation(state, day+offset, c.Name(),
					fmt.Sprintf("%s works Thursday %d and day %d of the same weekend", employeeName(state, id), day, day+offset)))
			}
		}
	}
	return violations
}

// thursdayRestWindow returns the days that conflict with working the given day:
// for a Thursday the following Friday-Sunday, for a Friday-Sunday the preceding Thursday.
func thursdayRestWindow(state *RunState, day int) []int {
	weekday := state.Month.Weekday(day)
	if weekday == model.Thursday {
		var window []int
		for offset := 1; offset <= 3 && day+offset <= state.DaysInMonth; offset++ {
			window = append(window, day+offset)
		}
		return window
	}
	if weekday.IsWeekendBlock() {
		if thu := day - int(weekday-model.Thursday); thu >= 1 {
			return []int{thu}
		}
	}
	return nil
}

// excludeEmployee rejects one specific employee (the weekend anchor for Saturdays)
type excludeEmployee struct {
	id string
}

func (excludeEmployee) Name() string {
	return "AnchorExclusion"
}

func (c excludeEmployee) Allows(state *RunState, emp *EmployeeState, days []int) bool {
	return emp.ID() != c.id
}

func (excludeEmployee) Validate(state *RunState) []DayViolation {
	return nil
}

// isEligible returns true when every constraint allows the employee to take the days
func isEligible(state *RunState, emp *EmployeeState, days []int, constraints []Constraint) bool {
	for _, constraint := range constraints {
		if !constraint.Allows(state, emp, days) {
			return false
		}
	}
	return true
}

// candidatesFor returns the eligible employees for the days, in roster order
func candidatesFor(state *RunState, days []int, constraints []Constraint) []*EmployeeState {
	var candidates []*EmployeeState
	for _, emp := range state.Employees {
		if isEligible(state, emp, days, constraints) {
			candidates = append(candidates, emp)
		}
	}
	return candidates
}

func newViolation(state *RunState, day int, constraint, description string) DayViolation {
	return DayViolation{
		Day:            day,
		Date:           state.Month.Date(day).Format("2006-01-02"),
		ConstraintName: constraint,
		Description:    description,
	}
}

func employeeName(state *RunState, id string) string {
	if emp := state.Employee(id); emp != nil {
		return emp.Employee.Name
	}
	return id
}
