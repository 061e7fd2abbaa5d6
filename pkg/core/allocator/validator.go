package allocator

import (
	"fmt"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// validationConstraints are re-checked on every finished schedule
var validationConstraints = []Constraint{
	VacationConstraint{},
	RestConstraint{},
	QuotaConstraint{},
	ThursdayRestConstraint{},
}

// ValidateRunState checks the schedule of a finished run against the core invariants and
// every hard constraint
func ValidateRunState(state *RunState) []DayViolation {
	violations := validateCoreInvariants(state)
	for _, constraint := range validationConstraints {
		violations = append(violations, constraint.Validate(state)...)
	}
	return violations
}

// ValidateSchedule checks an arbitrary schedule (for example one edited by hand) against the
// rest and vacation rules. Quotas are not enforced on hand-edited schedules.
func ValidateSchedule(employees []model.Employee, month model.Month, schedule model.Schedule) ([]DayViolation, error) {
	state, err := InitRun(Config{Employees: employees, Month: month})
	if err != nil {
		return nil, err
	}
	state.Schedule = schedule.Clone()

	violations := validateCoreInvariants(state)
	for _, constraint := range []Constraint{VacationConstraint{}, RestConstraint{}, ThursdayRestConstraint{}} {
		violations = append(violations, constraint.Validate(state)...)
	}
	return violations, nil
}

// validateCoreInvariants checks that every assignment is inside the month and names a rostered employee
func validateCoreInvariants(state *RunState) []DayViolation {
	var violations []DayViolation
	for _, day := range state.Schedule.Days() {
		if day < 1 || day > state.DaysInMonth {
			violations = append(violations, DayViolation{
				Day:            day,
				ConstraintName: "CoreInvariant",
				Description:    fmt.Sprintf("day %d is outside %s", day, state.Month),
			})
			continue
		}
		id := state.Schedule[day]
		if state.Employee(id) == nil {
			violations = append(violations, newViolation(state, day, "CoreInvariant",
				fmt.Sprintf("employee %q is not on the roster", id)))
		}
	}
	return violations
}
