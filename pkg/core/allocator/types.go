package allocator

import (
	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// noPreviousDuty is the last-duty sentinel for employees who have not worked yet this month.
// It is far enough in the past that no day of the month looks like a "just finished a shift" day.
const noPreviousDuty = -10

// Rules holds the tunable numbers of the quota calculation
type Rules struct {
	// JuniorMaxDuties caps the monthly duty count of junior-rank employees
	JuniorMaxDuties int

	// JuniorDaysPerDuty is the number of available days that earns a junior one duty
	JuniorDaysPerDuty int
}

// DefaultRules returns the standard junior quota rules (2 duties max, 1 per 15 available days)
func DefaultRules() Rules {
	return Rules{
		JuniorMaxDuties:   2,
		JuniorDaysPerDuty: 15,
	}
}

func (r Rules) withDefaults() Rules {
	defaults := DefaultRules()
	if r.JuniorMaxDuties <= 0 {
		r.JuniorMaxDuties = defaults.JuniorMaxDuties
	}
	if r.JuniorDaysPerDuty <= 0 {
		r.JuniorDaysPerDuty = defaults.JuniorDaysPerDuty
	}
	return r
}

// EmployeeState tracks the running counters of one employee during a generation run
type EmployeeState struct {
	Employee model.Employee

	// AvailableDays is the number of days in the month the employee is not on vacation
	AvailableDays int

	// Quota is the target number of duties for the month
	Quota int

	// Assigned is the number of duties assigned so far
	Assigned int

	// WeekendDays is the number of weekend-block days assigned so far
	WeekendDays int

	// LastDutyDay is the latest day assigned so far (noPreviousDuty if none)
	LastDutyDay int

	vacation map[int]bool
}

// ID returns the employee identifier
func (e *EmployeeState) ID() string {
	return e.Employee.ID
}

// Deficit returns how many duties the employee still needs to reach their quota
func (e *EmployeeState) Deficit() int {
	return e.Quota - e.Assigned
}

// IsOnVacation returns true if the employee is unavailable on the given day
func (e *EmployeeState) IsOnVacation(day int) bool {
	return e.vacation[day]
}

// DaysSinceLastDuty returns the distance between day and the latest assigned duty
func (e *EmployeeState) DaysSinceLastDuty(day int) int {
	return day - e.LastDutyDay
}

// RunState is the mutable working set of a single generation run.
// Both the weekend pass and the daily pass read and update it; it is never shared between runs.
type RunState struct {
	Month       model.Month
	DaysInMonth int

	// Employees in roster input order (input order is the tie-break of last resort)
	Employees []*EmployeeState

	// Schedule being built
	Schedule model.Schedule

	// Conflicts collects every slot that could not be filled
	Conflicts *ConflictLog

	// WeekendCap is the number of weekend-block days one employee may take
	WeekendCap int

	Rules Rules

	byID map[string]*EmployeeState
}

// Employee returns the state of the employee with the given id, or nil
func (rs *RunState) Employee(id string) *EmployeeState {
	return rs.byID[id]
}

// AssignedTo returns the employee assigned to the day, or nil if the day is empty or outside the month
func (rs *RunState) AssignedTo(day int) *EmployeeState {
	id, ok := rs.Schedule[day]
	if !ok {
		return nil
	}
	return rs.byID[id]
}

// IsAssignedTo reports whether the given day is held by the employee
func (rs *RunState) IsAssignedTo(day int, employeeID string) bool {
	return rs.Schedule[day] == employeeID
}

// assign records a duty and updates the employee's counters.
// Only the weekend pass counts weekend days; the daily pass leaves WeekendDays untouched.
func (rs *RunState) assign(emp *EmployeeState, day int, weekend bool) {
	rs.Schedule[day] = emp.ID()
	emp.Assigned++
	if weekend {
		emp.WeekendDays++
	}
	if day > emp.LastDutyDay {
		emp.LastDutyDay = day
	}
}
