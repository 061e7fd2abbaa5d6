package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/allocator"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// AssignmentStore is the subset of the database used for manual schedule edits
type AssignmentStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetEmployee(ctx context.Context, id string) (*db.Employee, error)
	GetVacations(ctx context.Context, monthKey string) ([]db.Vacation, error)
	GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error)
	ReplaceAssignments(ctx context.Context, monthKey string, slot db.Slot, assignments []db.Assignment) error
}

// EditResult is the current schedule after a manual edit, with any hard-constraint
// violations the edit introduced. Violations are warnings; the edit is kept.
type EditResult struct {
	Schedule   model.Schedule
	Violations []allocator.DayViolation
}

// AssignDay puts an employee on duty for one day of the current schedule, replacing whoever held it
func AssignDay(ctx context.Context, store AssignmentStore, logger *zap.Logger, month model.Month, day int, employeeID string) (*EditResult, error) {
	if err := checkDay(month, day); err != nil {
		return nil, err
	}
	if _, err := store.GetEmployee(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	return editCurrent(ctx, store, logger, month, func(schedule model.Schedule) {
		logger.Info("Assigning day manually",
			zap.String("month", month.Key()),
			zap.Int("day", day),
			zap.String("employee_id", employeeID),
			zap.String("replaced", schedule[day]))
		schedule[day] = employeeID
	})
}

// ClearDay removes the assignment of one day of the current schedule
func ClearDay(ctx context.Context, store AssignmentStore, logger *zap.Logger, month model.Month, day int) (*EditResult, error) {
	if err := checkDay(month, day); err != nil {
		return nil, err
	}

	return editCurrent(ctx, store, logger, month, func(schedule model.Schedule) {
		logger.Info("Clearing day manually",
			zap.String("month", month.Key()),
			zap.Int("day", day),
			zap.String("employee_id", schedule[day]))
		delete(schedule, day)
	})
}

func editCurrent(ctx context.Context, store AssignmentStore, logger *zap.Logger, month model.Month, edit func(model.Schedule)) (*EditResult, error) {
	assignments, err := store.GetAssignments(ctx, month.Key(), db.SlotCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current schedule: %w", err)
	}
	schedule := scheduleFromAssignments(assignments)
	edit(schedule)

	if err := store.ReplaceAssignments(ctx, month.Key(), db.SlotCurrent,
		assignmentsFromSchedule(month.Key(), db.SlotCurrent, schedule)); err != nil {
		return nil, fmt.Errorf("failed to store current schedule: %w", err)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	vacations, err := store.GetVacations(ctx, month.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vacations: %w", err)
	}

	result := &EditResult{Schedule: schedule}
	if len(employees) == 0 {
		return result, nil
	}

	violations, err := allocator.ValidateSchedule(buildRoster(employees, vacations, month.Key(), nil), month, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}
	for _, v := range violations {
		logger.Warn("Manual edit breaks a hard constraint",
			zap.Int("day", v.Day),
			zap.String("constraint", v.ConstraintName),
			zap.String("description", v.Description))
	}
	result.Violations = violations
	return result, nil
}
