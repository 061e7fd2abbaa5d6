package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// ErrInvalidDay is returned for a day number outside the month
var ErrInvalidDay = errors.New("invalid day")

// VacationStore is the subset of the database used to manage vacations
type VacationStore interface {
	GetEmployee(ctx context.Context, id string) (*db.Employee, error)
	GetVacations(ctx context.Context, monthKey string) ([]db.Vacation, error)
	InsertVacation(ctx context.Context, vacation db.Vacation) error
	DeleteVacation(ctx context.Context, vacation db.Vacation) error
}

// ToggleVacation flips one day of an employee between available and on vacation.
// Returns true when the day is now a vacation day.
func ToggleVacation(ctx context.Context, store VacationStore, logger *zap.Logger, employeeID string, month model.Month, day int) (bool, error) {
	if err := checkDay(month, day); err != nil {
		return false, err
	}

	if _, err := store.GetEmployee(ctx, employeeID); err != nil {
		return false, fmt.Errorf("failed to fetch employee: %w", err)
	}

	vacations, err := store.GetVacations(ctx, month.Key())
	if err != nil {
		return false, fmt.Errorf("failed to fetch vacations: %w", err)
	}

	vacation := db.Vacation{EmployeeID: employeeID, MonthKey: month.Key(), Day: day}
	if slices.Contains(vacations, vacation) {
		if err := store.DeleteVacation(ctx, vacation); err != nil {
			return false, fmt.Errorf("failed to delete vacation: %w", err)
		}
		logger.Info("Removed vacation day", zap.String("employee_id", employeeID), zap.String("month", month.Key()), zap.Int("day", day))
		return false, nil
	}

	if err := store.InsertVacation(ctx, vacation); err != nil {
		return false, fmt.Errorf("failed to insert vacation: %w", err)
	}
	logger.Info("Added vacation day", zap.String("employee_id", employeeID), zap.String("month", month.Key()), zap.Int("day", day))
	return true, nil
}

// VacationDays returns the vacation days of every employee for a month, sorted by day
func VacationDays(ctx context.Context, store VacationStore, month model.Month) (map[string][]int, error) {
	vacations, err := store.GetVacations(ctx, month.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vacations: %w", err)
	}

	days := make(map[string][]int)
	for _, v := range vacations {
		days[v.EmployeeID] = append(days[v.EmployeeID], v.Day)
	}
	for id := range days {
		slices.Sort(days[id])
	}
	return days, nil
}

func checkDay(month model.Month, day int) error {
	if day < 1 || day > month.DaysInMonth() {
		return fmt.Errorf("%w: %d is outside %s", ErrInvalidDay, day, month)
	}
	return nil
}
