package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// StatisticsStore is the subset of the database used to compute duty statistics
type StatisticsStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error)
	GetScheduleMonths(ctx context.Context, slot db.Slot) ([]string, error)
}

// EmployeeStats summarises the applied duties of one employee
type EmployeeStats struct {
	EmployeeID   string  `json:"employeeId"`
	Name         string  `json:"name"`
	Rank         string  `json:"rank"`
	TotalDuties  int     `json:"totalDuties"`
	WeekendDays  int     `json:"weekendDays"`
	ByWeekday    [7]int  `json:"byWeekday"` // indexed by model.Weekday
	BalanceScore float64 `json:"balanceScore"`
}

// DutyStatistics covers every applied schedule in Months
type DutyStatistics struct {
	Months    []string        `json:"months"`
	Employees []EmployeeStats `json:"employees"`
	MaxDuties int             `json:"maxDuties"`
}

// ComputeStatistics totals the current schedules of the given months (all stored months when empty)
// per roster employee. Assignments of employees no longer on the roster are skipped.
func ComputeStatistics(ctx context.Context, store StatisticsStore, logger *zap.Logger, months []model.Month) (*DutyStatistics, error) {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	if len(months) == 0 {
		keys, err := store.GetScheduleMonths(ctx, db.SlotCurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule months: %w", err)
		}
		for _, key := range keys {
			month, err := model.ParseMonthKey(key)
			if err != nil {
				logger.Warn("Skipping schedule with invalid month key", zap.String("month", key), zap.Error(err))
				continue
			}
			months = append(months, month)
		}
	}

	stats := make([]EmployeeStats, len(employees))
	index := make(map[string]int, len(employees))
	for i, e := range employees {
		stats[i] = EmployeeStats{EmployeeID: e.ID, Name: e.Name, Rank: e.Rank}
		index[e.ID] = i
	}

	result := &DutyStatistics{Months: make([]string, 0, len(months))}
	for _, month := range months {
		result.Months = append(result.Months, month.Key())

		assignments, err := store.GetAssignments(ctx, month.Key(), db.SlotCurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule for %s: %w", month.Key(), err)
		}
		for _, a := range assignments {
			i, ok := index[a.EmployeeID]
			if !ok || a.Day < 1 || a.Day > month.DaysInMonth() {
				continue
			}
			weekday := month.Weekday(a.Day)
			stats[i].TotalDuties++
			stats[i].ByWeekday[weekday]++
			if weekday.IsWeekendBlock() {
				stats[i].WeekendDays++
			}
		}
	}

	for i := range stats {
		stats[i].BalanceScore = BalanceScore(stats[i].ByWeekday)
		result.MaxDuties = max(result.MaxDuties, stats[i].TotalDuties)
	}
	result.Employees = stats

	logger.Debug("Computed duty statistics", zap.Int("months", len(months)), zap.Int("employees", len(stats)))
	return result, nil
}

// BalanceScore is the population standard deviation of the weekday counts.
// Lower is more even; 0 means every weekday was worked equally often.
func BalanceScore(byWeekday [7]int) float64 {
	var sum float64
	for _, count := range byWeekday {
		sum += float64(count)
	}
	mean := sum / float64(len(byWeekday))

	var variance float64
	for _, count := range byWeekday {
		diff := float64(count) - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(byWeekday)))
}
