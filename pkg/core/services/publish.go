package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// SchedulePublisher writes a month to a shared spreadsheet
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, published *sheetsclient.PublishedSchedule) error
}

// PublishStore is the subset of the database used to publish a schedule
type PublishStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error)
}

// PublishSchedule writes the current schedule of the month to its tab of the spreadsheet
func PublishSchedule(ctx context.Context, store PublishStore, publisher SchedulePublisher, logger *zap.Logger, spreadsheetID string, month model.Month) error {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch employees: %w", err)
	}
	assignments, err := store.GetAssignments(ctx, month.Key(), db.SlotCurrent)
	if err != nil {
		return fmt.Errorf("failed to fetch current schedule: %w", err)
	}
	if len(assignments) == 0 {
		return fmt.Errorf("no schedule applied for %s", month)
	}

	published := buildPublishedSchedule(month, scheduleFromAssignments(assignments), employees)

	logger.Info("Publishing schedule",
		zap.String("month", month.String()),
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("unassigned", len(published.Conflicts)))

	if err := publisher.PublishSchedule(ctx, spreadsheetID, published); err != nil {
		return fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("tab", published.Title))
	return nil
}

// buildPublishedSchedule lays out one row per day. Unassigned days are listed as conflicts.
func buildPublishedSchedule(month model.Month, schedule model.Schedule, employees []db.Employee) *sheetsclient.PublishedSchedule {
	byID := make(map[string]db.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	published := &sheetsclient.PublishedSchedule{
		Title: month.String(),
		Days:  make([]sheetsclient.PublishedDay, 0, month.DaysInMonth()),
	}
	for day := 1; day <= month.DaysInMonth(); day++ {
		row := sheetsclient.PublishedDay{
			Date:    month.Date(day).Format("2006-01-02"),
			Weekday: month.Weekday(day).String(),
		}
		if id, ok := schedule[day]; ok {
			row.Employee = id
			if e, ok := byID[id]; ok {
				row.Employee = e.Name
				row.Rank = e.Rank
			}
		} else {
			published.Conflicts = append(published.Conflicts, fmt.Sprintf("nobody on duty on day %d", day))
		}
		published.Days = append(published.Days, row)
	}
	return published
}
