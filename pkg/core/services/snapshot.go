package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// ErrInvalidSnapshot is returned when an imported backup cannot be applied
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// snapshotDateLayout matches JavaScript's Date.toISOString
const snapshotDateLayout = "2006-01-02T15:04:05.000Z07:00"

// SnapshotStore is the full set of stores touched by export and import
type SnapshotStore interface {
	db.RosterStore
	db.VacationStore
	db.ScheduleStore
}

// SnapshotEmployee is a roster entry with its vacation days per month key
type SnapshotEmployee struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Rank         string           `json:"rank"`
	Department   string           `json:"department"`
	VacationDays map[string][]int `json:"vacationDays"`
}

// Snapshot is the JSON backup of the roster and every applied schedule.
// Schedules map month keys to {"day": employeeId}.
type Snapshot struct {
	Employees  []SnapshotEmployee        `json:"employees"`
	Schedules  map[string]map[int]string `json:"schedules"`
	ExportDate string                    `json:"exportDate"`
}

// ExportSnapshot collects the roster, vacations and current schedules
func ExportSnapshot(ctx context.Context, store SnapshotStore, logger *zap.Logger, now time.Time) (*Snapshot, error) {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	vacations, err := store.GetVacations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vacations: %w", err)
	}
	months, err := store.GetScheduleMonths(ctx, db.SlotCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule months: %w", err)
	}

	byEmployee := make(map[string]map[string][]int)
	for _, v := range vacations {
		if byEmployee[v.EmployeeID] == nil {
			byEmployee[v.EmployeeID] = make(map[string][]int)
		}
		byEmployee[v.EmployeeID][v.MonthKey] = append(byEmployee[v.EmployeeID][v.MonthKey], v.Day)
	}

	snapshot := &Snapshot{
		Employees:  make([]SnapshotEmployee, 0, len(employees)),
		Schedules:  make(map[string]map[int]string, len(months)),
		ExportDate: now.UTC().Format(snapshotDateLayout),
	}

	for _, e := range employees {
		vacationDays := byEmployee[e.ID]
		if vacationDays == nil {
			vacationDays = map[string][]int{}
		}
		for key := range vacationDays {
			slices.Sort(vacationDays[key])
		}
		snapshot.Employees = append(snapshot.Employees, SnapshotEmployee{
			ID:           e.ID,
			Name:         e.Name,
			Rank:         e.Rank,
			Department:   e.Department,
			VacationDays: vacationDays,
		})
	}

	for _, key := range months {
		assignments, err := store.GetAssignments(ctx, key, db.SlotCurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule for %s: %w", key, err)
		}
		snapshot.Schedules[key] = scheduleFromAssignments(assignments)
	}

	logger.Info("Exported snapshot",
		zap.Int("employees", len(snapshot.Employees)),
		zap.Int("vacations", len(vacations)),
		zap.Int("months", len(snapshot.Schedules)))

	return snapshot, nil
}

// WriteSnapshot encodes the snapshot as indented JSON
func WriteSnapshot(w io.Writer, snapshot *Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a JSON backup
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &snapshot, nil
}

// ImportSnapshot replaces the roster, vacations and current schedules with the snapshot content.
// The undo baseline and any preview of every affected month are dropped.
// Employees without an id get a fresh one; schedule entries naming unknown employees are skipped.
func ImportSnapshot(ctx context.Context, store SnapshotStore, logger *zap.Logger, snapshot *Snapshot) error {
	employees, vacations, err := normalizeSnapshot(snapshot)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
	}

	existing, err := store.GetEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch employees: %w", err)
	}
	for _, e := range existing {
		if err := store.DeleteEmployee(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete employee %s: %w", e.ID, err)
		}
	}

	// Vacations of employees that were deleted above are already gone; this clears orphans
	oldVacations, err := store.GetVacations(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to fetch vacations: %w", err)
	}
	for _, v := range oldVacations {
		if err := store.DeleteVacation(ctx, v); err != nil {
			return fmt.Errorf("failed to delete vacation: %w", err)
		}
	}

	for i := range employees {
		if err := store.InsertEmployee(ctx, &employees[i]); err != nil {
			return fmt.Errorf("failed to insert employee %s: %w", employees[i].ID, err)
		}
	}
	for _, v := range vacations {
		if err := store.InsertVacation(ctx, v); err != nil {
			return fmt.Errorf("failed to insert vacation: %w", err)
		}
	}

	oldMonths, err := store.GetScheduleMonths(ctx, db.SlotCurrent)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule months: %w", err)
	}
	monthKeys := slices.Clone(oldMonths)
	for key := range snapshot.Schedules {
		monthKeys = append(monthKeys, key)
	}
	slices.Sort(monthKeys)
	monthKeys = slices.Compact(monthKeys)

	skipped := 0
	for _, key := range monthKeys {
		schedule := make(model.Schedule)
		for day, id := range snapshot.Schedules[key] {
			if !known[id] {
				skipped++
				continue
			}
			schedule[day] = id
		}

		if err := store.ReplaceAssignments(ctx, key, db.SlotCurrent,
			assignmentsFromSchedule(key, db.SlotCurrent, schedule)); err != nil {
			return fmt.Errorf("failed to store schedule for %s: %w", key, err)
		}
		for _, slot := range []db.Slot{db.SlotPrevious, db.SlotPreview} {
			if err := store.ReplaceAssignments(ctx, key, slot, nil); err != nil {
				return fmt.Errorf("failed to clear %s schedule for %s: %w", slot, key, err)
			}
		}
		if err := store.ReplaceConflicts(ctx, key, nil); err != nil {
			return fmt.Errorf("failed to clear conflicts for %s: %w", key, err)
		}
	}

	if skipped > 0 {
		logger.Warn("Skipped schedule entries for unknown employees", zap.Int("count", skipped))
	}

	logger.Info("Imported snapshot",
		zap.String("export_date", snapshot.ExportDate),
		zap.Int("employees", len(employees)),
		zap.Int("vacations", len(vacations)),
		zap.Int("months", len(snapshot.Schedules)))

	return nil
}

// normalizeSnapshot validates the snapshot and converts it into database records
func normalizeSnapshot(snapshot *Snapshot) ([]db.Employee, []db.Vacation, error) {
	if snapshot == nil {
		return nil, nil, fmt.Errorf("%w: empty snapshot", ErrInvalidSnapshot)
	}

	for key, schedule := range snapshot.Schedules {
		month, err := model.ParseMonthKey(key)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: schedule month %q: %v", ErrInvalidSnapshot, key, err)
		}
		for day := range schedule {
			if checkDay(month, day) != nil {
				return nil, nil, fmt.Errorf("%w: day %d is outside %s", ErrInvalidSnapshot, day, month)
			}
		}
	}

	employees := make([]db.Employee, 0, len(snapshot.Employees))
	var vacations []db.Vacation
	seen := make(map[string]bool, len(snapshot.Employees))

	for i, se := range snapshot.Employees {
		input, err := EmployeeInput{Name: se.Name, Rank: se.Rank, Department: se.Department}.normalize()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: employee %d: %v", ErrInvalidSnapshot, i, err)
		}

		id := se.ID
		if id == "" {
			id = uuid.New().String()
		}
		if seen[id] {
			return nil, nil, fmt.Errorf("%w: duplicate employee id %q", ErrInvalidSnapshot, id)
		}
		seen[id] = true

		employees = append(employees, db.Employee{ID: id, Name: input.Name, Rank: input.Rank, Department: input.Department})

		for key, days := range se.VacationDays {
			month, err := model.ParseMonthKey(key)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: vacation month %q: %v", ErrInvalidSnapshot, key, err)
			}
			days = slices.Clone(days)
			slices.Sort(days)
			for _, day := range slices.Compact(days) {
				if checkDay(month, day) != nil {
					return nil, nil, fmt.Errorf("%w: vacation day %d is outside %s", ErrInvalidSnapshot, day, month)
				}
				vacations = append(vacations, db.Vacation{EmployeeID: id, MonthKey: key, Day: day})
			}
		}
	}

	return employees, vacations, nil
}
