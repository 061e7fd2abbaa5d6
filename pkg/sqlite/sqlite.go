package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jakechorley/duty-rota/pkg/db"
)

// employeeRow represents the employee table
type employeeRow struct {
	ID         string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Rank       string `gorm:"not null"`
	Department string
	CreatedAt  time.Time
}

func (employeeRow) TableName() string { return "employee" }

// vacationRow represents the vacation table
type vacationRow struct {
	EmployeeID string `gorm:"primaryKey"`
	MonthKey   string `gorm:"primaryKey"`
	Day        int    `gorm:"primaryKey;autoIncrement:false"`
}

func (vacationRow) TableName() string { return "vacation" }

// assignmentRow represents the assignment table
type assignmentRow struct {
	MonthKey   string `gorm:"primaryKey"`
	Slot       string `gorm:"primaryKey"`
	Day        int    `gorm:"primaryKey;autoIncrement:false"`
	EmployeeID string `gorm:"not null;index"`
}

func (assignmentRow) TableName() string { return "assignment" }

// conflictRow represents the schedule_conflict table
type conflictRow struct {
	MonthKey string `gorm:"primaryKey"`
	Position int    `gorm:"primaryKey;autoIncrement:false"`
	Message  string `gorm:"not null"`
}

func (conflictRow) TableName() string { return "schedule_conflict" }

// DB provides database operations on a local SQLite file
type DB struct {
	gorm *gorm.DB
}

var _ db.Database = (*DB)(nil)

// NewDB opens (or creates) the SQLite database at path and migrates the schema
func NewDB(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := conn.AutoMigrate(&employeeRow{}, &vacationRow{}, &assignmentRow{}, &conflictRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return &DB{gorm: conn}, nil
}

// Close closes the underlying connection
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to get sqlite connection: %w", err)
	}
	return sqlDB.Close()
}

// GetEmployees retrieves all roster records in insertion order
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	var rows []employeeRow
	if err := d.gorm.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees := make([]db.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, toEmployee(row))
	}
	return employees, nil
}

// GetEmployee retrieves one roster record, returning db.ErrNotFound if it does not exist
func (d *DB) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	var row employeeRow
	err := d.gorm.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("employee %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	employee := toEmployee(row)
	return &employee, nil
}

// InsertEmployee inserts a new roster record
func (d *DB) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	row := employeeRow{
		ID:         employee.ID,
		Name:       employee.Name,
		Rank:       employee.Rank,
		Department: employee.Department,
	}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// UpdateEmployee overwrites the name, rank and department of a roster record
func (d *DB) UpdateEmployee(ctx context.Context, employee *db.Employee) error {
	result := d.gorm.WithContext(ctx).Model(&employeeRow{}).Where("id = ?", employee.ID).Updates(map[string]any{
		"name":       employee.Name,
		"rank":       employee.Rank,
		"department": employee.Department,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("employee %s: %w", employee.ID, db.ErrNotFound)
	}
	return nil
}

// DeleteEmployee removes a roster record together with its vacation days.
// Stored schedules keep their assignments.
func (d *DB) DeleteEmployee(ctx context.Context, id string) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&employeeRow{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete employee: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("employee %s: %w", id, db.ErrNotFound)
		}
		if err := tx.Where("employee_id = ?", id).Delete(&vacationRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete vacations: %w", err)
		}
		return nil
	})
}

// GetVacations retrieves the vacation days of a month, or of every month when monthKey is empty
func (d *DB) GetVacations(ctx context.Context, monthKey string) ([]db.Vacation, error) {
	query := d.gorm.WithContext(ctx).Order("month_key, employee_id, day")
	if monthKey != "" {
		query = query.Where("month_key = ?", monthKey)
	}

	var rows []vacationRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}

	vacations := make([]db.Vacation, 0, len(rows))
	for _, row := range rows {
		vacations = append(vacations, db.Vacation{EmployeeID: row.EmployeeID, MonthKey: row.MonthKey, Day: row.Day})
	}
	return vacations, nil
}

// InsertVacation records a vacation day; recording the same day twice is a no-op
func (d *DB) InsertVacation(ctx context.Context, vacation db.Vacation) error {
	row := vacationRow{EmployeeID: vacation.EmployeeID, MonthKey: vacation.MonthKey, Day: vacation.Day}
	if err := d.gorm.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert vacation: %w", err)
	}
	return nil
}

// DeleteVacation removes a vacation day
func (d *DB) DeleteVacation(ctx context.Context, vacation db.Vacation) error {
	err := d.gorm.WithContext(ctx).
		Where("employee_id = ? AND month_key = ? AND day = ?", vacation.EmployeeID, vacation.MonthKey, vacation.Day).
		Delete(&vacationRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete vacation: %w", err)
	}
	return nil
}

// GetAssignments retrieves the assignments of one schedule slot ordered by day
func (d *DB) GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error) {
	var rows []assignmentRow
	err := d.gorm.WithContext(ctx).
		Where("month_key = ? AND slot = ?", monthKey, string(slot)).
		Order("day").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}

	assignments := make([]db.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, db.Assignment{
			MonthKey:   row.MonthKey,
			Slot:       db.Slot(row.Slot),
			Day:        row.Day,
			EmployeeID: row.EmployeeID,
		})
	}
	return assignments, nil
}

// GetScheduleMonths retrieves the month keys with at least one assignment in the slot
func (d *DB) GetScheduleMonths(ctx context.Context, slot db.Slot) ([]string, error) {
	var months []string
	err := d.gorm.WithContext(ctx).
		Model(&assignmentRow{}).
		Where("slot = ?", string(slot)).
		Distinct("month_key").
		Order("month_key").
		Pluck("month_key", &months).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule months: %w", err)
	}
	return months, nil
}

// ReplaceAssignments swaps the content of a schedule slot in one transaction
func (d *DB) ReplaceAssignments(ctx context.Context, monthKey string, slot db.Slot, assignments []db.Assignment) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("month_key = ? AND slot = ?", monthKey, string(slot)).Delete(&assignmentRow{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}
		if len(assignments) == 0 {
			return nil
		}

		rows := make([]assignmentRow, 0, len(assignments))
		for _, a := range assignments {
			rows = append(rows, assignmentRow{MonthKey: monthKey, Slot: string(slot), Day: a.Day, EmployeeID: a.EmployeeID})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
		return nil
	})
}

// GetConflicts retrieves the stored preview conflicts of a month in the order they were reported
func (d *DB) GetConflicts(ctx context.Context, monthKey string) ([]db.ScheduleConflict, error) {
	var rows []conflictRow
	if err := d.gorm.WithContext(ctx).Where("month_key = ?", monthKey).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}

	conflicts := make([]db.ScheduleConflict, 0, len(rows))
	for _, row := range rows {
		conflicts = append(conflicts, db.ScheduleConflict{MonthKey: row.MonthKey, Position: row.Position, Message: row.Message})
	}
	return conflicts, nil
}

// ReplaceConflicts swaps the stored preview conflicts of a month in one transaction
func (d *DB) ReplaceConflicts(ctx context.Context, monthKey string, conflicts []db.ScheduleConflict) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month_key = ?", monthKey).Delete(&conflictRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear conflicts: %w", err)
		}
		if len(conflicts) == 0 {
			return nil
		}

		rows := make([]conflictRow, 0, len(conflicts))
		for _, c := range conflicts {
			rows = append(rows, conflictRow{MonthKey: monthKey, Position: c.Position, Message: c.Message})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert conflicts: %w", err)
		}
		return nil
	})
}

func toEmployee(row employeeRow) db.Employee {
	return db.Employee{
		ID:         row.ID,
		Name:       row.Name,
		Rank:       row.Rank,
		Department: row.Department,
	}
}
