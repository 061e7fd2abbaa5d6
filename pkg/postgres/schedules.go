package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/duty-rota/pkg/db"
)

// GetAssignments retrieves the assignments of one schedule slot ordered by day
func (d *DB) GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT month_key, slot, day, employee_id
		FROM assignment
		WHERE month_key = $1 AND slot = $2
		ORDER BY day
	`, monthKey, string(slot))
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		var slotName string
		if err := rows.Scan(&a.MonthKey, &slotName, &a.Day, &a.EmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Slot = db.Slot(slotName)
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// GetScheduleMonths retrieves the month keys with at least one assignment in the slot
func (d *DB) GetScheduleMonths(ctx context.Context, slot db.Slot) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT DISTINCT month_key FROM assignment WHERE slot = $1 ORDER BY month_key
	`, string(slot))
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule months: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var monthKey string
		if err := rows.Scan(&monthKey); err != nil {
			return nil, fmt.Errorf("failed to scan month key: %w", err)
		}
		months = append(months, monthKey)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule months: %w", err)
	}

	return months, nil
}

// ReplaceAssignments swaps the content of a schedule slot in one transaction
func (d *DB) ReplaceAssignments(ctx context.Context, monthKey string, slot db.Slot, assignments []db.Assignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM assignment WHERE month_key = $1 AND slot = $2`, monthKey, string(slot))
	if err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (month_key, slot, day, employee_id)
			VALUES ($1, $2, $3, $4)
		`, monthKey, string(slot), a.Day, a.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetConflicts retrieves the stored preview conflicts of a month in the order they were reported
func (d *DB) GetConflicts(ctx context.Context, monthKey string) ([]db.ScheduleConflict, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT month_key, position, message
		FROM schedule_conflict
		WHERE month_key = $1
		ORDER BY position
	`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []db.ScheduleConflict
	for rows.Next() {
		var c db.ScheduleConflict
		if err := rows.Scan(&c.MonthKey, &c.Position, &c.Message); err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conflicts: %w", err)
	}

	return conflicts, nil
}

// ReplaceConflicts swaps the stored preview conflicts of a month in one transaction
func (d *DB) ReplaceConflicts(ctx context.Context, monthKey string, conflicts []db.ScheduleConflict) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_conflict WHERE month_key = $1`, monthKey); err != nil {
		return fmt.Errorf("failed to clear conflicts: %w", err)
	}

	for _, c := range conflicts {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_conflict (month_key, position, message)
			VALUES ($1, $2, $3)
		`, monthKey, c.Position, c.Message)
		if err != nil {
			return fmt.Errorf("failed to insert conflict: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
