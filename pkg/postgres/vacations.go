package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/duty-rota/pkg/db"
)

// GetVacations retrieves the vacation days of a month, or of every month when monthKey is empty
func (d *DB) GetVacations(ctx context.Context, monthKey string) ([]db.Vacation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, month_key, day
		FROM vacation
		WHERE $1 = '' OR month_key = $1
		ORDER BY month_key, employee_id, day
	`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}
	defer rows.Close()

	var vacations []db.Vacation
	for rows.Next() {
		var v db.Vacation
		if err := rows.Scan(&v.EmployeeID, &v.MonthKey, &v.Day); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		vacations = append(vacations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vacations: %w", err)
	}

	return vacations, nil
}

// InsertVacation records a vacation day; recording the same day twice is a no-op
func (d *DB) InsertVacation(ctx context.Context, vacation db.Vacation) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO vacation (employee_id, month_key, day)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, vacation.EmployeeID, vacation.MonthKey, vacation.Day)
	if err != nil {
		return fmt.Errorf("failed to insert vacation: %w", err)
	}
	return nil
}

// DeleteVacation removes a vacation day
func (d *DB) DeleteVacation(ctx context.Context, vacation db.Vacation) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM vacation WHERE employee_id = $1 AND month_key = $2 AND day = $3
	`, vacation.EmployeeID, vacation.MonthKey, vacation.Day)
	if err != nil {
		return fmt.Errorf("failed to delete vacation: %w", err)
	}
	return nil
}
