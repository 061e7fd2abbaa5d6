package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/duty-rota/pkg/db"
)

// GetEmployees retrieves all roster records in insertion order
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, rank, department
		FROM employee
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []db.Employee
	for rows.Next() {
		var e db.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Rank, &e.Department); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee retrieves one roster record, returning db.ErrNotFound if it does not exist
func (d *DB) GetEmployee(ctx context.Context, id string) (*db.Employee, error) {
	var e db.Employee
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, rank, department
		FROM employee
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Rank, &e.Department)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("employee %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	return &e, nil
}

// InsertEmployee inserts a new roster record
func (d *DB) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO employee (id, name, rank, department)
		VALUES ($1, $2, $3, $4)
	`, employee.ID, employee.Name, employee.Rank, employee.Department)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// UpdateEmployee overwrites the name, rank and department of a roster record
func (d *DB) UpdateEmployee(ctx context.Context, employee *db.Employee) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE employee SET name = $2, rank = $3, department = $4 WHERE id = $1
	`, employee.ID, employee.Name, employee.Rank, employee.Department)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %s: %w", employee.ID, db.ErrNotFound)
	}
	return nil
}

// DeleteEmployee removes a roster record together with its vacation days.
// Stored schedules keep their assignments.
func (d *DB) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %s: %w", id, db.ErrNotFound)
	}
	return nil
}
