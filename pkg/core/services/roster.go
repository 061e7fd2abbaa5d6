package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/db"
)

var (
	// ErrInvalidRank is returned for a rank outside the configured seniority ladder
	ErrInvalidRank = errors.New("invalid rank")

	// ErrInvalidEmployee is returned for incomplete employee details
	ErrInvalidEmployee = errors.New("invalid employee")
)

// EmployeeInput holds the editable fields of a roster entry
type EmployeeInput struct {
	Name       string
	Rank       string
	Department string
}

func (in EmployeeInput) normalize() (EmployeeInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidEmployee)
	}
	rank, err := parseRank(strings.ToUpper(strings.TrimSpace(in.Rank)))
	if err != nil {
		return in, err
	}
	in.Rank = string(rank)
	return in, nil
}

// ListEmployees returns the roster in insertion order
func ListEmployees(ctx context.Context, store db.RosterStore) ([]db.Employee, error) {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	return employees, nil
}

// AddEmployee creates a roster entry with a fresh id
func AddEmployee(ctx context.Context, store db.RosterStore, logger *zap.Logger, input EmployeeInput) (*db.Employee, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	employee := &db.Employee{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Rank:       input.Rank,
		Department: input.Department,
	}

	if err := store.InsertEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}

	logger.Info("Added employee",
		zap.String("id", employee.ID),
		zap.String("name", employee.Name),
		zap.String("rank", employee.Rank))

	return employee, nil
}

// UpdateEmployee overwrites the editable fields of an existing roster entry
func UpdateEmployee(ctx context.Context, store db.RosterStore, logger *zap.Logger, id string, input EmployeeInput) (*db.Employee, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	employee := &db.Employee{
		ID:         id,
		Name:       input.Name,
		Rank:       input.Rank,
		Department: input.Department,
	}

	if err := store.UpdateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	logger.Info("Updated employee", zap.String("id", id), zap.String("rank", employee.Rank))
	return employee, nil
}

// RemoveEmployee deletes a roster entry and its vacation days; applied schedules keep the id
func RemoveEmployee(ctx context.Context, store db.RosterStore, logger *zap.Logger, id string) error {
	if err := store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	logger.Info("Removed employee", zap.String("id", id))
	return nil
}
