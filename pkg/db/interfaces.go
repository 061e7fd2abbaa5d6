package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// RosterStore defines the interface for roster database operations
type RosterStore interface {
	GetEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	InsertEmployee(ctx context.Context, employee *Employee) error
	UpdateEmployee(ctx context.Context, employee *Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// VacationStore defines the interface for vacation database operations
type VacationStore interface {
	// GetVacations returns the vacation days of a month, or of every month when monthKey is empty
	GetVacations(ctx context.Context, monthKey string) ([]Vacation, error)
	InsertVacation(ctx context.Context, vacation Vacation) error
	DeleteVacation(ctx context.Context, vacation Vacation) error
}

// ScheduleStore defines the interface for schedule database operations.
// Every month has up to three independent schedules, one per Slot.
type ScheduleStore interface {
	GetAssignments(ctx context.Context, monthKey string, slot Slot) ([]Assignment, error)
	// GetScheduleMonths returns the month keys that hold at least one assignment in the slot
	GetScheduleMonths(ctx context.Context, slot Slot) ([]string, error)
	// ReplaceAssignments atomically swaps the whole slot content for the given assignments
	ReplaceAssignments(ctx context.Context, monthKey string, slot Slot, assignments []Assignment) error
	GetConflicts(ctx context.Context, monthKey string) ([]ScheduleConflict, error)
	ReplaceConflicts(ctx context.Context, monthKey string, conflicts []ScheduleConflict) error
}

// Database defines the interface for all database operations.
// Both the PostgreSQL-backed postgres.DB and the local sqlite.DB implement this interface.
type Database interface {
	RosterStore
	VacationStore
	ScheduleStore
	Close() error
}
