package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-rota/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := NewDB(filepath.Join(t.TempDir(), "duty-rota.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestEmployees(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "a", Name: "Ana", Rank: "R3", Department: "ICU"}))
	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "b", Name: "Bruno", Rank: "R2"}))

	employees, err := database.GetEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, db.Employee{ID: "a", Name: "Ana", Rank: "R3", Department: "ICU"}, employees[0])

	t.Run("update", func(t *testing.T) {
		require.NoError(t, database.UpdateEmployee(ctx, &db.Employee{ID: "b", Name: "Bruno", Rank: "R3"}))
		employee, err := database.GetEmployee(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "R3", employee.Rank)
	})

	t.Run("missing employee", func(t *testing.T) {
		_, err := database.GetEmployee(ctx, "missing")
		assert.ErrorIs(t, err, db.ErrNotFound)
		assert.ErrorIs(t, database.UpdateEmployee(ctx, &db.Employee{ID: "missing"}), db.ErrNotFound)
		assert.ErrorIs(t, database.DeleteEmployee(ctx, "missing"), db.ErrNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		assert.Error(t, database.InsertEmployee(ctx, &db.Employee{ID: "a", Name: "Other", Rank: "R4"}))
	})
}

func TestDeleteEmployee_RemovesVacations(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.InsertEmployee(ctx, &db.Employee{ID: "a", Name: "Ana", Rank: "R3"}))
	require.NoError(t, database.InsertVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-9", Day: 3}))
	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotCurrent, []db.Assignment{{Day: 1, EmployeeID: "a"}}))

	require.NoError(t, database.DeleteEmployee(ctx, "a"))

	vacations, err := database.GetVacations(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, vacations)

	assignments, err := database.GetAssignments(ctx, "2026-9", db.SlotCurrent)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestVacations(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.InsertVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-9", Day: 5}))
	require.NoError(t, database.InsertVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-9", Day: 4}))
	require.NoError(t, database.InsertVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-10", Day: 1}))

	// Recording the same day twice is a no-op
	require.NoError(t, database.InsertVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-9", Day: 5}))

	october, err := database.GetVacations(ctx, "2026-9")
	require.NoError(t, err)
	assert.Equal(t, []db.Vacation{
		{EmployeeID: "a", MonthKey: "2026-9", Day: 4},
		{EmployeeID: "a", MonthKey: "2026-9", Day: 5},
	}, october)

	all, err := database.GetVacations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, database.DeleteVacation(ctx, db.Vacation{EmployeeID: "a", MonthKey: "2026-9", Day: 4}))
	october, err = database.GetVacations(ctx, "2026-9")
	require.NoError(t, err)
	assert.Len(t, october, 1)
}

func TestAssignments_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	current := []db.Assignment{{Day: 2, EmployeeID: "b"}, {Day: 1, EmployeeID: "a"}}
	preview := []db.Assignment{{Day: 1, EmployeeID: "c"}}

	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotCurrent, current))
	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotPreview, preview))

	got, err := database.GetAssignments(ctx, "2026-9", db.SlotCurrent)
	require.NoError(t, err)
	assert.Equal(t, []db.Assignment{
		{MonthKey: "2026-9", Slot: db.SlotCurrent, Day: 1, EmployeeID: "a"},
		{MonthKey: "2026-9", Slot: db.SlotCurrent, Day: 2, EmployeeID: "b"},
	}, got)

	// Replacing a slot drops its previous content
	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotCurrent, []db.Assignment{{Day: 3, EmployeeID: "c"}}))
	got, err = database.GetAssignments(ctx, "2026-9", db.SlotCurrent)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Day)

	got, err = database.GetAssignments(ctx, "2026-9", db.SlotPreview)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotPreview, nil))
	got, err = database.GetAssignments(ctx, "2026-9", db.SlotPreview)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetScheduleMonths(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.ReplaceAssignments(ctx, "2026-9", db.SlotCurrent, []db.Assignment{{Day: 1, EmployeeID: "a"}, {Day: 2, EmployeeID: "b"}}))
	require.NoError(t, database.ReplaceAssignments(ctx, "2026-10", db.SlotCurrent, []db.Assignment{{Day: 1, EmployeeID: "a"}}))
	require.NoError(t, database.ReplaceAssignments(ctx, "2026-11", db.SlotPreview, []db.Assignment{{Day: 1, EmployeeID: "a"}}))

	months, err := database.GetScheduleMonths(ctx, db.SlotCurrent)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10", "2026-9"}, months)
}

func TestConflicts(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.ReplaceConflicts(ctx, "2026-9", []db.ScheduleConflict{
		{Position: 1, Message: "missing capacity for day 9"},
		{Position: 0, Message: "missing capacity for Saturday 3"},
	}))

	conflicts, err := database.GetConflicts(ctx, "2026-9")
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "missing capacity for Saturday 3", conflicts[0].Message)

	require.NoError(t, database.ReplaceConflicts(ctx, "2026-9", nil))
	conflicts, err = database.GetConflicts(ctx, "2026-9")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
