package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

func withDeficit(id string, deficit int) *EmployeeState {
	return &EmployeeState{Employee: model.Employee{ID: id}, Quota: deficit}
}

func TestPickByDeficit(t *testing.T) {
	tests := []struct {
		name     string
		deficits []int
		tieBreak TieBreaker
		expected int
	}{
		{name: "clear winner kept through near tie", deficits: []int{3, 5, 4}, tieBreak: FirstMatch, expected: 1},
		{name: "near tie goes to challenger", deficits: []int{3, 5, 4}, tieBreak: alwaysChallenger, expected: 2},
		{name: "larger deficit replaces selection", deficits: []int{1, 4}, tieBreak: FirstMatch, expected: 1},
		{name: "smaller deficit never replaces selection", deficits: []int{4, 1}, tieBreak: alwaysChallenger, expected: 0},
		{name: "ties chain through the pool", deficits: []int{5, 4, 3}, tieBreak: alwaysChallenger, expected: 2},
		{name: "single candidate", deficits: []int{2}, tieBreak: alwaysChallenger, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := make([]*EmployeeState, len(tt.deficits))
			for i, deficit := range tt.deficits {
				pool[i] = withDeficit(string(rune('a'+i)), deficit)
			}

			assert.Same(t, pool[tt.expected], pickByDeficit(pool, tt.tieBreak))
		})
	}

	assert.Nil(t, pickByDeficit(nil, FirstMatch))
}

func TestPreferRankRotation(t *testing.T) {
	state := newTestState(standardRoster())
	state.assign(state.Employee("e1"), 1, false)

	t.Run("drops yesterday's rank", func(t *testing.T) {
		pool := preferRankRotation(state, 2, state.Employees)

		for _, emp := range pool {
			assert.NotEqual(t, model.RankR4, emp.Employee.Rank, emp.ID())
		}
		assert.Len(t, pool, 6)
	})

	t.Run("falls back when only the same rank is eligible", func(t *testing.T) {
		candidates := []*EmployeeState{state.Employee("e2")}
		assert.Equal(t, candidates, preferRankRotation(state, 2, candidates))
	})

	t.Run("first day keeps all candidates", func(t *testing.T) {
		assert.Equal(t, state.Employees, preferRankRotation(state, 1, state.Employees))
	})
}

func TestThursdayRestConstraint(t *testing.T) {
	// June 2026 Thursdays are 4, 11, 18 and 25
	state := newTestState([]model.Employee{employee("a", model.RankR4), employee("b", model.RankR4)})
	a := state.Employee("a")
	b := state.Employee("b")
	constraint := ThursdayRestConstraint{}

	state.assign(a, 4, false)
	assert.False(t, constraint.Allows(state, a, []int{6}), "Saturday after a Thursday duty")
	assert.False(t, constraint.Allows(state, a, []int{7}), "Sunday after a Thursday duty")
	assert.True(t, constraint.Allows(state, a, []int{8}), "Monday is outside the window")
	assert.True(t, constraint.Allows(state, b, []int{6}))

	state.assign(b, 14, true)
	assert.False(t, constraint.Allows(state, b, []int{11}), "Thursday before a weekend duty")
	assert.True(t, constraint.Allows(state, b, []int{18}))

	state.assign(a, 6, false)
	violations := constraint.Validate(state)
	require.Len(t, violations, 1)
	assert.Equal(t, 6, violations[0].Day)
	assert.Equal(t, "2026-06-06", violations[0].Date)
	assert.Equal(t, "ThursdayRest", violations[0].ConstraintName)
}

func TestRestConstraint_ChecksBothNeighbours(t *testing.T) {
	state := newTestState([]model.Employee{employee("a", model.RankR4)})
	a := state.Employee("a")
	constraint := RestConstraint{}

	// The weekend pass fills later days first, so the day before an assignment must be blocked too
	state.assign(a, 12, true)
	assert.False(t, constraint.Allows(state, a, []int{11}))
	assert.False(t, constraint.Allows(state, a, []int{13}))
	assert.True(t, constraint.Allows(state, a, []int{10}))
	assert.True(t, constraint.Allows(state, a, []int{14}))
}

func TestFillDays_DoesNotCountWeekendDays(t *testing.T) {
	state := newTestState(standardRoster())

	fillDays(state, FirstMatch, zap.NewNop())

	assert.Empty(t, state.Schedule.Unassigned(state.DaysInMonth))
	for _, emp := range state.Employees {
		assert.Zero(t, emp.WeekendDays, emp.ID())
	}
}

func TestFillDays_RecordsConflictAndContinues(t *testing.T) {
	state := newTestState([]model.Employee{employee("solo", model.RankR4, 2)})

	fillDays(state, FirstMatch, zap.NewNop())

	assert.Equal(t, "solo", state.Schedule[1])
	assert.NotContains(t, state.Schedule, 2)
	assert.Equal(t, "solo", state.Schedule[3])

	messages := state.Conflicts.Messages()
	require.NotEmpty(t, messages)
	assert.Equal(t, "missing capacity for day 2", messages[0])
	for _, conflict := range state.Conflicts.Conflicts() {
		assert.Equal(t, ConflictDay, conflict.Kind)
	}
}
