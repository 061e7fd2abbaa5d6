package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

func TestWeekendBlocks(t *testing.T) {
	tests := []struct {
		name     string
		month    model.Month
		expected []WeekendBlock
	}{
		{
			name:  "june 2026",
			month: june2026,
			expected: []WeekendBlock{
				{Friday: 5, Saturday: 6, Sunday: 7},
				{Friday: 12, Saturday: 13, Sunday: 14},
				{Friday: 19, Saturday: 20, Sunday: 21},
				{Friday: 26, Saturday: 27, Sunday: 28},
			},
		},
		{
			// Friday 30 has its Sunday in February
			name:  "january 2026 drops the truncated block",
			month: model.Month{Year: 2026, Index: 0},
			expected: []WeekendBlock{
				{Friday: 2, Saturday: 3, Sunday: 4},
				{Friday: 9, Saturday: 10, Sunday: 11},
				{Friday: 16, Saturday: 17, Sunday: 18},
				{Friday: 23, Saturday: 24, Sunday: 25},
			},
		},
		{
			// Starts on a Sunday, the first Friday is the 6th
			name:  "march 2026 ends on a complete block",
			month: model.Month{Year: 2026, Index: 2},
			expected: []WeekendBlock{
				{Friday: 6, Saturday: 7, Sunday: 8},
				{Friday: 13, Saturday: 14, Sunday: 15},
				{Friday: 20, Saturday: 21, Sunday: 22},
				{Friday: 27, Saturday: 28, Sunday: 29},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekendBlocks(tt.month))
		})
	}
}

func TestWeekendCap(t *testing.T) {
	tests := []struct {
		blocks    int
		employees int
		expected  int
	}{
		{blocks: 4, employees: 8, expected: 1},
		{blocks: 4, employees: 3, expected: 3},
		{blocks: 4, employees: 2, expected: 4},
		{blocks: 5, employees: 4, expected: 3},
		{blocks: 4, employees: 1, expected: 8},
		{blocks: 4, employees: 0, expected: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, weekendCap(tt.blocks, tt.employees),
			"%d blocks, %d employees", tt.blocks, tt.employees)
	}
}

func TestAssignWeekends_StandardRoster(t *testing.T) {
	state := newTestState(standardRoster())
	require.Equal(t, 1, state.WeekendCap)

	assignWeekends(state, zap.NewNop())

	assert.Equal(t, model.Schedule{
		5: "e0", 6: "e1", 7: "e0",
		12: "e2", 13: "e3", 14: "e2",
		19: "e4", 20: "e5", 21: "e4",
		26: "e6", 27: "e7", 28: "e6",
	}, state.Schedule)
	assert.Zero(t, state.Conflicts.Len())

	assert.Equal(t, 2, state.Employee("e0").WeekendDays)
	assert.Equal(t, 2, state.Employee("e0").Assigned)
	assert.Equal(t, 7, state.Employee("e0").LastDutyDay)
	assert.Equal(t, 1, state.Employee("e1").WeekendDays)
	assert.Equal(t, 6, state.Employee("e1").LastDutyDay)
}

func TestAssignWeekends_AnchorNeverTakesSaturday(t *testing.T) {
	// Two employees, the second on vacation on the first Saturday
	state := newTestState([]model.Employee{
		employee("a", model.RankR4),
		employee("b", model.RankR4, 6),
	})
	require.Equal(t, 4, state.WeekendCap)

	assignWeekends(state, zap.NewNop())

	assert.Equal(t, "a", state.Schedule[5])
	assert.Equal(t, "a", state.Schedule[7])
	assert.NotContains(t, state.Schedule, 6)

	assert.Equal(t, "b", state.Schedule[12])
	assert.Equal(t, "a", state.Schedule[13])
	assert.Equal(t, "b", state.Schedule[14])

	assert.Equal(t, "b", state.Schedule[19])
	assert.Equal(t, "a", state.Schedule[20])
	assert.Equal(t, "b", state.Schedule[21])

	// Both employees reached the weekend cap before the last block
	assert.NotContains(t, state.Schedule, 26)
	assert.NotContains(t, state.Schedule, 27)
	assert.NotContains(t, state.Schedule, 28)

	conflicts := state.Conflicts.Conflicts()
	require.Len(t, conflicts, 2)
	assert.Equal(t, ConflictSaturday, conflicts[0].Kind)
	assert.Equal(t, "missing capacity for Saturday 6", conflicts[0].Message)
	assert.Equal(t, ConflictWeekendAnchor, conflicts[1].Kind)
	assert.Equal(t, []int{26, 28}, conflicts[1].Days)
	assert.Equal(t, "missing capacity for Friday 26 and Sunday 28", conflicts[1].Message)
}

func TestAssignWeekends_MissingAnchorSkipsSaturday(t *testing.T) {
	state := newTestState([]model.Employee{employee("solo", model.RankR4, 5)})

	assignWeekends(state, zap.NewNop())

	messages := state.Conflicts.Messages()
	require.GreaterOrEqual(t, len(messages), 2)
	assert.Equal(t, "missing capacity for Friday 5 and Sunday 7", messages[0])
	assert.Equal(t, "missing capacity for Saturday 13", messages[1])

	// The first Saturday is left for the daily pass
	assert.NotContains(t, state.Schedule, 6)
	assert.Equal(t, "solo", state.Schedule[12])
	assert.Equal(t, "solo", state.Schedule[14])
}

func TestAssignWeekends_JuniorNeedsTwoDutiesOfHeadroom(t *testing.T) {
	// The junior has a quota of 1, too little for a Friday/Sunday anchor
	junior := employee("junior", model.RankR2, daysRange(1, 15)...)
	state := newTestState([]model.Employee{junior, employee("senior", model.RankR4)})
	require.Equal(t, 1, state.Employee("junior").Quota)

	assignWeekends(state, zap.NewNop())

	for _, block := range WeekendBlocks(june2026) {
		assert.NotEqual(t, "junior", state.Schedule[block.Friday], "Friday %d", block.Friday)
		assert.NotEqual(t, "junior", state.Schedule[block.Sunday], "Sunday %d", block.Sunday)
	}
	assert.LessOrEqual(t, state.Employee("junior").Assigned, 1)
}

func TestPickLargestDeficit(t *testing.T) {
	low := &EmployeeState{Employee: model.Employee{ID: "low"}, Quota: 2}
	high := &EmployeeState{Employee: model.Employee{ID: "high"}, Quota: 5}
	alsoHigh := &EmployeeState{Employee: model.Employee{ID: "also-high"}, Quota: 5}

	assert.Nil(t, pickLargestDeficit(nil))
	assert.Equal(t, high, pickLargestDeficit([]*EmployeeState{low, high, alsoHigh}))
	assert.Equal(t, alsoHigh, pickLargestDeficit([]*EmployeeState{alsoHigh, low, high}))
}
