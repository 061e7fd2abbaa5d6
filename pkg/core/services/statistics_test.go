package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

func TestComputeStatistics(t *testing.T) {
	july := model.Month{Year: 2026, Index: 6}
	store := newMemoryStore(
		db.Employee{ID: "a", Name: "Ana", Rank: "R5"},
		db.Employee{ID: "b", Name: "Bruno", Rank: "R2"},
	)
	store.assignments[june2026.Key()] = map[db.Slot][]db.Assignment{
		db.SlotCurrent: assignmentsFromSchedule(june2026.Key(), db.SlotCurrent,
			model.Schedule{1: "a", 2: "b", 5: "a", 6: "a", 7: "ghost"}),
		db.SlotPreview: assignmentsFromSchedule(june2026.Key(), db.SlotPreview, model.Schedule{3: "b"}),
	}
	store.assignments[july.Key()] = map[db.Slot][]db.Assignment{
		db.SlotCurrent: assignmentsFromSchedule(july.Key(), db.SlotCurrent, model.Schedule{1: "a"}),
	}

	stats, err := ComputeStatistics(context.Background(), store, zap.NewNop(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-5", "2026-6"}, stats.Months)
	assert.Equal(t, 4, stats.MaxDuties)
	require.Len(t, stats.Employees, 2)

	ana := stats.Employees[0]
	assert.Equal(t, "Ana", ana.Name)
	assert.Equal(t, 4, ana.TotalDuties)
	assert.Equal(t, 2, ana.WeekendDays)
	assert.Equal(t, [7]int{1, 0, 1, 0, 1, 1, 0}, ana.ByWeekday)

	bruno := stats.Employees[1]
	assert.Equal(t, 1, bruno.TotalDuties, "previews are not counted")
	assert.Equal(t, [7]int{0, 1, 0, 0, 0, 0, 0}, bruno.ByWeekday)
}

func TestComputeStatistics_SelectedMonths(t *testing.T) {
	july := model.Month{Year: 2026, Index: 6}
	store := newMemoryStore(db.Employee{ID: "a", Name: "Ana", Rank: "R5"})
	store.assignments[june2026.Key()] = map[db.Slot][]db.Assignment{
		db.SlotCurrent: assignmentsFromSchedule(june2026.Key(), db.SlotCurrent, model.Schedule{1: "a"}),
	}
	store.assignments[july.Key()] = map[db.Slot][]db.Assignment{
		db.SlotCurrent: assignmentsFromSchedule(july.Key(), db.SlotCurrent, model.Schedule{1: "a", 3: "a"}),
	}

	stats, err := ComputeStatistics(context.Background(), store, zap.NewNop(), []model.Month{july})
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-6"}, stats.Months)
	assert.Equal(t, 2, stats.Employees[0].TotalDuties)
}

func TestBalanceScore(t *testing.T) {
	tests := []struct {
		name      string
		byWeekday [7]int
		want      float64
	}{
		{name: "no duties", byWeekday: [7]int{}, want: 0},
		{name: "perfectly even", byWeekday: [7]int{2, 2, 2, 2, 2, 2, 2}, want: 0},
		{name: "single weekday", byWeekday: [7]int{7, 0, 0, 0, 0, 0, 0}, want: 2.449489742783178},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BalanceScore(tt.byWeekday), 1e-9)
		})
	}
}
