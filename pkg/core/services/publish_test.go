package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

// mockPublisher implements SchedulePublisher for testing
type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedSchedule
	err           error
}

func (m *mockPublisher) PublishSchedule(ctx context.Context, spreadsheetID string, published *sheetsclient.PublishedSchedule) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.published = published
	return nil
}

func TestPublishSchedule(t *testing.T) {
	schedule := model.Schedule{}
	for day := 1; day <= 30; day++ {
		if day != 4 {
			schedule[day] = "e0"
		}
	}
	store := storeWithCurrent(schedule)
	publisher := &mockPublisher{}

	err := PublishSchedule(context.Background(), store, publisher, zap.NewNop(), "sheet-1", june2026)
	require.NoError(t, err)

	require.NotNil(t, publisher.published)
	assert.Equal(t, "sheet-1", publisher.spreadsheetID)
	assert.Equal(t, "June 2026", publisher.published.Title)
	require.Len(t, publisher.published.Days, 30)
	assert.Equal(t, sheetsclient.PublishedDay{Date: "2026-06-01", Weekday: "Mon", Employee: "Ana", Rank: "R5"}, publisher.published.Days[0])
	assert.Equal(t, sheetsclient.PublishedDay{Date: "2026-06-04", Weekday: "Thu"}, publisher.published.Days[3])
	assert.Equal(t, []string{"nobody on duty on day 4"}, publisher.published.Conflicts)
}

func TestPublishSchedule_Errors(t *testing.T) {
	t.Run("nothing applied", func(t *testing.T) {
		publisher := &mockPublisher{}

		err := PublishSchedule(context.Background(), newMemoryStore(standardEmployees()...), publisher, zap.NewNop(), "sheet-1", june2026)

		assert.Error(t, err)
		assert.Nil(t, publisher.published)
	})

	t.Run("publisher fails", func(t *testing.T) {
		store := storeWithCurrent(model.Schedule{1: "e0"})

		err := PublishSchedule(context.Background(), store, &mockPublisher{err: errStore}, zap.NewNop(), "sheet-1", june2026)

		assert.ErrorIs(t, err, errStore)
	})
}

func TestBuildPublishedSchedule_UnknownEmployee(t *testing.T) {
	published := buildPublishedSchedule(june2026, model.Schedule{1: "gone"}, []db.Employee{})

	assert.Equal(t, "gone", published.Days[0].Employee)
	assert.Empty(t, published.Days[0].Rank)
}
