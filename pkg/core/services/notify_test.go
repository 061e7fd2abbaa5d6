package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockSender implements EmailSender for testing
type mockSender struct {
	to      []string
	subject string
	body    string
	calls   int
	err     error
}

func (m *mockSender) SendEmail(ctx context.Context, to []string, subject, body string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestNotifyConflicts(t *testing.T) {
	preview := &Preview{
		Month:      june2026,
		Conflicts:  []string{"missing capacity for Saturday 6", "missing capacity for day 9"},
		Unassigned: []int{6, 9},
	}
	sender := &mockSender{}

	sent, err := NotifyConflicts(context.Background(), sender, zap.NewNop(), []string{"chief@example.com"}, preview)
	require.NoError(t, err)

	assert.True(t, sent)
	assert.Equal(t, []string{"chief@example.com"}, sender.to)
	assert.Equal(t, "Duty rota June 2026: 2 unfilled slot(s)", sender.subject)
	assert.Contains(t, sender.body, "- missing capacity for Saturday 6\n")
	assert.Contains(t, sender.body, "Unassigned days: Sat 6, Tue 9")
}

func TestNotifyConflicts_SkipsWhenNothingToReport(t *testing.T) {
	tests := []struct {
		name       string
		recipients []string
		conflicts  []string
	}{
		{name: "fully covered", recipients: []string{"chief@example.com"}},
		{name: "no recipients", conflicts: []string{"missing capacity for day 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{}

			sent, err := NotifyConflicts(context.Background(), sender, zap.NewNop(), tt.recipients,
				&Preview{Month: june2026, Conflicts: tt.conflicts})

			require.NoError(t, err)
			assert.False(t, sent)
			assert.Zero(t, sender.calls)
		})
	}
}

func TestNotifyConflicts_SendError(t *testing.T) {
	sender := &mockSender{err: errStore}

	_, err := NotifyConflicts(context.Background(), sender, zap.NewNop(), []string{"chief@example.com"},
		&Preview{Month: june2026, Conflicts: []string{"missing capacity for day 3"}})

	assert.ErrorIs(t, err, errStore)
}
