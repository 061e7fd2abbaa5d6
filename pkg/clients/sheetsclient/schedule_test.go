package sheetsclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildScheduleValues(t *testing.T) {
	published := &PublishedSchedule{
		Title: "October 2026",
		Days: []PublishedDay{
			{Date: "2026-10-01", Weekday: "Thu", Employee: "Ana", Rank: "R4"},
			{Date: "2026-10-02", Weekday: "Fri"},
		},
		Conflicts: []string{"missing capacity for day 2"},
	}

	values := buildScheduleValues(published)

	require.Len(t, values, 6)
	assert.Equal(t, scheduleHeader, values[0])
	assert.Equal(t, []interface{}{"2026-10-01", "Thu", "Ana", "R4"}, values[1])
	assert.Equal(t, []interface{}{"2026-10-02", "Fri", unassignedLabel, ""}, values[2])
	assert.Empty(t, values[3])
	assert.Equal(t, []interface{}{"Conflicts"}, values[4])
	assert.Equal(t, []interface{}{"missing capacity for day 2"}, values[5])
}

func TestBuildScheduleValues_NoConflicts(t *testing.T) {
	values := buildScheduleValues(&PublishedSchedule{Days: []PublishedDay{{Date: "2026-10-01"}}})
	assert.Len(t, values, 2)
}

// fakeSheets records the calls made against a spreadsheet with the given tabs
type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	requests []string
	written  [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.requests = append(f.requests, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		sheetsJSON := make([]map[string]any, 0, len(f.tabs))
		for i, title := range f.tabs {
			sheetsJSON = append(sheetsJSON, map[string]any{"properties": map[string]any{"sheetId": i, "title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "sheets": sheetsJSON})
	case strings.HasSuffix(path, ":batchUpdate"):
		json.NewEncoder(w).Encode(map[string]any{
			"replies": []any{map[string]any{"addSheet": map[string]any{"properties": map[string]any{"sheetId": 99, "title": "new"}}}},
		})
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		var valueRange struct {
			Values [][]interface{} `json:"values"`
		}
		json.Unmarshal(body, &valueRange)
		f.written = valueRange.Values
		w.Write([]byte(`{}`))
	default:
		w.Write([]byte(`{}`))
	}
}

func newFakeClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), server.Client(), option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestPublishSchedule_CreatesMissingTab(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"September 2026"}}
	client := newFakeClient(t, fake)

	err := client.PublishSchedule(context.Background(), "sheet-1", &PublishedSchedule{
		Title: "October 2026",
		Days:  []PublishedDay{{Date: "2026-10-01", Weekday: "Thu", Employee: "Ana", Rank: "R4"}},
	})
	require.NoError(t, err)

	require.Len(t, fake.requests, 3)
	assert.True(t, strings.HasSuffix(fake.requests[1], ":batchUpdate"))
	assert.True(t, strings.HasPrefix(fake.requests[2], http.MethodPut))
	require.Len(t, fake.written, 2)
	assert.Equal(t, "Ana", fake.written[1][2])
}

func TestPublishSchedule_ClearsExistingTab(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"October 2026"}}
	client := newFakeClient(t, fake)

	err := client.PublishSchedule(context.Background(), "sheet-1", &PublishedSchedule{Title: "October 2026"})
	require.NoError(t, err)

	require.Len(t, fake.requests, 3)
	assert.True(t, strings.HasSuffix(fake.requests[1], ":clear"))
	for _, request := range fake.requests {
		assert.NotContains(t, request, ":batchUpdate")
	}
}
