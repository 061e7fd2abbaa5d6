package gmailclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildMessage(t *testing.T) {
	message := buildMessage("rota@example.com", []string{"a@example.com", "b@example.com"}, "Conflicts", "day 3")

	assert.Equal(t, "From: rota@example.com\r\n"+
		"To: a@example.com, b@example.com\r\n"+
		"Subject: Conflicts\r\n"+
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n"+
		"day 3", message)
}

func TestBuildMessage_WithoutSender(t *testing.T) {
	message := buildMessage("", []string{"a@example.com"}, "Conflicts", "")
	assert.NotContains(t, message, "From:")
}

func TestSendEmail(t *testing.T) {
	var paths []string
	var raw []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var message struct {
			Raw string `json:"raw"`
		}
		json.NewDecoder(r.Body).Decode(&message)
		raw = append(raw, message.Raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "msg-1"}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), server.Client(), "", "", option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	client.interval = time.Millisecond

	require.NoError(t, client.SendEmail(context.Background(), []string{"chief@example.com"}, "Conflicts", "missing capacity for day 3"))
	require.NoError(t, client.SendEmail(context.Background(), []string{"chief@example.com"}, "Conflicts", "again"))

	require.Len(t, paths, 2)
	assert.Equal(t, "/gmail/v1/users/me/messages/send", paths[0])

	decoded, err := base64.URLEncoding.DecodeString(raw[0])
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "missing capacity for day 3")
}

func TestSendEmail_NoRecipients(t *testing.T) {
	client := &Client{}
	assert.ErrorContains(t, client.SendEmail(context.Background(), nil, "Conflicts", "body"), "no recipients")
}
