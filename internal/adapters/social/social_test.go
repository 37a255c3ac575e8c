package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramPublish(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":4242}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	p := NewTelegramPublisher("bot-token", "chat-1")
	p.baseURL = srv.URL

	messageID, err := p.Publish(context.Background(), "Exchange rates")

	require.NoError(t, err)
	assert.Equal(t, "4242", messageID)
	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-1", gotBody["chat_id"])
	assert.Equal(t, "Exchange rates", gotBody["text"])
}

func TestTelegramPublish_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	p := NewTelegramPublisher("bot-token", "chat-1")
	p.baseURL = srv.URL

	_, err := p.Publish(context.Background(), "Exchange rates")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestWebhookPublish(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewWebhookPublisher("relay", srv.URL)

	messageID, err := p.Publish(context.Background(), "Exchange rates")

	require.NoError(t, err)
	assert.NotEmpty(t, messageID)
	assert.Equal(t, "Exchange rates", gotBody["text"])
}

func TestWebhookPublish_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewWebhookPublisher("relay", srv.URL)

	_, err := p.Publish(context.Background(), "Exchange rates")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
