package event

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PublishAccountEvent(t *testing.T) {
	var received PubSubPushMessage
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	event := &service.AccountEvent{
		RequestID: "req-123",
		Type:      service.AccountEventRegistered,
		AccountID: "acc-1",
		Email:     "jo.do@example.com",
	}
	require.NoError(t, publisher.PublishAccountEvent(context.Background(), event))

	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, service.AccountEventRegistered, received.Message.Attributes["type"])
	assert.Equal(t, "acc-1", received.Message.Attributes["account_id"])

	decoded, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var got service.AccountEvent
	require.NoError(t, json.Unmarshal(decoded, &got))
	assert.Equal(t, *event, got)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishAccountEvent(context.Background(), &service.AccountEvent{
		Type:      service.AccountEventDeleted,
		AccountID: "acc-1",
	})
	assert.Error(t, err)
}
