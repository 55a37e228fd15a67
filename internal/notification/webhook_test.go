package notification_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/notification"
	"github.com/stretchr/testify/assert"
)

func TestWebhookChannelUnconfigured(t *testing.T) {
	t.Run("Should skip when URL is empty", func(t *testing.T) {
		ch := notification.NewWebhookChannel("", "X-Request-ID", time.Second)
		result := ch.Send(context.Background(), testContact(), testContext())

		assert.False(t, result.Success)
		assert.True(t, result.Skipped)
		assert.Contains(t, result.Error, "not configured")
	})

	t.Run("Should skip when URL is an unfilled placeholder", func(t *testing.T) {
		ch := notification.NewWebhookChannel("https://discord.com/api/webhooks/...", "X-Request-ID", time.Second)
		result := ch.Send(context.Background(), testContact(), testContext())

		assert.True(t, result.Skipped)
		assert.Contains(t, result.Error, "not configured")
	})
}

func TestWebhookChannelDelivery(t *testing.T) {
	t.Run("Should POST payload with request-id header on success", func(t *testing.T) {
		var gotHeader, gotContentType string
		var gotBody map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Request-ID")
			gotContentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &gotBody)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		ch := notification.NewWebhookChannel(srv.URL, "X-Request-ID", time.Second)
		result := ch.Send(context.Background(), testContact(), testContext())

		assert.True(t, result.Success)
		assert.Equal(t, "webhook", result.Channel)
		assert.Empty(t, result.Error)
		assert.Equal(t, "req-1", gotHeader)
		assert.Equal(t, "application/json", gotContentType)
		assert.Contains(t, gotBody["content"], "**New portfolio message**")
		assert.Contains(t, gotBody["content"], "ada@example.com")
	})

	t.Run("Should fail with status-derived message on non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		ch := notification.NewWebhookChannel(srv.URL, "X-Request-ID", time.Second)
		result := ch.Send(context.Background(), testContact(), testContext())

		assert.False(t, result.Success)
		assert.False(t, result.Skipped)
		assert.Equal(t, "Webhook returned HTTP 502.", result.Error)
	})

	t.Run("Should fail with generic message on network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // connection refused from here on

		ch := notification.NewWebhookChannel(srv.URL, "X-Request-ID", time.Second)
		result := ch.Send(context.Background(), testContact(), testContext())

		assert.False(t, result.Success)
		assert.False(t, result.Skipped)
		assert.Equal(t, "Webhook request failed.", result.Error)
	})
}

func TestEmailChannelUnconfigured(t *testing.T) {
	ch := notification.NewEmailChannel(notification.EmailConfig{
		Host: "smtp.example.com", // to and from missing
	})
	result := ch.Send(context.Background(), testContact(), testContext())

	assert.False(t, result.Success)
	assert.True(t, result.Skipped)
	assert.Equal(t, "email", result.Channel)
	assert.Contains(t, result.Error, "not configured")
}

func TestEmailChannelConnectFailure(t *testing.T) {
	ch := notification.NewEmailChannel(notification.EmailConfig{
		Host:            "127.0.0.1",
		Port:            1, // nothing listens here
		From:            "noreply@example.com",
		To:              "owner@example.com",
		Timeout:         500 * time.Millisecond,
		RequestIDHeader: "X-Request-ID",
	})
	result := ch.Send(context.Background(), testContact(), testContext())

	assert.False(t, result.Success)
	assert.False(t, result.Skipped)
	assert.Equal(t, "Email notification failed.", result.Error)
}
