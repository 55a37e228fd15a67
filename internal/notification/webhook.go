package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
)

// WebhookChannel POSTs a summary of the submission to a configured URL
// (Discord/Slack-style incoming webhook).
type WebhookChannel struct {
	url             string
	requestIDHeader string
	client          *http.Client
}

func NewWebhookChannel(url, requestIDHeader string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		url:             strings.TrimSpace(url),
		requestIDHeader: requestIDHeader,
		client:          &http.Client{Timeout: timeout},
	}
}

func (w *WebhookChannel) Name() string {
	return "webhook"
}

// isConfigured treats an empty URL or an unfilled template placeholder
// (the deploy template ships "https://discord.com/api/webhooks/...") as
// not configured.
func (w *WebhookChannel) isConfigured() bool {
	if w.url == "" {
		return false
	}
	if strings.Contains(w.url, "...") {
		logger.Log.Info("Skipping webhook notification because URL appears to be a placeholder")
		return false
	}
	return true
}

type webhookPayload struct {
	Content string `json:"content"`
}

func buildWebhookPayload(contact *domain.ContactForm) webhookPayload {
	return webhookPayload{
		Content: fmt.Sprintf(
			"**New portfolio message**\n**Name:** %s\n**Email:** %s\n**Subject:** %s\n**Message:**\n%s",
			contact.Name, contact.Email, contact.Subject, contact.Message,
		),
	}
}

func (w *WebhookChannel) Send(ctx context.Context, contact *domain.ContactForm, nctx domain.NotificationContext) domain.ChannelResult {
	if !w.isConfigured() {
		return domain.ChannelResult{
			Channel: w.Name(),
			Skipped: true,
			Error:   "Webhook channel is not configured.",
		}
	}

	body, err := json.Marshal(buildWebhookPayload(contact))
	if err != nil {
		return domain.ChannelResult{
			Channel: w.Name(),
			Error:   "Webhook request failed.",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return domain.ChannelResult{
			Channel: w.Name(),
			Error:   "Webhook request failed.",
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(w.requestIDHeader, nctx.RequestID)

	resp, err := w.client.Do(req)
	if err != nil {
		logger.Log.Error("Webhook notification request failed",
			"request_id", nctx.RequestID, "error", err)
		return domain.ChannelResult{
			Channel: w.Name(),
			Error:   "Webhook request failed.",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errMsg := fmt.Sprintf("Webhook returned HTTP %d.", resp.StatusCode)
		logger.Log.Warn("Webhook notification rejected",
			"request_id", nctx.RequestID, "status", resp.StatusCode)
		return domain.ChannelResult{
			Channel: w.Name(),
			Error:   errMsg,
		}
	}

	logger.Log.Info("Webhook notification sent", "request_id", nctx.RequestID)
	return domain.ChannelResult{Channel: w.Name(), Success: true}
}
