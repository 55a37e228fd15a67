package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
	"github.com/adamcc31/portfolio-backend/pkg/metrics"
)

// Dispatcher fans a submission out to every registered channel
// concurrently and joins all results. Total latency is bounded by the
// slowest channel, not the sum.
type Dispatcher struct {
	channels []domain.NotificationChannel
	metrics  metrics.Recorder
}

func NewDispatcher(recorder metrics.Recorder, channels ...domain.NotificationChannel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		metrics:  recorder,
	}
}

func (d *Dispatcher) NotifySubmission(ctx context.Context, contact *domain.ContactForm, nctx domain.NotificationContext) domain.DispatchResult {
	if len(d.channels) == 0 {
		logger.Log.Info("No notification channels registered, nothing to dispatch")
		return domain.DispatchResult{}
	}

	logger.Log.Info("Dispatching contact notifications",
		"request_id", nctx.RequestID, "channels", len(d.channels))

	results := make([]domain.ChannelResult, len(d.channels))
	var wg sync.WaitGroup
	for i, channel := range d.channels {
		wg.Add(1)
		go func(i int, channel domain.NotificationChannel) {
			defer wg.Done()
			results[i] = d.sendWithMetrics(ctx, channel, contact, nctx)
		}(i, channel)
	}
	wg.Wait()

	logger.Log.Info("Contact notifications finished", "request_id", nctx.RequestID)
	return domain.DispatchResult{Results: results}
}

// sendWithMetrics times one channel send and records its outcome. A
// panicking channel is contained here and converted into a synthetic
// failure so it cannot take down the other channels or the caller.
func (d *Dispatcher) sendWithMetrics(ctx context.Context, channel domain.NotificationChannel, contact *domain.ContactForm, nctx domain.NotificationContext) (result domain.ChannelResult) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.metrics.RecordNotification(ctx, channel.Name(), "exception", time.Since(started))
			logger.Log.Error("Notification channel panicked",
				"channel", channel.Name(), "request_id", nctx.RequestID, "panic", fmt.Sprint(r))
			result = domain.ChannelResult{
				Channel: "unknown",
				Error:   fmt.Sprintf("Unhandled channel panic: %v", r),
			}
		}
	}()

	result = channel.Send(ctx, contact, nctx)

	outcome := "failed"
	switch {
	case result.Success:
		outcome = "success"
	case result.Skipped || strings.Contains(strings.ToLower(result.Error), "not configured"):
		outcome = "skipped"
	}
	d.metrics.RecordNotification(ctx, result.Channel, outcome, time.Since(started))
	return result
}
