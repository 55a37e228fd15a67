// Package metrics records contact-pipeline outcomes through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder is the pipeline's view of the metrics sink. Handlers and
// usecases depend on this interface so tests can substitute a stub.
type Recorder interface {
	// RecordContactSubmission counts one finished submission by outcome.
	RecordContactSubmission(ctx context.Context, outcome string)
	// RecordNotification counts one channel send and its duration.
	RecordNotification(ctx context.Context, channel, outcome string, duration time.Duration)
	// RecordAnalyticsEvent counts one accepted analytics event.
	RecordAnalyticsEvent(ctx context.Context, eventName, pagePath string)
	// RecordAnalyticsRejected counts one rejected analytics event.
	RecordAnalyticsRejected(ctx context.Context, reason string)
}

// AppMetrics implements Recorder on OpenTelemetry instruments.
type AppMetrics struct {
	contactSubmissionsTotal metric.Int64Counter
	notificationTotal       metric.Int64Counter
	notificationDurationMS  metric.Float64Histogram
	analyticsEventsTotal    metric.Int64Counter
	analyticsRejectedTotal  metric.Int64Counter
}

func New() (*AppMetrics, error) {
	meter := otel.Meter("portfolio-backend")

	contactSubmissions, err := meter.Int64Counter(
		"portfolio.contact.submissions_total",
		metric.WithDescription("Total contact submissions by outcome."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submissions counter: %w", err)
	}
	notificationTotal, err := meter.Int64Counter(
		"portfolio.contact.notification_total",
		metric.WithDescription("Notification channel outcomes."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification counter: %w", err)
	}
	notificationDuration, err := meter.Float64Histogram(
		"portfolio.contact.notification_duration_ms",
		metric.WithDescription("Notification channel send duration in milliseconds."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification histogram: %w", err)
	}
	analyticsEvents, err := meter.Int64Counter(
		"portfolio.analytics.events_total",
		metric.WithDescription("Total analytics events accepted."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analytics counter: %w", err)
	}
	analyticsRejected, err := meter.Int64Counter(
		"portfolio.analytics.events_rejected_total",
		metric.WithDescription("Total analytics events rejected."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analytics rejected counter: %w", err)
	}

	return &AppMetrics{
		contactSubmissionsTotal: contactSubmissions,
		notificationTotal:       notificationTotal,
		notificationDurationMS:  notificationDuration,
		analyticsEventsTotal:    analyticsEvents,
		analyticsRejectedTotal:  analyticsRejected,
	}, nil
}

func (m *AppMetrics) RecordContactSubmission(ctx context.Context, outcome string) {
	m.contactSubmissionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *AppMetrics) RecordNotification(ctx context.Context, channel, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	)
	m.notificationTotal.Add(ctx, 1, attrs)
	m.notificationDurationMS.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}

func (m *AppMetrics) RecordAnalyticsEvent(ctx context.Context, eventName, pagePath string) {
	m.analyticsEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_name", eventName),
		attribute.String("page_path", pagePath),
	))
}

func (m *AppMetrics) RecordAnalyticsRejected(ctx context.Context, reason string) {
	m.analyticsRejectedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// Nop discards all measurements. Used when telemetry setup fails.
type Nop struct{}

func (Nop) RecordContactSubmission(context.Context, string) {}

func (Nop) RecordNotification(context.Context, string, string, time.Duration) {}

func (Nop) RecordAnalyticsEvent(context.Context, string, string) {}

func (Nop) RecordAnalyticsRejected(context.Context, string) {}
