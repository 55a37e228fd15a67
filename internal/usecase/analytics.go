package usecase

import (
	"context"
	"strings"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
	"github.com/adamcc31/portfolio-backend/pkg/metrics"
)

// sensitiveMetadataKeys are redacted before analytics metadata is logged.
var sensitiveMetadataKeys = map[string]bool{
	"email":    true,
	"name":     true,
	"phone":    true,
	"message":  true,
	"password": true,
	"token":    true,
	"secret":   true,
}

type analyticsUsecase struct {
	enabled   bool
	logEvents bool
	metrics   metrics.Recorder
}

func NewAnalyticsUsecase(enabled, logEvents bool, recorder metrics.Recorder) domain.AnalyticsUsecase {
	return &analyticsUsecase{
		enabled:   enabled,
		logEvents: logEvents,
		metrics:   recorder,
	}
}

func (uc *analyticsUsecase) IngestEvents(ctx context.Context, events []domain.AnalyticsEvent, requestID, clientIP, userAgent string) domain.AnalyticsIngestResult {
	if !uc.enabled {
		return domain.AnalyticsIngestResult{
			Rejected: len(events),
			Errors:   []string{"Analytics is disabled by configuration."},
		}
	}

	result := domain.AnalyticsIngestResult{}
	for _, event := range events {
		if event.EventName == "" {
			result.Rejected++
			uc.metrics.RecordAnalyticsRejected(ctx, "missing_event_name")
			result.Errors = append(result.Errors, "Event is missing event_name.")
			continue
		}

		uc.metrics.RecordAnalyticsEvent(ctx, string(event.EventName), event.PagePath)
		result.Accepted++

		if uc.logEvents {
			logger.Log.Info("Analytics event accepted",
				"event_name", string(event.EventName),
				"page_path", event.PagePath,
				"request_id", requestID,
				"metadata", redactMetadata(event.Metadata),
			)
		}
	}
	return result
}

func redactMetadata(metadata map[string]interface{}) map[string]interface{} {
	redacted := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if sensitiveMetadataKeys[normalized] {
			redacted[normalized] = "[redacted]"
			continue
		}
		redacted[normalized] = value
	}
	return redacted
}
