package domain

import "context"

// AnalyticsEventName enumerates the events the contact pipeline emits.
type AnalyticsEventName string

const (
	EventContactAttempt AnalyticsEventName = "contact_attempt"
	EventContactSuccess AnalyticsEventName = "contact_success"
	EventContactFailure AnalyticsEventName = "contact_failure"
)

// AnalyticsEvent is one structured outcome event.
type AnalyticsEvent struct {
	EventName AnalyticsEventName     `json:"event_name" binding:"required,oneof=contact_attempt contact_success contact_failure"`
	PagePath  string                 `json:"page_path" binding:"required,max=512"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// AnalyticsIngestResult summarizes one ingest batch.
type AnalyticsIngestResult struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// AnalyticsUsecase receives structured outcome events.
type AnalyticsUsecase interface {
	IngestEvents(ctx context.Context, events []AnalyticsEvent, requestID, clientIP, userAgent string) AnalyticsIngestResult
}
