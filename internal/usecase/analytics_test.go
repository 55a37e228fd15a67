package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

// analyticsRecorder counts accepted/rejected analytics metrics.
type analyticsRecorder struct {
	recorderStub
	mu       sync.Mutex
	Accepted []string
	Rejected []string
}

func (r *analyticsRecorder) RecordAnalyticsEvent(_ context.Context, eventName, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Accepted = append(r.Accepted, eventName)
}

func (r *analyticsRecorder) RecordAnalyticsRejected(_ context.Context, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rejected = append(r.Rejected, reason)
}

func TestAnalyticsIngest(t *testing.T) {
	t.Run("Should accept well-formed events", func(t *testing.T) {
		recorder := &analyticsRecorder{}
		uc := usecase.NewAnalyticsUsecase(true, false, recorder)

		result := uc.IngestEvents(context.Background(), []domain.AnalyticsEvent{
			{EventName: domain.EventContactAttempt, PagePath: "/contact"},
			{EventName: domain.EventContactSuccess, PagePath: "/contact"},
		}, "req-1", "abc123", "ua")

		assert.Equal(t, 2, result.Accepted)
		assert.Equal(t, 0, result.Rejected)
		assert.Equal(t, []string{"contact_attempt", "contact_success"}, recorder.Accepted)
	})

	t.Run("Should reject events without a name", func(t *testing.T) {
		recorder := &analyticsRecorder{}
		uc := usecase.NewAnalyticsUsecase(true, false, recorder)

		result := uc.IngestEvents(context.Background(), []domain.AnalyticsEvent{
			{EventName: "", PagePath: "/contact"},
			{EventName: domain.EventContactFailure, PagePath: "/contact"},
		}, "req-1", "abc123", "ua")

		assert.Equal(t, 1, result.Accepted)
		assert.Equal(t, 1, result.Rejected)
		assert.Len(t, result.Errors, 1)
		assert.Equal(t, []string{"missing_event_name"}, recorder.Rejected)
	})

	t.Run("Should reject everything when disabled", func(t *testing.T) {
		recorder := &analyticsRecorder{}
		uc := usecase.NewAnalyticsUsecase(false, false, recorder)

		result := uc.IngestEvents(context.Background(), []domain.AnalyticsEvent{
			{EventName: domain.EventContactAttempt, PagePath: "/contact"},
		}, "req-1", "abc123", "ua")

		assert.Equal(t, 0, result.Accepted)
		assert.Equal(t, 1, result.Rejected)
		assert.Contains(t, result.Errors[0], "disabled")
		assert.Empty(t, recorder.Accepted)
	})
}
