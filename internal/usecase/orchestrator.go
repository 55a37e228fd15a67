package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
	"github.com/adamcc31/portfolio-backend/pkg/metrics"

	"github.com/google/uuid"
)

// Submission outcome tags, recorded in metrics and analytics events.
const (
	OutcomeSuccess                = "success"
	OutcomeSuccessPartial         = "success_partial"
	OutcomeAcceptedNoChannel      = "accepted_no_channel"
	OutcomeNotificationFailed     = "notification_failed"
	OutcomeCSRF                   = "csrf"
	OutcomeValidationError        = "validation_error"
	OutcomeUnsupportedContentType = "unsupported_content_type"
	OutcomeUnexpectedState        = "unexpected_submission_state"
)

const (
	successMessage        = "Message sent successfully. Thank you for reaching out."
	deliveryFailedMessage = "Your message could not be delivered right now. Please try again in a few minutes."
)

// SubmissionRequest is one inbound POST /contact, with the client IP
// already anonymized by the delivery layer.
type SubmissionRequest struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	CSRFToken   string
	ContentType string
	ClientIP    string
	UserAgent   string
	RequestID   string
}

// SubmissionOutcome is the page to render, its status code, and the
// outcome tag the pipeline classified the attempt as.
type SubmissionOutcome struct {
	Page       ContactPage
	StatusCode int
	Outcome    string
}

// ContactOrchestrator sequences content-type check, validation,
// notification dispatch and outcome classification for one submission.
type ContactOrchestrator interface {
	BuildPage(userAgent string) ContactPage
	HandleSubmission(ctx context.Context, req SubmissionRequest) SubmissionOutcome
}

type contactOrchestrator struct {
	pages       *ContactPageService
	submissions domain.ContactSubmissionUsecase
	dispatcher  domain.NotificationDispatcher
	analytics   domain.AnalyticsUsecase
	repo        domain.ContactMessageRepository // nil when persistence is disabled
	metrics     metrics.Recorder
}

func NewContactOrchestrator(
	pages *ContactPageService,
	submissions domain.ContactSubmissionUsecase,
	dispatcher domain.NotificationDispatcher,
	analytics domain.AnalyticsUsecase,
	repo domain.ContactMessageRepository,
	recorder metrics.Recorder,
) ContactOrchestrator {
	return &contactOrchestrator{
		pages:       pages,
		submissions: submissions,
		dispatcher:  dispatcher,
		analytics:   analytics,
		repo:        repo,
		metrics:     recorder,
	}
}

func (o *contactOrchestrator) BuildPage(userAgent string) ContactPage {
	return o.pages.BuildPage(userAgent, "", nil, nil)
}

// HandleSubmission never returns an error: every branch, including the
// defensive 500, constructs an explicit page and status code.
func (o *contactOrchestrator) HandleSubmission(ctx context.Context, req SubmissionRequest) SubmissionOutcome {
	logger.Log.Info("Contact form submission received", "request_id", req.RequestID)
	o.emitEvent(ctx, req, domain.EventContactAttempt, map[string]interface{}{
		"subject": truncate(req.Subject, 120),
	})

	if !IsAllowedFormContentType(req.ContentType) {
		logger.Log.Warn("Invalid content-type for contact submission",
			"content_type", req.ContentType, "request_id", req.RequestID)
		return o.fail(ctx, req, SubmissionOutcome{
			Page: o.pages.BuildPage(req.UserAgent, "",
				map[string]string{"form": "Unsupported content type."},
				map[string]string{
					"name":    req.Name,
					"email":   req.Email,
					"subject": req.Subject,
					"message": req.Message,
				}),
			StatusCode: http.StatusUnsupportedMediaType,
			Outcome:    OutcomeUnsupportedContentType,
		})
	}

	submission := o.submissions.Process(ctx, domain.SubmissionInput{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CSRFToken: req.CSRFToken,
		ClientIP:  req.ClientIP,
		UserAgent: req.UserAgent,
	})
	if !submission.IsValid() {
		outcome := OutcomeValidationError
		if _, hasCSRF := submission.Errors["csrf"]; hasCSRF {
			outcome = OutcomeCSRF
		}
		return o.fail(ctx, req, SubmissionOutcome{
			Page:       o.pages.BuildPage(req.UserAgent, "", submission.Errors, submission.FormData),
			StatusCode: submission.StatusCode,
			Outcome:    outcome,
		})
	}
	if submission.Contact == nil {
		// Guard against a validator bug: a success verdict with no payload
		// must never reach the dispatcher.
		logger.Log.Error("Submission reported valid without a contact payload",
			"request_id", req.RequestID)
		return o.fail(ctx, req, SubmissionOutcome{
			Page: o.pages.BuildPage(req.UserAgent, "",
				map[string]string{"form": "Unexpected contact submission state."},
				submission.FormData),
			StatusCode: http.StatusInternalServerError,
			Outcome:    OutcomeUnexpectedState,
		})
	}

	dispatch := o.dispatcher.NotifySubmission(ctx, submission.Contact, domain.NotificationContext{
		RequestID: req.RequestID,
		ClientIP:  req.ClientIP,
	})

	if dispatch.HasChannels() && dispatch.AllFailed() && !dispatch.AllSkipped() {
		logger.Log.Error("All contact notification channels failed",
			"request_id", req.RequestID)
		return o.fail(ctx, req, SubmissionOutcome{
			Page: o.pages.BuildPage(req.UserAgent, "",
				map[string]string{"form": deliveryFailedMessage},
				submission.FormData),
			StatusCode: http.StatusServiceUnavailable,
			Outcome:    OutcomeNotificationFailed,
		})
	}

	outcome := OutcomeSuccess
	switch {
	case !dispatch.HasChannels() || dispatch.AllSkipped():
		// The submission is accepted even with nowhere to deliver it; the
		// visitor is told it was sent, operators see the outcome tag.
		outcome = OutcomeAcceptedNoChannel
	case dispatch.AnySuccess() && anyFailure(dispatch):
		outcome = OutcomeSuccessPartial
	}

	o.persist(ctx, req, submission.Contact, outcome)

	logger.Log.Info("Contact form submitted successfully",
		"request_id", req.RequestID, "outcome", outcome)
	o.metrics.RecordContactSubmission(ctx, outcome)
	o.emitEvent(ctx, req, domain.EventContactSuccess, nil)

	return SubmissionOutcome{
		Page:       o.pages.BuildPage(req.UserAgent, successMessage, nil, nil),
		StatusCode: http.StatusOK,
		Outcome:    outcome,
	}
}

// fail records the metric and failure event for a terminal failure branch.
func (o *contactOrchestrator) fail(ctx context.Context, req SubmissionRequest, out SubmissionOutcome) SubmissionOutcome {
	o.metrics.RecordContactSubmission(ctx, out.Outcome)
	o.emitEvent(ctx, req, domain.EventContactFailure, map[string]interface{}{
		"reason": out.Outcome,
	})
	return out
}

func (o *contactOrchestrator) emitEvent(ctx context.Context, req SubmissionRequest, name domain.AnalyticsEventName, metadata map[string]interface{}) {
	o.analytics.IngestEvents(ctx, []domain.AnalyticsEvent{{
		EventName: name,
		PagePath:  "/contact",
		Metadata:  metadata,
	}}, req.RequestID, req.ClientIP, req.UserAgent)
}

// persist stores the accepted submission for the admin panel. Best
// effort: a storage failure never turns a delivered message into an
// error for the visitor.
func (o *contactOrchestrator) persist(ctx context.Context, req SubmissionRequest, contact *domain.ContactForm, outcome string) {
	if o.repo == nil {
		return
	}
	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   contact.Subject,
		Message:   contact.Message,
		ClientIP:  req.ClientIP,
		RequestID: req.RequestID,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.repo.Save(ctx, msg); err != nil {
		logger.Log.Error("Failed to persist contact message",
			"request_id", req.RequestID, "error", err)
	}
}

func anyFailure(d domain.DispatchResult) bool {
	for _, r := range d.Results {
		if !r.Success {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
