package domain

import (
	"context"
	"strings"
	"time"
)

// ContactForm is a validated contact submission. An instance only exists
// once every field constraint has passed; it is never partially valid.
type ContactForm struct {
	Name      string `validate:"required,min=2,max=100"`
	Email     string `validate:"required,email"`
	Subject   string `validate:"required,min=3,max=200"`
	Message   string `validate:"required,min=10,max=5000"`
	CSRFToken string `validate:"required"`
}

// SubmissionInput carries the raw, untrusted form fields plus request
// metadata into the submission validator.
type SubmissionInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	CSRFToken string
	ClientIP  string
	UserAgent string
}

// SubmissionResult is the validator's verdict. FormData always echoes the
// normalized input so the form can be re-rendered on failure.
type SubmissionResult struct {
	Contact    *ContactForm
	FormData   map[string]string
	Errors     map[string]string
	StatusCode int
}

func (r SubmissionResult) IsValid() bool {
	return r.Contact != nil && len(r.Errors) == 0
}

// ContactSubmissionUsecase validates a contact form submission. All
// failures are represented as data; Process never returns an error.
type ContactSubmissionUsecase interface {
	Process(ctx context.Context, in SubmissionInput) SubmissionResult
}

// NotificationContext carries request metadata into notification channels.
// ClientIP is the anonymized digest, never the raw address.
type NotificationContext struct {
	RequestID string
	ClientIP  string
}

// ChannelResult reports one channel's delivery attempt. Skipped marks a
// channel that never ran because it is not configured, as opposed to one
// that ran and failed.
type ChannelResult struct {
	Channel string
	Success bool
	Skipped bool
	Error   string
}

// DispatchResult aggregates per-channel outcomes for one submission.
// All predicates are derived views, recomputed on every call.
type DispatchResult struct {
	Results []ChannelResult
}

func (d DispatchResult) HasChannels() bool {
	return len(d.Results) > 0
}

func (d DispatchResult) AnySuccess() bool {
	for _, r := range d.Results {
		if r.Success {
			return true
		}
	}
	return false
}

func (d DispatchResult) AllFailed() bool {
	return d.HasChannels() && !d.AnySuccess()
}

// AllSkipped reports whether every channel was unconfigured. The error
// text fallback keeps externally built results classifiable.
func (d DispatchResult) AllSkipped() bool {
	if !d.HasChannels() {
		return false
	}
	for _, r := range d.Results {
		if r.Success {
			return false
		}
		if !r.Skipped && !strings.Contains(strings.ToLower(r.Error), "not configured") {
			return false
		}
	}
	return true
}

// NotificationChannel is one delivery strategy (webhook, email). Send
// never returns an error or panics outward; every failure mode is a
// ChannelResult.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, contact *ContactForm, nctx NotificationContext) ChannelResult
}

// NotificationDispatcher fans a submission out to all channels.
type NotificationDispatcher interface {
	NotifySubmission(ctx context.Context, contact *ContactForm, nctx NotificationContext) DispatchResult
}

// ContactMessage is an accepted submission as persisted for the admin panel.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	ClientIP  string    `json:"client_ip"`
	RequestID string    `json:"request_id"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactListOptions controls admin listing of stored messages.
type ContactListOptions struct {
	Limit  int
	Offset int
}

// ContactMessageRepository persists accepted submissions.
type ContactMessageRepository interface {
	Save(ctx context.Context, msg *ContactMessage) error
	List(ctx context.Context, opts ContactListOptions) ([]ContactMessage, error)
}
