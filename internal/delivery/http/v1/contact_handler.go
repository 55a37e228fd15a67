package v1

import (
	"html/template"

	"github.com/adamcc31/portfolio-backend/internal/usecase"
	"github.com/adamcc31/portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// contactPageHTML is the server-rendered contact form. The CSRF token
// rides in a hidden field and is re-minted on every render.
const contactPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Contact</title>
</head>
<body>
  <main class="contact">
    <h1>Get in touch</h1>
    {{if .Success}}<p class="flash flash-success" role="status">{{.Success}}</p>{{end}}
    {{with .Errors.form}}<p class="flash flash-error" role="alert">{{.}}</p>{{end}}
    <form method="post" action="/contact" novalidate>
      <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
      <div class="field">
        <label for="name">Name</label>
        <input type="text" id="name" name="name" value="{{.FormData.name}}" required>
        {{with .Errors.name}}<p class="field-error">{{.}}</p>{{end}}
      </div>
      <div class="field">
        <label for="email">Email</label>
        <input type="email" id="email" name="email" value="{{.FormData.email}}" required>
        {{with .Errors.email}}<p class="field-error">{{.}}</p>{{end}}
      </div>
      <div class="field">
        <label for="subject">Subject</label>
        <input type="text" id="subject" name="subject" value="{{.FormData.subject}}" required>
        {{with .Errors.subject}}<p class="field-error">{{.}}</p>{{end}}
      </div>
      <div class="field">
        <label for="message">Message</label>
        <textarea id="message" name="message" rows="8" required>{{.FormData.message}}</textarea>
        {{with .Errors.message}}<p class="field-error">{{.}}</p>{{end}}
      </div>
      {{with .Errors.csrf}}<p class="field-error">{{.}}</p>{{end}}
      <button type="submit">Send message</button>
    </form>
  </main>
</body>
</html>`

// ContactTemplate parses the contact page for gin's HTML renderer.
func ContactTemplate() *template.Template {
	return template.Must(template.New("contact").Parse(contactPageHTML))
}

type ContactHandler struct {
	orchestrator usecase.ContactOrchestrator
	secretKey    string
}

// NewContactHandler registers the contact routes (public, no auth
// required). The POST route carries the rate limiter so page loads are
// never throttled.
func NewContactHandler(public *gin.RouterGroup, orchestrator usecase.ContactOrchestrator, secretKey string, rateLimit gin.HandlerFunc) {
	handler := &ContactHandler{
		orchestrator: orchestrator,
		secretKey:    secretKey,
	}

	public.GET("/contact", handler.ShowContactForm)
	public.POST("/contact", rateLimit, handler.SubmitContact)
}

// ShowContactForm renders the empty form with a fresh CSRF token.
func (h *ContactHandler) ShowContactForm(c *gin.Context) {
	page := h.orchestrator.BuildPage(c.GetHeader("User-Agent"))
	c.HTML(200, "contact", page)
}

// SubmitContact runs the full submission pipeline and re-renders the
// page with whatever outcome it produced. The raw client IP never
// crosses into the pipeline; only its anonymized digest does.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	req := usecase.SubmissionRequest{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Subject:     c.PostForm("subject"),
		Message:     c.PostForm("message"),
		CSRFToken:   c.PostForm("csrf_token"),
		ContentType: c.ContentType(),
		ClientIP:    security.AnonymizeIdentifier(h.secretKey, "ip", c.ClientIP()),
		UserAgent:   c.GetHeader("User-Agent"),
		RequestID:   c.GetString("RequestID"),
	}

	outcome := h.orchestrator.HandleSubmission(c.Request.Context(), req)
	h.auditFailure(c, req, outcome.Outcome)
	c.HTML(outcome.StatusCode, "contact", outcome.Page)
}

// auditFailure records rejected submissions in the security audit log,
// using the anonymized IP digest already carried on the request.
func (h *ContactHandler) auditFailure(c *gin.Context, req usecase.SubmissionRequest, outcome string) {
	auditLogger := security.DefaultLogger()
	if auditLogger == nil {
		return
	}
	switch outcome {
	case usecase.OutcomeCSRF:
		auditLogger.LogCSRFFailed(c.Request.Context(), req.ClientIP, req.UserAgent, req.RequestID, c.FullPath())
	case usecase.OutcomeValidationError:
		auditLogger.Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventValidationFailed,
			IP:        req.ClientIP,
			UserAgent: req.UserAgent,
			RequestID: req.RequestID,
			Path:      c.FullPath(),
		})
	}
}
