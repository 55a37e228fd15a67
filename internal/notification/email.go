package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
)

// EmailConfig holds SMTP delivery settings for the email channel.
type EmailConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	UseTLS          bool // STARTTLS upgrade after plain connect
	UseSSL          bool // implicit TLS from the first byte
	Timeout         time.Duration
	To              string
	SubjectPrefix   string
	RequestIDHeader string
}

// EmailChannel forwards a submission to the configured recipient via SMTP.
type EmailChannel struct {
	cfg EmailConfig
}

func NewEmailChannel(cfg EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

func (e *EmailChannel) Name() string {
	return "email"
}

func (e *EmailChannel) isConfigured() bool {
	complete := strings.TrimSpace(e.cfg.To) != "" &&
		strings.TrimSpace(e.cfg.Host) != "" &&
		strings.TrimSpace(e.cfg.From) != ""
	if !complete && (e.cfg.To != "" || e.cfg.Host != "" || e.cfg.From != "") {
		logger.Log.Info("Email notification settings are incomplete; skipping email notification")
	}
	return complete
}

func (e *EmailChannel) buildSubject(contact *domain.ContactForm) string {
	prefix := strings.TrimSpace(e.cfg.SubjectPrefix)
	if prefix == "" {
		prefix = "Portfolio contact"
	}
	return prefix + " | " + contact.Subject
}

func buildEmailBody(contact *domain.ContactForm, nctx domain.NotificationContext) string {
	return fmt.Sprintf(
		"New portfolio message\n\nName: %s\nEmail: %s\nSubject: %s\nClient IP: %s\n\nMessage:\n%s\n",
		contact.Name, contact.Email, contact.Subject, nctx.ClientIP, contact.Message,
	)
}

func (e *EmailChannel) buildMessage(contact *domain.ContactForm, nctx domain.NotificationContext) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.buildSubject(contact))
	fmt.Fprintf(&b, "Reply-To: %s\r\n", contact.Email)
	fmt.Fprintf(&b, "%s: %s\r\n", e.cfg.RequestIDHeader, nctx.RequestID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(buildEmailBody(contact, nctx))
	return []byte(b.String())
}

func (e *EmailChannel) Send(ctx context.Context, contact *domain.ContactForm, nctx domain.NotificationContext) domain.ChannelResult {
	if !e.isConfigured() {
		return domain.ChannelResult{
			Channel: e.Name(),
			Skipped: true,
			Error:   "Email channel is not configured.",
		}
	}

	if err := e.deliver(contact, nctx); err != nil {
		logger.Log.Error("Email notification failed",
			"request_id", nctx.RequestID, "error", err)
		return domain.ChannelResult{
			Channel: e.Name(),
			Error:   "Email notification failed.",
		}
	}

	logger.Log.Info("Email notification sent", "request_id", nctx.RequestID)
	return domain.ChannelResult{Channel: e.Name(), Success: true}
}

// deliver performs the blocking SMTP exchange. The dispatcher runs it in
// its own goroutine so a slow mail server never delays other channels.
func (e *EmailChannel) deliver(contact *domain.ContactForm, nctx domain.NotificationContext) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, e.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	// Bound the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(e.cfg.Timeout))

	if e.cfg.UseSSL {
		conn = tls.Client(conn, &tls.Config{ServerName: e.cfg.Host, MinVersion: tls.VersionTLS12})
	}

	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if !e.cfg.UseSSL && e.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: e.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if e.cfg.Username != "" {
		auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(e.cfg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write(e.buildMessage(contact, nctx)); err != nil {
		wc.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}
