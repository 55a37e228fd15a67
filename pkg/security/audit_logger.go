package security

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventCSRFFailed         EventType = "csrf_validation_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventValidationFailed   EventType = "validation_failed"
	EventLoginFailed        EventType = "admin_login_failed"
	EventLoginSuccess       EventType = "admin_login_success"
	EventUnauthorizedAccess EventType = "unauthorized_access"
)

// SecurityEvent represents a security-related event to be logged.
// Subject values must already be anonymized before they reach here.
type SecurityEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Event       EventType              `json:"event"`
	IP          string                 `json:"ip,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	Path        string                 `json:"path,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// AuditLogger provides structured logging for security events
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *AuditLogger

// InitAuditLogger initializes the process-wide audit logger with Zap.
func InitAuditLogger(serviceName, environment string) *AuditLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build(zap.WithCaller(false))
	if err != nil {
		// Fall back to a no-op logger rather than refusing to start.
		zapLogger = zap.NewNop()
	}

	defaultLogger = &AuditLogger{
		zapLogger:   zapLogger,
		serviceName: serviceName,
		environment: environment,
	}
	return defaultLogger
}

// DefaultLogger returns the audit logger, or nil if not initialized.
func DefaultLogger() *AuditLogger {
	return defaultLogger
}

// Log writes a security event at warn level.
func (l *AuditLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	l.zapLogger.Warn("security_event",
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("ip", event.IP),
		zap.String("user_agent", event.UserAgent),
		zap.String("request_id", event.RequestID),
		zap.String("path", event.Path),
		zap.Any("details", event.Details),
	)
}

// LogCSRFFailed records a rejected CSRF token on a contact submission.
func (l *AuditLogger) LogCSRFFailed(ctx context.Context, ip, userAgent, requestID, path string) {
	l.Log(ctx, SecurityEvent{
		Event:     EventCSRFFailed,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Path:      path,
	})
}

// LogRateLimitTriggered records a request rejected by the rate limiter.
func (l *AuditLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, path string) {
	l.Log(ctx, SecurityEvent{
		Event:     EventRateLimitTriggered,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Path:      path,
	})
}

// Sync flushes any buffered log entries. Call on shutdown.
func (l *AuditLogger) Sync() {
	_ = l.zapLogger.Sync()
}
