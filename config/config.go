package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	DBUrl       string
	FrontendURL string
	// Security
	SecretKey              string
	CSRFTokenExpirySeconds int
	RequestIDHeader        string
	// Contact form
	ContactRateLimitPerMinute int
	ContactWebhookURL         string
	WebhookTimeoutSeconds     int
	ContactEmailTo            string
	ContactSubjectPrefix      string
	// SMTP Configuration
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFromEmail      string
	SMTPUseTLS         bool
	SMTPUseSSL         bool
	SMTPTimeoutSeconds int
	// Redis Configuration (rate limiting)
	RedisURL      string
	RedisPassword string
	// Analytics
	AnalyticsEnabled   bool
	AnalyticsLogEvents bool
	// Admin panel
	AdminEmail              string
	AdminPasswordHash       string
	AdminTokenExpiryMinutes int
}

func LoadConfig() (*Config, error) {
	// .env is only present in local development; ignored in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// Security
		SecretKey:              getEnv("SECRET_KEY", ""),
		CSRFTokenExpirySeconds: getEnvInt("CSRF_TOKEN_EXPIRY_SECONDS", 3600),
		RequestIDHeader:        getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
		// Contact form
		ContactRateLimitPerMinute: getEnvInt("CONTACT_RATE_LIMIT_PER_MINUTE", 5),
		ContactWebhookURL:         getEnv("CONTACT_WEBHOOK_URL", ""),
		WebhookTimeoutSeconds:     getEnvInt("CONTACT_WEBHOOK_TIMEOUT_SECONDS", 10),
		ContactEmailTo:            getEnv("CONTACT_EMAIL_TO", ""),
		ContactSubjectPrefix:      getEnv("CONTACT_SUBJECT_PREFIX", ""),
		// SMTP Configuration
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:      getEnv("SMTP_FROM_EMAIL", ""),
		SMTPUseTLS:         getEnvBool("SMTP_USE_TLS", true),
		SMTPUseSSL:         getEnvBool("SMTP_USE_SSL", false),
		SMTPTimeoutSeconds: getEnvInt("SMTP_TIMEOUT_SECONDS", 10),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Analytics
		AnalyticsEnabled:   getEnvBool("ANALYTICS_ENABLED", true),
		AnalyticsLogEvents: getEnvBool("ANALYTICS_LOG_EVENTS", false),
		// Admin panel
		AdminEmail:              getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenExpiryMinutes: getEnvInt("ADMIN_TOKEN_EXPIRY_MINUTES", 60),
	}

	// A missing secret makes every CSRF token unverifiable across restarts.
	if cfg.SecretKey == "" {
		log.Println("WARNING: SECRET_KEY is missing. CSRF tokens will not survive a restart.")
	}
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL not configured. Contact messages will not be persisted.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
