package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamcc31/portfolio-backend/config"
	v1 "github.com/adamcc31/portfolio-backend/internal/delivery/http/v1"
	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/internal/notification"
	"github.com/adamcc31/portfolio-backend/internal/repository/postgres"
	"github.com/adamcc31/portfolio-backend/internal/usecase"
	"github.com/adamcc31/portfolio-backend/pkg/csrf"
	"github.com/adamcc31/portfolio-backend/pkg/database"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
	"github.com/adamcc31/portfolio-backend/pkg/metrics"
	"github.com/adamcc31/portfolio-backend/pkg/redis"
	"github.com/adamcc31/portfolio-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "env", cfg.Environment)
	auditLogger := security.InitAuditLogger("portfolio-backend", cfg.Environment)
	defer auditLogger.Sync()

	// 3. Setup Metrics
	var recorder metrics.Recorder = metrics.Nop{}
	shutdownMetrics, err := metrics.Setup("portfolio-backend", cfg.Environment)
	if err != nil {
		logger.Log.Warn("Metrics exporter unavailable, continuing without metrics", "error", err)
		shutdownMetrics = func(context.Context) error { return nil }
	} else {
		appMetrics, err := metrics.New()
		if err != nil {
			logger.Log.Warn("Metrics instruments unavailable, continuing without metrics", "error", err)
		} else {
			recorder = appMetrics
		}
	}

	// 4. Setup Database (optional: admin panel persistence)
	var contactRepo domain.ContactMessageRepository
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		contactRepo = postgres.NewContactMessageRepository(dbPool)
	}

	// 5. Setup Redis (optional: distributed rate limiting)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	} else {
		defer redis.Close()
	}

	// 6. Setup Notification Channels
	webhookChannel := notification.NewWebhookChannel(
		cfg.ContactWebhookURL,
		cfg.RequestIDHeader,
		time.Duration(cfg.WebhookTimeoutSeconds)*time.Second,
	)
	emailChannel := notification.NewEmailChannel(notification.EmailConfig{
		Host:            cfg.SMTPHost,
		Port:            cfg.SMTPPort,
		Username:        cfg.SMTPUsername,
		Password:        cfg.SMTPPassword,
		From:            cfg.SMTPFromEmail,
		UseTLS:          cfg.SMTPUseTLS,
		UseSSL:          cfg.SMTPUseSSL,
		Timeout:         time.Duration(cfg.SMTPTimeoutSeconds) * time.Second,
		To:              cfg.ContactEmailTo,
		SubjectPrefix:   cfg.ContactSubjectPrefix,
		RequestIDHeader: cfg.RequestIDHeader,
	})
	dispatcher := notification.NewDispatcher(recorder, webhookChannel, emailChannel)

	// 7. Setup UseCases
	codec := csrf.NewCodec(cfg.SecretKey, time.Duration(cfg.CSRFTokenExpirySeconds)*time.Second)
	validate := validator.New()
	pages := usecase.NewContactPageService(codec)
	submissions := usecase.NewContactSubmissionUsecase(codec, validate)
	analyticsUC := usecase.NewAnalyticsUsecase(cfg.AnalyticsEnabled, cfg.AnalyticsLogEvents, recorder)
	orchestrator := usecase.NewContactOrchestrator(pages, submissions, dispatcher, analyticsUC, contactRepo, recorder)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Orchestrator: orchestrator,
		AnalyticsUC:  analyticsUC,
		ContactRepo:  contactRepo,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := shutdownMetrics(ctx); err != nil {
		logger.Log.Error("Metrics exporter shutdown failed", "error", err)
	}

	logger.Log.Info("Server exiting")
}
