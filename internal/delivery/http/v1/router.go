package v1

import (
	"net/http"

	"github.com/adamcc31/portfolio-backend/config"
	"github.com/adamcc31/portfolio-backend/internal/delivery/http/middleware"
	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Orchestrator usecase.ContactOrchestrator
	AnalyticsUC  domain.AnalyticsUsecase
	ContactRepo  domain.ContactMessageRepository // nil when persistence is disabled
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	isProduction := cfg.Environment == "production"

	r := gin.New()
	r.SetHTMLTemplate(ContactTemplate())

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, isProduction)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID(cfg.RequestIDHeader))
	r.Use(middleware.ErrorHandler())

	// Contact form lives at the site root, not under the API prefix.
	contactRateLimit := middleware.RateLimitMiddleware(
		middleware.ContactRateLimitConfig(cfg.ContactRateLimitPerMinute))
	NewContactHandler(r.Group(""), deps.Orchestrator, cfg.SecretKey, contactRateLimit)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	NewAnalyticsHandler(v1, deps.AnalyticsUC, cfg.SecretKey)
	loginRateLimit := middleware.RateLimitMiddleware(middleware.AdminLoginRateLimitConfig())
	NewAuthHandler(v1, cfg, loginRateLimit)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AdminAuthMiddleware(cfg.SecretKey))
	{
		NewAdminHandler(protected, deps.ContactRepo)
	}

	return r
}
