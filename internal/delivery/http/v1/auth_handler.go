package v1

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/adamcc31/portfolio-backend/config"
	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/pkg/apperror"
	"github.com/adamcc31/portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg *config.Config
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// NewAuthHandler registers the admin login route. Login is rate limited
// independently of the contact form.
func NewAuthHandler(public *gin.RouterGroup, cfg *config.Config, rateLimit gin.HandlerFunc) {
	handler := &AuthHandler{cfg: cfg}

	public.POST("/admin/login", rateLimit, handler.Login)
}

// Login exchanges the configured admin credentials for a short-lived
// HS256 token. The bcrypt comparison always runs, even on an email
// mismatch, to keep response timing uniform.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Email and password are required."))
		return
	}

	if h.cfg.AdminEmail == "" || h.cfg.AdminPasswordHash == "" {
		c.Error(apperror.ServiceUnavailable("Admin login is not configured.", nil))
		return
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.cfg.AdminEmail)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password))
	if !emailMatch || passErr != nil {
		h.auditLogin(c, security.EventLoginFailed)
		c.Error(apperror.Unauthorized("Invalid email or password."))
		return
	}

	expiry := time.Duration(h.cfg.AdminTokenExpiryMinutes) * time.Minute
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  h.cfg.AdminEmail,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(h.cfg.SecretKey))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	h.auditLogin(c, security.EventLoginSuccess)
	response.Success(c, http.StatusOK, "Login successful", loginResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int(expiry.Seconds()),
	})
}

func (h *AuthHandler) auditLogin(c *gin.Context, event security.EventType) {
	if auditLogger := security.DefaultLogger(); auditLogger != nil {
		auditLogger.Log(c.Request.Context(), security.SecurityEvent{
			Event:     event,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			RequestID: c.GetString("RequestID"),
			Path:      c.FullPath(),
		})
	}
}
