package middleware

import (
	"net/http"
	"strings"

	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthMiddleware validates the Bearer token on admin routes. Only
// HS256 tokens signed with the server secret and carrying the admin
// role are accepted.
func AdminAuthMiddleware(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Authorization header must be a Bearer token.")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secretKey), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid or expired token.")
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			unauthorized(c, "Insufficient permissions.")
			return
		}

		if email, _ := claims["sub"].(string); email != "" {
			c.Set("AdminEmail", email)
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	if auditLogger := security.DefaultLogger(); auditLogger != nil {
		auditLogger.Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventUnauthorizedAccess,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			RequestID: c.GetString("RequestID"),
			Path:      c.FullPath(),
			Details:   map[string]interface{}{"reason": message},
		})
	}
	response.Error(c, http.StatusUnauthorized, message, nil)
	c.Abort()
}
