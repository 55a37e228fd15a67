package middleware

import (
	"errors"
	"net/http"

	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/pkg/apperror"
	"github.com/adamcc31/portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler maps errors collected on the gin context to the JSON
// envelope. Internal details are logged server-side and never exposed.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		logger.Log.Error("Unhandled request error",
			"request_id", c.GetString("RequestID"), "error", err)
		response.Error(c, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.", nil)
	}
}
