package v1

import (
	"net/http"

	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/apperror"
	"github.com/adamcc31/portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsUC domain.AnalyticsUsecase
	secretKey   string
}

type analyticsIngestRequest struct {
	Events []domain.AnalyticsEvent `json:"events" binding:"required,min=1,max=50,dive"`
}

// NewAnalyticsHandler registers the analytics ingest route (public).
func NewAnalyticsHandler(public *gin.RouterGroup, analyticsUC domain.AnalyticsUsecase, secretKey string) {
	handler := &AnalyticsHandler{
		analyticsUC: analyticsUC,
		secretKey:   secretKey,
	}

	public.POST("/analytics/events", handler.IngestEvents)
}

// IngestEvents accepts a batch of outcome events from the frontend.
// Partial rejection is still a 200; the result body says what stuck.
func (h *AnalyticsHandler) IngestEvents(c *gin.Context) {
	var req analyticsIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Request body must contain 1 to 50 valid events."))
		return
	}

	result := h.analyticsUC.IngestEvents(
		c.Request.Context(),
		req.Events,
		c.GetString("RequestID"),
		security.AnonymizeIdentifier(h.secretKey, "ip", c.ClientIP()),
		c.GetHeader("User-Agent"),
	)

	response.Success(c, http.StatusOK, "Events processed", result)
}
