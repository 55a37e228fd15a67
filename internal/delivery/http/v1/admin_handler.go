package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/delivery/http/response"
	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type AdminHandler struct {
	repo domain.ContactMessageRepository
}

// NewAdminHandler registers the admin message routes behind the auth
// middleware. Routes 404 gracefully when persistence is disabled.
func NewAdminHandler(protected *gin.RouterGroup, repo domain.ContactMessageRepository) {
	handler := &AdminHandler{repo: repo}

	protected.GET("/admin/messages", handler.ListMessages)
	protected.GET("/admin/messages/export", handler.ExportMessages)
}

// ListMessages returns stored contact messages, newest first.
func (h *AdminHandler) ListMessages(c *gin.Context) {
	if h.repo == nil {
		c.Error(apperror.NotFound("Message storage is not configured."))
		return
	}

	opts := domain.ContactListOptions{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	messages, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Messages retrieved", gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// ExportMessages streams the stored messages as an xlsx workbook.
func (h *AdminHandler) ExportMessages(c *gin.Context) {
	if h.repo == nil {
		c.Error(apperror.NotFound("Message storage is not configured."))
		return
	}

	messages, err := h.repo.List(c.Request.Context(), domain.ContactListOptions{
		Limit: parseIntQuery(c, "limit", 200),
	})
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Messages"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Email", "Subject", "Message", "Client IP", "Request ID", "Outcome", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", lastHeader, style)
	}

	for row, msg := range messages {
		values := []interface{}{
			msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
			msg.ClientIP, msg.RequestID, msg.Outcome,
			msg.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	filename := fmt.Sprintf("contact-messages-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
