package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// activityHandler handles HTTP requests for the audit trail view.
type activityHandler struct {
	auditService portssvc.AuditSvc
}

func newActivityHandler(as portssvc.AuditSvc) *activityHandler {
	return &activityHandler{
		auditService: as,
	}
}

// listActivity godoc
// @Summary List recent audit entries
// @Description Retrieves audit-trail entries newest-first with limit/offset paging.
// @Tags activity
// @Produce json
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Entries to skip"
// @Success 200 {array} dto.ActivityEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/activity [get]
func (h *activityHandler) listActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	entries, err := h.auditService.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list activity entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve activity log"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListActivityEntryResponse(entries))
}
