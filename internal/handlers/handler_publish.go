package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kursboard/kursboard/internal/apperrors"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// publishHandler handles the social summary dispatch endpoint.
type publishHandler struct {
	publishService portssvc.PublishSvcFacade
}

func newPublishHandler(ps portssvc.PublishSvcFacade) *publishHandler {
	return &publishHandler{
		publishService: ps,
	}
}

// publishSummary godoc
// @Summary Publish the rate summary to social platforms
// @Description Formats the currently visible rates into a text summary and dispatches it to every configured platform. Per-platform outcomes are reported individually.
// @Tags publish
// @Produce json
// @Success 200 {object} dto.PublishResponse
// @Failure 400 {object} ErrorResponse "No visible rates to publish"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/publish [post]
func (h *publishHandler) publishSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.publishService.PublishSummary(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No visible rates to publish"})
			return
		}
		logger.Error("Failed to publish summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to publish summary"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
