package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kursboard/kursboard/internal/apperrors"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adviceHandler handles HTTP requests for advice posts.
type adviceHandler struct {
	adviceService portssvc.AdviceSvcFacade
}

func newAdviceHandler(as portssvc.AdviceSvcFacade) *adviceHandler {
	return &adviceHandler{
		adviceService: as,
	}
}

// listPublishedAdvice godoc
// @Summary List published advice posts
// @Description Retrieves the published posts shown on the public rates page, newest first.
// @Tags advice
// @Produce json
// @Success 200 {array} dto.AdviceResponse
// @Failure 500 {object} ErrorResponse
// @Router /advice [get]
func (h *adviceHandler) listPublishedAdvice(c *gin.Context) {
	h.listAdvice(c, true)
}

// listAllAdvice godoc
// @Summary List all advice posts
// @Description Retrieves every post including drafts for the dashboard editor.
// @Tags advice
// @Produce json
// @Success 200 {array} dto.AdviceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/advice [get]
func (h *adviceHandler) listAllAdvice(c *gin.Context) {
	h.listAdvice(c, false)
}

func (h *adviceHandler) listAdvice(c *gin.Context, onlyPublished bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	posts, err := h.adviceService.ListAdvice(c.Request.Context(), onlyPublished)
	if err != nil {
		logger.Error("Failed to list advice posts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve advice posts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAdviceResponse(posts))
}

// createAdvice godoc
// @Summary Create an advice post
// @Description Creates a new draft post. Publishing is a separate update.
// @Tags advice
// @Accept json
// @Produce json
// @Param advice body dto.CreateAdviceRequest true "Post contents"
// @Success 201 {object} dto.AdviceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/advice [post]
func (h *adviceHandler) createAdvice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAdvice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	post, err := h.adviceService.CreateAdvice(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Error("Failed to create advice post", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create advice post"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAdviceResponse(post))
}

// updateAdvice godoc
// @Summary Update an advice post
// @Description Applies a partial update (title, body, published flag) to one post.
// @Tags advice
// @Accept json
// @Produce json
// @Param postID path string true "Post ID"
// @Param advice body dto.UpdateAdviceRequest true "Fields to change"
// @Success 200 {object} dto.AdviceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/advice/{postID} [patch]
func (h *adviceHandler) updateAdvice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	postID := c.Param("postID")

	var req dto.UpdateAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAdvice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	post, err := h.adviceService.UpdateAdvice(c.Request.Context(), postID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Advice post not found"})
		} else {
			logger.Error("Failed to update advice post", slog.String("post_id", postID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update advice post"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAdviceResponse(post))
}
