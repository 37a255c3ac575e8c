package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kursboard/kursboard/internal/apperrors"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to currency rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{
		rateService: rs,
	}
}

// listVisibleRates godoc
// @Summary List public exchange rates
// @Description Retrieves the canonical map of publicly visible rates, keyed by currency code.
// @Tags rates
// @Produce json
// @Success 200 {object} map[string]dto.RateView
// @Failure 500 {object} ErrorResponse
// @Router /rates [get]
func (h *rateHandler) listVisibleRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	views, err := h.rateService.VisibleRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list visible rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve rates"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// listAllRates godoc
// @Summary List all rates for the dashboard
// @Description Retrieves every active rate including hidden ones, with the visibility flag exposed.
// @Tags rates
// @Produce json
// @Success 200 {object} map[string]dto.RateView
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates [get]
func (h *rateHandler) listAllRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	views, err := h.rateService.AllRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve rates"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// updateRates godoc
// @Summary Submit a batch rate update
// @Description Validates and persists a batch of buy/sell pairs. Any violation rejects the whole batch and returns the full itemized list.
// @Tags rates
// @Accept json
// @Produce json
// @Param batch body dto.BatchUpdateRequest true "Currency code to rate pair map"
// @Success 200 {object} map[string]dto.RateView
// @Failure 400 {object} map[string]interface{} "Itemized validation violations"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates [post]
func (h *rateHandler) updateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var batch dto.BatchUpdateRequest
	if err := c.ShouldBindJSON(&batch); err != nil {
		logger.Warn("Failed to bind batch update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	views, err := h.rateService.UpdateRates(c.Request.Context(), batch, actorID)
	if err != nil {
		var vErr *apperrors.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.Warn("Batch update rejected", slog.Int("violations", len(vErr.Violations)))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Batch rejected",
				"violations": vErr.Violations,
			})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Batch update rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrPersistence):
			logger.Error("Batch persist failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Rates could not be saved, no changes applied"})
		default:
			logger.Error("Failed to update rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update rates"})
		}
		return
	}

	logger.Info("Batch update applied", slog.Int("count", len(batch)))
	c.JSON(http.StatusOK, views)
}

// createCurrency godoc
// @Summary Register a new currency
// @Description Adds an allow-listed currency record. The record starts without a quote and joins the public map after its first accepted update.
// @Tags rates
// @Accept json
// @Produce json
// @Param currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.RateView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Currency code already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/currencies [post]
func (h *rateHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	created, err := h.rateService.CreateCurrency(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate currency", slog.String("code", req.Code))
			c.JSON(http.StatusConflict, ErrorResponse{Error: fmt.Sprintf("Currency code '%s' already exists", req.Code)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create currency"})
		}
		return
	}

	logger.Info("Currency created", slog.String("code", created.Code))
	c.JSON(http.StatusCreated, dto.ToRateView(created, true))
}

// getRateHistory godoc
// @Summary Get a rate's update journal
// @Description Retrieves the capped, newest-last list of accepted updates for one currency code.
// @Tags rates
// @Produce json
// @Param code path string true "Currency Code (3 letters)"
// @Success 200 {array} dto.RateSnapshotResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates/{code}/history [get]
func (h *rateHandler) getRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	history, err := h.rateService.RateHistory(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Currency not found"})
		} else {
			logger.Error("Failed to get rate history", slog.String("code", code), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateSnapshotResponses(history))
}

// setVisibility godoc
// @Summary Toggle a rate's public visibility
// @Description Hides or shows one currency on the public page without touching its rates.
// @Tags rates
// @Accept json
// @Produce json
// @Param code path string true "Currency Code (3 letters)"
// @Param toggle body dto.ToggleRequest true "Desired visibility"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates/{code}/visibility [patch]
func (h *rateHandler) setVisibility(c *gin.Context) {
	h.toggleFlag(c, h.rateService.SetVisibility)
}

// setActive godoc
// @Summary Toggle a rate's active state
// @Description Soft-deletes or restores one currency record. Inactive records leave both canonical maps.
// @Tags rates
// @Accept json
// @Produce json
// @Param code path string true "Currency Code (3 letters)"
// @Param toggle body dto.ToggleRequest true "Desired active state"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates/{code}/active [patch]
func (h *rateHandler) setActive(c *gin.Context) {
	h.toggleFlag(c, h.rateService.SetActive)
}

// toggleFlag shares the bind/authorize/dispatch shape of the two PATCH
// endpoints; only the service method differs.
func (h *rateHandler) toggleFlag(c *gin.Context, apply func(ctx context.Context, code string, enabled bool, actorID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind toggle request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := apply(c.Request.Context(), code, *req.Enabled, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Currency not found"})
		} else {
			logger.Error("Failed to toggle rate flag", slog.String("code", code), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update currency"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code, "status": "updated"})
}
