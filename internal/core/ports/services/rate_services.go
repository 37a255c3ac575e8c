package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/kursboard/kursboard/internal/dto"
)

// RateReaderSvc defines the read-only rate projections.
type RateReaderSvc interface {
	// VisibleRates is the public canonical map: active && visible records
	// that have received at least one accepted quote.
	VisibleRates(ctx context.Context) (map[string]dto.RateView, error)

	// AllRates is the admin canonical map: every active record regardless
	// of visibility, with the isVisible flag exposed.
	AllRates(ctx context.Context) (map[string]dto.RateView, error)

	// RateHistory returns the capped update journal for one code.
	RateHistory(ctx context.Context, code string) ([]domain.RateSnapshot, error)
}

// RateWriterSvc defines the mutating rate operations.
type RateWriterSvc interface {
	// UpdateRates validates, persists, audits and broadcasts one batch.
	// On any violation the whole batch is rejected with a
	// *apperrors.ValidationError and no state changes.
	UpdateRates(ctx context.Context, batch dto.BatchUpdateRequest, actorID string) (map[string]dto.RateView, error)

	// CreateCurrency registers a new allow-listed currency record.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actorID string) (*domain.CurrencyRate, error)

	// SetVisibility toggles the public-visibility flag for one code.
	SetVisibility(ctx context.Context, code string, visible bool, actorID string) error

	// SetActive toggles the soft-delete flag for one code.
	SetActive(ctx context.Context, code string, active bool, actorID string) error
}

// RateSvcFacade combines all rate-related service interfaces.
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}
