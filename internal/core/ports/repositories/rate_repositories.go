package repositories

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateChange is one proposed, already-validated buy/sell pair for a code.
type RateChange struct {
	BuyRate  decimal.Decimal
	SellRate decimal.Decimal
}

// CurrencyRateReader defines read operations for currency rate data.
type CurrencyRateReader interface {
	// FindByCode retrieves a single rate record, active or not.
	FindByCode(ctx context.Context, code string) (*domain.CurrencyRate, error)

	// ListActive retrieves all active rate records ordered by code,
	// including records hidden from the public view.
	ListActive(ctx context.Context) ([]domain.CurrencyRate, error)
}

// CurrencyRateWriter defines write operations for currency rate data.
type CurrencyRateWriter interface {
	// SaveNew persists a freshly created rate record. Returns
	// apperrors.ErrDuplicate if the code already exists.
	SaveNew(ctx context.Context, rate domain.CurrencyRate) error

	// UpsertRates applies a batch of rate changes in one transaction.
	// Rows are locked per record so concurrent batches touching the same
	// code cannot interleave. The spread invariant is re-checked inside
	// the transaction; a record failing the re-check aborts the batch.
	// Each applied change appends a journal snapshot trimmed to historyCap.
	UpsertRates(ctx context.Context, changes map[string]RateChange, actorID string, historyCap int) ([]domain.CurrencyRate, error)

	// SetActive flips the soft-delete flag. ErrNotFound for unknown codes.
	SetActive(ctx context.Context, code string, active bool, actorID string) (*domain.CurrencyRate, error)

	// SetVisible flips the public-visibility flag. ErrNotFound for unknown codes.
	SetVisible(ctx context.Context, code string, visible bool, actorID string) (*domain.CurrencyRate, error)
}

// CurrencyRateRepositoryFacade combines all rate repository interfaces.
type CurrencyRateRepositoryFacade interface {
	CurrencyRateReader
	CurrencyRateWriter
}
