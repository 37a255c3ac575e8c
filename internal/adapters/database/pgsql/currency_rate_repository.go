package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PgxCurrencyRateRepository implements the rate store on PostgreSQL. The
// update journal lives in a JSONB column so each record carries its own
// capped document.
type PgxCurrencyRateRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRateRepository creates a new repository for rate data.
func NewCurrencyRateRepository(pool *pgxpool.Pool) *PgxCurrencyRateRepository {
	return &PgxCurrencyRateRepository{pool: pool}
}

const rateColumns = `currency_code, display_name, buy_rate, sell_rate, is_active, is_visible, update_history, created_at, created_by, last_updated_at, last_updated_by`

func scanRate(row pgx.Row) (domain.CurrencyRate, error) {
	var rate domain.CurrencyRate
	var history []byte
	err := row.Scan(
		&rate.Code,
		&rate.DisplayName,
		&rate.BuyRate,
		&rate.SellRate,
		&rate.IsActive,
		&rate.IsVisible,
		&history,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		return rate, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rate.UpdateHistory); err != nil {
			return rate, fmt.Errorf("failed to decode update history for %s: %w", rate.Code, err)
		}
	}
	return rate, nil
}

// SaveNew inserts a freshly created rate record.
func (r *PgxCurrencyRateRepository) SaveNew(ctx context.Context, rate domain.CurrencyRate) error {
	history, err := json.Marshal(rate.UpdateHistory)
	if err != nil {
		return fmt.Errorf("failed to encode update history for %s: %w", rate.Code, err)
	}
	query := `
		INSERT INTO currency_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.pool.Exec(ctx, query,
		rate.Code,
		rate.DisplayName,
		rate.BuyRate,
		rate.SellRate,
		rate.IsActive,
		rate.IsVisible,
		history,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save currency rate %s: %w", rate.Code, err)
	}
	return nil
}

// FindByCode retrieves a single rate record, active or not.
func (r *PgxCurrencyRateRepository) FindByCode(ctx context.Context, code string) (*domain.CurrencyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE currency_code = $1;`
	rate, err := scanRate(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency rate %s: %w", code, err)
	}
	return &rate, nil
}

// ListActive retrieves all active rate records ordered by code.
func (r *PgxCurrencyRateRepository) ListActive(ctx context.Context) ([]domain.CurrencyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE is_active ORDER BY currency_code;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()

	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CurrencyRate, error) {
		return scanRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currency rates: %w", err)
	}
	return rates, nil
}

// UpsertRates applies a validated batch inside one transaction. Rows are
// locked with SELECT FOR UPDATE in code order, so two concurrent batches
// touching the same codes serialize instead of deadlocking, and one batch's
// buy rate can never pair with another's sell rate. The spread invariant is
// re-checked per record before writing; the check failing aborts the batch.
func (r *PgxCurrencyRateRepository) UpsertRates(ctx context.Context, changes map[string]portsrepo.RateChange, actorID string, historyCap int) ([]domain.CurrencyRate, error) {
	codes := make([]string, 0, len(changes))
	for code := range changes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rate update transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	updated := make([]domain.CurrencyRate, 0, len(codes))

	for _, code := range codes {
		change := changes[code]
		if !change.BuyRate.IsPositive() || change.SellRate.LessThanOrEqual(change.BuyRate) {
			return nil, fmt.Errorf("%w: rate invariant re-check failed for %s", apperrors.ErrValidation, code)
		}

		query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE currency_code = $1 FOR UPDATE;`
		rate, err := scanRate(tx.QueryRow(ctx, query, code))
		if errors.Is(err, pgx.ErrNoRows) {
			// Upsert semantics: a validated, allow-listed code without a
			// record yet gets one created in place.
			rate = domain.CurrencyRate{
				Code:        code,
				DisplayName: code,
				IsActive:    true,
				IsVisible:   true,
				AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: actorID},
			}
			if err := insertRate(ctx, tx, rate); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to lock currency rate %s: %w", code, err)
		}

		rate.RecordChange(domain.RateSnapshot{
			BuyRate:   change.BuyRate,
			SellRate:  change.SellRate,
			UpdatedAt: now,
			UpdatedBy: actorID,
		}, historyCap)

		history, err := json.Marshal(rate.UpdateHistory)
		if err != nil {
			return nil, fmt.Errorf("failed to encode update history for %s: %w", code, err)
		}
		updateQuery := `
			UPDATE currency_rates
			SET buy_rate = $2, sell_rate = $3, update_history = $4, last_updated_at = $5, last_updated_by = $6
			WHERE currency_code = $1;
		`
		if _, err := tx.Exec(ctx, updateQuery, code, rate.BuyRate, rate.SellRate, history, rate.LastUpdatedAt, rate.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to update currency rate %s: %w", code, err)
		}
		updated = append(updated, rate)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rate update transaction: %w", err)
	}
	return updated, nil
}

func insertRate(ctx context.Context, tx pgx.Tx, rate domain.CurrencyRate) error {
	history, err := json.Marshal(rate.UpdateHistory)
	if err != nil {
		return fmt.Errorf("failed to encode update history for %s: %w", rate.Code, err)
	}
	query := `
		INSERT INTO currency_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		rate.Code, rate.DisplayName, rate.BuyRate, rate.SellRate, rate.IsActive, rate.IsVisible,
		history, rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert currency rate %s: %w", rate.Code, err)
	}
	return nil
}

// SetActive flips the soft-delete flag and returns the updated record.
func (r *PgxCurrencyRateRepository) SetActive(ctx context.Context, code string, active bool, actorID string) (*domain.CurrencyRate, error) {
	return r.setFlag(ctx, "is_active", code, active, actorID)
}

// SetVisible flips the public-visibility flag and returns the updated record.
func (r *PgxCurrencyRateRepository) SetVisible(ctx context.Context, code string, visible bool, actorID string) (*domain.CurrencyRate, error) {
	return r.setFlag(ctx, "is_visible", code, visible, actorID)
}

func (r *PgxCurrencyRateRepository) setFlag(ctx context.Context, column, code string, value bool, actorID string) (*domain.CurrencyRate, error) {
	// column is one of two compile-time constants, never caller input.
	query := `
		UPDATE currency_rates
		SET ` + column + ` = $2, last_updated_at = $3, last_updated_by = $4
		WHERE currency_code = $1
		RETURNING ` + rateColumns + `;
	`
	rate, err := scanRate(r.pool.QueryRow(ctx, query, code, value, time.Now().UTC(), actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle %s for %s: %w", column, code, err)
	}
	return &rate, nil
}

var _ portsrepo.CurrencyRateRepositoryFacade = (*PgxCurrencyRateRepository)(nil)
