package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxActivityLogRepository implements the append-only audit trail on
// PostgreSQL. Entries are inserted once and never updated.
type PgxActivityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository creates a new repository for activity log data.
func NewActivityLogRepository(pool *pgxpool.Pool) *PgxActivityLogRepository {
	return &PgxActivityLogRepository{pool: pool}
}

// SaveEntry appends one audit record.
func (r *PgxActivityLogRepository) SaveEntry(ctx context.Context, entry domain.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_log (entry_id, actor_id, action, resource, outcome, error_text, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.EntryID,
		entry.ActorID,
		string(entry.Action),
		string(entry.Resource),
		string(entry.Outcome),
		entry.ErrorText,
		[]byte(entry.Detail),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save activity log entry: %w", err)
	}
	return nil
}

// ListRecent retrieves entries newest-first, paginated.
func (r *PgxActivityLogRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error) {
	query := `
		SELECT entry_id, actor_id, action, resource, outcome, error_text, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActivityLogEntry, error) {
		var entry domain.ActivityLogEntry
		var action, resource, outcome string
		var detail []byte
		err := row.Scan(&entry.EntryID, &entry.ActorID, &action, &resource, &outcome, &entry.ErrorText, &detail, &entry.CreatedAt)
		entry.Action = domain.ActionType(action)
		entry.Resource = domain.ResourceType(resource)
		entry.Outcome = domain.OutcomeType(outcome)
		entry.Detail = detail
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity log entries: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan purges entries created before the cutoff.
func (r *PgxActivityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activity_log WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge activity log: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ portsrepo.ActivityLogRepositoryFacade = (*PgxActivityLogRepository)(nil)
