package repositories

import (
	"context"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// ActivityLogRepositoryFacade persists the append-only audit trail.
type ActivityLogRepositoryFacade interface {
	// SaveEntry appends one audit record. Entries are never mutated.
	SaveEntry(ctx context.Context, entry domain.ActivityLogEntry) error

	// ListRecent retrieves entries in reverse-chronological order.
	ListRecent(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error)

	// DeleteOlderThan purges entries created before the cutoff and
	// returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
