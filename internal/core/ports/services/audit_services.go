package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// AuditSvc records mutating actions after the fact. Record must never fail
// its caller: audit durability is independent of mutation correctness.
type AuditSvc interface {
	// Record appends one audit entry, best-effort. Internal failures are
	// logged to the diagnostic sink and swallowed.
	Record(ctx context.Context, entry domain.ActivityLogEntry)

	// ListRecent retrieves entries newest-first for the admin trail view.
	ListRecent(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error)

	// PurgeExpired removes entries older than the configured retention
	// window and returns the number removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
