package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/google/uuid"
)

// auditWriteTimeout bounds the detached audit write so a stuck store cannot
// leak goroutines indefinitely.
const auditWriteTimeout = 5 * time.Second

// AuditService records mutating actions to the activity log. Writes are
// dispatched after the mutation outcome is known and never fail the caller:
// observability must not become a source of availability failure.
type AuditService struct {
	activityRepo portsrepo.ActivityLogRepositoryFacade
	logger       *slog.Logger
	retention    time.Duration
}

// NewAuditService creates a new AuditService. retention is the window after
// which PurgeExpired removes entries.
func NewAuditService(activityRepo portsrepo.ActivityLogRepositoryFacade, logger *slog.Logger, retention time.Duration) *AuditService {
	return &AuditService{
		activityRepo: activityRepo,
		logger:       logger.With(slog.String("component", "audit")),
		retention:    retention,
	}
}

// Record appends one audit entry best-effort. The write happens on a
// detached context so neither request cancellation nor a failing store can
// reach the mutation path; failures go to the diagnostic log only.
func (s *AuditService) Record(ctx context.Context, entry domain.ActivityLogEntry) {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Audit write panicked", slog.Any("panic", r))
			}
		}()
		writeCtx, cancel := context.WithTimeout(detached, auditWriteTimeout)
		defer cancel()
		if err := s.activityRepo.SaveEntry(writeCtx, entry); err != nil {
			s.logger.Error("Failed to persist audit entry",
				slog.String("entry_id", entry.EntryID),
				slog.String("action", string(entry.Action)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// ListRecent retrieves audit entries newest-first.
func (s *AuditService) ListRecent(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.activityRepo.ListRecent(ctx, limit, offset)
}

// PurgeExpired removes entries older than the retention window.
func (s *AuditService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention)
	removed, err := s.activityRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Purged expired audit entries", slog.Int64("removed", removed))
	}
	return removed, nil
}

var _ portssvc.AuditSvc = (*AuditService)(nil)
