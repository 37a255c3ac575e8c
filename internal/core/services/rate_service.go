package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
)

// RateServiceConfig carries the externally configurable constants of the
// rate pipeline.
type RateServiceConfig struct {
	AllowedCodes   []string
	HistoryCap     int
	PersistTimeout time.Duration
}

// RateService orchestrates validate -> persist -> audit -> broadcast for
// batch updates and serves the canonical read projections.
type RateService struct {
	rateRepo    portsrepo.CurrencyRateRepositoryFacade
	audit       portssvc.AuditSvc
	broadcaster portssvc.Broadcaster
	allowed     map[string]struct{}
	historyCap  int
	persistTO   time.Duration
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo portsrepo.CurrencyRateRepositoryFacade, audit portssvc.AuditSvc, broadcaster portssvc.Broadcaster, cfg RateServiceConfig) *RateService {
	allowed := make(map[string]struct{}, len(cfg.AllowedCodes))
	for _, code := range cfg.AllowedCodes {
		allowed[strings.ToUpper(code)] = struct{}{}
	}
	return &RateService{
		rateRepo:    rateRepo,
		audit:       audit,
		broadcaster: broadcaster,
		allowed:     allowed,
		historyCap:  cfg.HistoryCap,
		persistTO:   cfg.PersistTimeout,
	}
}

// UpdateRates applies one batch of rate changes. Any violation rejects the
// whole batch with zero side effects; a committed batch is audited and
// broadcast exactly once.
func (s *RateService) UpdateRates(ctx context.Context, batch dto.BatchUpdateRequest, actorID string) (map[string]dto.RateView, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: batch must not be empty", apperrors.ErrValidation)
	}

	normalized := make(dto.BatchUpdateRequest, len(batch))
	for code, pair := range batch {
		normalized[strings.ToUpper(strings.TrimSpace(code))] = pair
	}

	active, err := s.rateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing rates before update: %v", apperrors.ErrPersistence, err)
	}
	known := make(map[string]struct{}, len(s.allowed)+len(active))
	for code := range s.allowed {
		known[code] = struct{}{}
	}
	for i := range active {
		known[active[i].Code] = struct{}{}
	}

	changes, violations := ValidateBatch(normalized, known)
	if len(violations) > 0 {
		verr := apperrors.NewValidationError(violations)
		s.auditRateAction(ctx, domain.ActionRateUpdate, actorID, domain.OutcomeFailure, batchDetail(normalized), verr)
		return nil, verr
	}

	persistCtx, cancel := context.WithTimeout(ctx, s.persistTO)
	defer cancel()
	if _, err := s.rateRepo.UpsertRates(persistCtx, changes, actorID, s.historyCap); err != nil {
		s.auditRateAction(ctx, domain.ActionRateUpdate, actorID, domain.OutcomeFailure, batchDetail(normalized), err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: persist step timed out", apperrors.ErrPersistence)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.auditRateAction(ctx, domain.ActionRateUpdate, actorID, domain.OutcomeSuccess, batchDetail(normalized), nil)

	return s.broadcastAndProject(ctx)
}

// CreateCurrency registers a new record for an allow-listed code. The record
// stays off the canonical map until its first accepted rate update.
func (s *RateService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actorID string) (*domain.CurrencyRate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, ok := s.allowed[code]; !ok {
		verr := apperrors.NewValidationError([]apperrors.Violation{{
			Code:   code,
			Rule:   apperrors.RuleUnknownCode,
			Detail: fmt.Sprintf("currency code %q is not in the configured allow-list", code),
		}})
		s.auditRateAction(ctx, domain.ActionRateCreate, actorID, domain.OutcomeFailure, codeDetail(code), verr)
		return nil, verr
	}

	now := time.Now().UTC()
	rate := domain.CurrencyRate{
		Code:        code,
		DisplayName: req.DisplayName,
		IsActive:    true,
		IsVisible:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.rateRepo.SaveNew(ctx, rate); err != nil {
		s.auditRateAction(ctx, domain.ActionRateCreate, actorID, domain.OutcomeFailure, codeDetail(code), err)
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.auditRateAction(ctx, domain.ActionRateCreate, actorID, domain.OutcomeSuccess, codeDetail(code), nil)
	return &rate, nil
}

// SetVisibility toggles whether the code appears on the public read path.
func (s *RateService) SetVisibility(ctx context.Context, code string, visible bool, actorID string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := s.rateRepo.SetVisible(ctx, code, visible, actorID); err != nil {
		s.auditRateAction(ctx, domain.ActionVisibilityToggle, actorID, domain.OutcomeFailure, codeDetail(code), err)
		return err
	}
	s.auditRateAction(ctx, domain.ActionVisibilityToggle, actorID, domain.OutcomeSuccess, codeDetail(code), nil)

	// The canonical public map changed shape, so connected clients get the
	// refreshed view.
	_, err := s.broadcastAndProject(ctx)
	return err
}

// SetActive toggles the soft-delete flag.
func (s *RateService) SetActive(ctx context.Context, code string, active bool, actorID string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	action := domain.ActionRateDelete
	if active {
		action = domain.ActionRateCreate
	}
	if _, err := s.rateRepo.SetActive(ctx, code, active, actorID); err != nil {
		s.auditRateAction(ctx, action, actorID, domain.OutcomeFailure, codeDetail(code), err)
		return err
	}
	s.auditRateAction(ctx, action, actorID, domain.OutcomeSuccess, codeDetail(code), nil)

	_, err := s.broadcastAndProject(ctx)
	return err
}

// VisibleRates is the public canonical map.
func (s *RateService) VisibleRates(ctx context.Context) (map[string]dto.RateView, error) {
	active, err := s.rateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates in service: %w", err)
	}
	return publicProjection(active), nil
}

// AllRates is the admin canonical map: every active record with the
// isVisible flag exposed.
func (s *RateService) AllRates(ctx context.Context) (map[string]dto.RateView, error) {
	active, err := s.rateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates in service: %w", err)
	}
	return adminProjection(active), nil
}

// RateHistory returns the capped update journal for one code.
func (s *RateService) RateHistory(ctx context.Context, code string) ([]domain.RateSnapshot, error) {
	rate, err := s.rateRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return rate.UpdateHistory, nil
}

// broadcastAndProject rebuilds both canonical projections from the store,
// fans them out, and returns the admin view for the HTTP response.
func (s *RateService) broadcastAndProject(ctx context.Context) (map[string]dto.RateView, error) {
	active, err := s.rateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading canonical view after commit: %v", apperrors.ErrPersistence, err)
	}
	publicView := publicProjection(active)
	adminView := adminProjection(active)
	s.broadcaster.PublishRateChanged(publicView, adminView)
	return adminView, nil
}

func publicProjection(active []domain.CurrencyRate) map[string]dto.RateView {
	views := make(map[string]dto.RateView)
	for i := range active {
		if active[i].IsVisible && active[i].HasQuote() {
			views[active[i].Code] = dto.ToRateView(&active[i], false)
		}
	}
	return views
}

func adminProjection(active []domain.CurrencyRate) map[string]dto.RateView {
	views := make(map[string]dto.RateView)
	for i := range active {
		if active[i].HasQuote() {
			views[active[i].Code] = dto.ToRateView(&active[i], true)
		}
	}
	return views
}

// auditRateAction records one attempted mutation, success or failure. The
// audit service swallows its own failures; the mutation path never blocks
// on it.
func (s *RateService) auditRateAction(ctx context.Context, action domain.ActionType, actorID string, outcome domain.OutcomeType, detail json.RawMessage, cause error) {
	entry := domain.ActivityLogEntry{
		ActorID:   actorRef(actorID),
		Action:    action,
		Resource:  domain.ResourceRate,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if cause != nil {
		entry.ErrorText = cause.Error()
	}
	s.audit.Record(ctx, entry)
}

func actorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}

func batchDetail(batch dto.BatchUpdateRequest) json.RawMessage {
	detail, err := json.Marshal(batch)
	if err != nil {
		return nil
	}
	return detail
}

func codeDetail(code string) json.RawMessage {
	detail, _ := json.Marshal(map[string]string{"code": code})
	return detail
}

var _ portssvc.RateSvcFacade = (*RateService)(nil)
