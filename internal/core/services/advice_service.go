package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/google/uuid"
)

// AdviceService manages the editorial posts shown on the public rates page.
type AdviceService struct {
	adviceRepo portsrepo.AdviceRepositoryFacade
	audit      portssvc.AuditSvc
}

// NewAdviceService creates a new AdviceService.
func NewAdviceService(adviceRepo portsrepo.AdviceRepositoryFacade, audit portssvc.AuditSvc) *AdviceService {
	return &AdviceService{adviceRepo: adviceRepo, audit: audit}
}

// CreateAdvice persists a new post as an unpublished draft.
func (s *AdviceService) CreateAdvice(ctx context.Context, req dto.CreateAdviceRequest, actorID string) (*domain.AdvicePost, error) {
	now := time.Now().UTC()
	post := domain.AdvicePost{
		PostID:      uuid.NewString(),
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.adviceRepo.SaveAdvice(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create advice post in service: %w", err)
	}
	s.audit.Record(ctx, domain.ActivityLogEntry{
		ActorID:  actorRef(actorID),
		Action:   domain.ActionAdviceCreate,
		Resource: domain.ResourceAdvice,
		Outcome:  domain.OutcomeSuccess,
	})
	return &post, nil
}

// UpdateAdvice applies partial changes to an existing post.
func (s *AdviceService) UpdateAdvice(ctx context.Context, postID string, req dto.UpdateAdviceRequest, actorID string) (*domain.AdvicePost, error) {
	post, err := s.adviceRepo.FindAdviceByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	post.LastUpdatedAt = time.Now().UTC()
	post.LastUpdatedBy = actorID

	if err := s.adviceRepo.UpdateAdvice(ctx, *post); err != nil {
		return nil, fmt.Errorf("failed to update advice post in service: %w", err)
	}
	s.audit.Record(ctx, domain.ActivityLogEntry{
		ActorID:  actorRef(actorID),
		Action:   domain.ActionAdviceUpdate,
		Resource: domain.ResourceAdvice,
		Outcome:  domain.OutcomeSuccess,
	})
	return post, nil
}

// ListAdvice returns posts newest-first.
func (s *AdviceService) ListAdvice(ctx context.Context, onlyPublished bool) ([]domain.AdvicePost, error) {
	posts, err := s.adviceRepo.ListAdvice(ctx, onlyPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list advice posts in service: %w", err)
	}
	if posts == nil {
		return []domain.AdvicePost{}, nil
	}
	return posts, nil
}

var _ portssvc.AdviceSvcFacade = (*AdviceService)(nil)
