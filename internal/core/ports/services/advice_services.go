package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/kursboard/kursboard/internal/dto"
)

// AdviceSvcFacade manages the editorial posts shown on the public page.
type AdviceSvcFacade interface {
	CreateAdvice(ctx context.Context, req dto.CreateAdviceRequest, actorID string) (*domain.AdvicePost, error)
	UpdateAdvice(ctx context.Context, postID string, req dto.UpdateAdviceRequest, actorID string) (*domain.AdvicePost, error)

	// ListAdvice returns posts newest-first; onlyPublished filters drafts
	// out for the public read path.
	ListAdvice(ctx context.Context, onlyPublished bool) ([]domain.AdvicePost, error)
}
