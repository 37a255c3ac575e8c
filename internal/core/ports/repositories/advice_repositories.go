package repositories

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// AdviceRepositoryFacade persists editorial advice posts.
type AdviceRepositoryFacade interface {
	// SaveAdvice persists a new post.
	SaveAdvice(ctx context.Context, post domain.AdvicePost) error

	// UpdateAdvice overwrites a post's mutable fields. ErrNotFound if absent.
	UpdateAdvice(ctx context.Context, post domain.AdvicePost) error

	// FindAdviceByID retrieves a post by primary key.
	FindAdviceByID(ctx context.Context, postID string) (*domain.AdvicePost, error)

	// ListAdvice retrieves posts newest-first, optionally published only.
	ListAdvice(ctx context.Context, onlyPublished bool) ([]domain.AdvicePost, error)
}
