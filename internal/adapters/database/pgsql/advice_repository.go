package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAdviceRepository implements advice post persistence on PostgreSQL.
type PgxAdviceRepository struct {
	pool *pgxpool.Pool
}

// NewAdviceRepository creates a new repository for advice posts.
func NewAdviceRepository(pool *pgxpool.Pool) *PgxAdviceRepository {
	return &PgxAdviceRepository{pool: pool}
}

const adviceColumns = `post_id, title, body, is_published, created_at, created_by, last_updated_at, last_updated_by`

func scanAdvice(row pgx.Row) (domain.AdvicePost, error) {
	var post domain.AdvicePost
	err := row.Scan(
		&post.PostID,
		&post.Title,
		&post.Body,
		&post.IsPublished,
		&post.CreatedAt,
		&post.CreatedBy,
		&post.LastUpdatedAt,
		&post.LastUpdatedBy,
	)
	return post, err
}

// SaveAdvice persists a new post.
func (r *PgxAdviceRepository) SaveAdvice(ctx context.Context, post domain.AdvicePost) error {
	query := `
		INSERT INTO advice_posts (` + adviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		post.PostID, post.Title, post.Body, post.IsPublished,
		post.CreatedAt, post.CreatedBy, post.LastUpdatedAt, post.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save advice post: %w", err)
	}
	return nil
}

// UpdateAdvice overwrites a post's mutable fields.
func (r *PgxAdviceRepository) UpdateAdvice(ctx context.Context, post domain.AdvicePost) error {
	query := `
		UPDATE advice_posts
		SET title = $2, body = $3, is_published = $4, last_updated_at = $5, last_updated_by = $6
		WHERE post_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		post.PostID, post.Title, post.Body, post.IsPublished, post.LastUpdatedAt, post.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update advice post %s: %w", post.PostID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAdviceByID retrieves a post by primary key.
func (r *PgxAdviceRepository) FindAdviceByID(ctx context.Context, postID string) (*domain.AdvicePost, error) {
	query := `SELECT ` + adviceColumns + ` FROM advice_posts WHERE post_id = $1;`
	post, err := scanAdvice(r.pool.QueryRow(ctx, query, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find advice post %s: %w", postID, err)
	}
	return &post, nil
}

// ListAdvice retrieves posts newest-first.
func (r *PgxAdviceRepository) ListAdvice(ctx context.Context, onlyPublished bool) ([]domain.AdvicePost, error) {
	query := `SELECT ` + adviceColumns + ` FROM advice_posts WHERE ($1 = false OR is_published) ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, query, onlyPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to query advice posts: %w", err)
	}
	defer rows.Close()

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AdvicePost, error) {
		return scanAdvice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan advice posts: %w", err)
	}
	return posts, nil
}

var _ portsrepo.AdviceRepositoryFacade = (*PgxAdviceRepository)(nil)
