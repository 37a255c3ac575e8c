package repositories

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// UserRepositoryFacade persists dashboard operators.
type UserRepositoryFacade interface {
	// SaveUser persists a new user. ErrDuplicate on an existing username.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by primary key.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
