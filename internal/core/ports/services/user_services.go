package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// UserSvcFacade manages dashboard operators and their credentials.
type UserSvcFacade interface {
	// Authenticate verifies a username/password pair. Returns
	// apperrors.ErrUnauthorized on any mismatch, without revealing which
	// part failed.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a user by primary key.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// EnsureAdminUser creates the bootstrap admin account if the username
	// is not taken yet.
	EnsureAdminUser(ctx context.Context, username, password string) error
}
