package services

import (
	"context"
	"errors"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
)

// AccessService is the access gate: it decides whether an actor may perform
// a capability-guarded operation. A denied call never reaches the validator.
type AccessService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewAccessService creates a new AccessService.
func NewAccessService(userRepo portsrepo.UserRepositoryFacade) *AccessService {
	return &AccessService{userRepo: userRepo}
}

// Authorize reports whether the user holds the capability. An unknown user
// is a plain denial; only infrastructure failures surface as errors.
func (s *AccessService) Authorize(ctx context.Context, userID string, capability domain.Capability) (bool, error) {
	if userID == "" {
		return false, nil
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasCapability(capability), nil
}

var _ portssvc.AccessGateSvc = (*AccessService)(nil)
