package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// AccessGateSvc authorizes mutating operations. A denied call never reaches
// the rate validator.
type AccessGateSvc interface {
	// Authorize reports whether the user holds the capability. A missing
	// user is a plain denial, not an error.
	Authorize(ctx context.Context, userID string, capability domain.Capability) (bool, error)
}
