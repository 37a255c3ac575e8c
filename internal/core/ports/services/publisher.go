package services

import (
	"context"

	"github.com/kursboard/kursboard/internal/dto"
)

// SocialPublisher posts a pre-formatted rate summary to one platform.
// Implementations are opaque collaborators; their outcome never affects
// rate state.
type SocialPublisher interface {
	// Name identifies the platform in audit entries and reports.
	Name() string

	// Publish posts the message and returns the platform's message ID.
	Publish(ctx context.Context, message string) (string, error)
}

// PublishSvcFacade formats the current visible rates and dispatches the
// summary to every configured platform.
type PublishSvcFacade interface {
	PublishSummary(ctx context.Context, actorID string) (*dto.PublishResponse, error)
}
