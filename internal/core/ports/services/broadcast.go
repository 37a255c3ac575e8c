package services

import "github.com/kursboard/kursboard/internal/dto"

// Broadcaster fans the canonical post-commit view out to every connected
// subscriber. Fire-and-forget, at-most-once: a slow or gone subscriber is
// dropped, never waited on. Callers must only publish after the triggering
// mutation is durably committed.
type Broadcaster interface {
	// PublishRateChanged pushes the public-safe map to every subscriber
	// and the full map (including hidden rates) to admin subscribers.
	PublishRateChanged(publicView, adminView map[string]dto.RateView)
}
