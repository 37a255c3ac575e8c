package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
)

// PublishService renders the current visible rates into a summary string and
// dispatches it to every configured social platform. The dispatch is an
// optional downstream step: its outcome is audited per platform but never
// required for any rate transaction.
type PublishService struct {
	rates      portssvc.RateReaderSvc
	audit      portssvc.AuditSvc
	publishers []portssvc.SocialPublisher
}

// NewPublishService creates a new PublishService.
func NewPublishService(rates portssvc.RateReaderSvc, audit portssvc.AuditSvc, publishers []portssvc.SocialPublisher) *PublishService {
	return &PublishService{rates: rates, audit: audit, publishers: publishers}
}

// PublishSummary formats the canonical public map and posts it everywhere.
// Per-platform failures are reported in the response, not as an error.
func (s *PublishService) PublishSummary(ctx context.Context, actorID string) (*dto.PublishResponse, error) {
	views, err := s.rates.VisibleRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates for publishing: %w", err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: no visible rates to publish", apperrors.ErrValidation)
	}

	message := FormatRateSummary(views, time.Now())

	results := make([]dto.PublishResult, 0, len(s.publishers))
	for _, pub := range s.publishers {
		res := dto.PublishResult{Platform: pub.Name()}
		messageID, err := pub.Publish(ctx, message)
		outcome := domain.OutcomeSuccess
		if err != nil {
			res.Error = err.Error()
			outcome = domain.OutcomeFailure
		} else {
			res.Success = true
			res.MessageID = messageID
		}
		results = append(results, res)

		detail, _ := json.Marshal(map[string]string{"platform": pub.Name(), "messageID": messageID})
		entry := domain.ActivityLogEntry{
			ActorID:  actorRef(actorID),
			Action:   domain.ActionSocialPublish,
			Resource: domain.ResourceSocial,
			Outcome:  outcome,
			Detail:   detail,
		}
		if err != nil {
			entry.ErrorText = err.Error()
		}
		s.audit.Record(ctx, entry)
	}

	return &dto.PublishResponse{Message: message, Results: results}, nil
}

// FormatRateSummary renders the canonical map into the plain-text summary
// posted to social platforms, codes in alphabetical order.
func FormatRateSummary(views map[string]dto.RateView, at time.Time) string {
	codes := make([]string, 0, len(views))
	for code := range views {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	fmt.Fprintf(&b, "Exchange rates %s\n", at.Format("2 Jan 2006 15:04"))
	for _, code := range codes {
		v := views[code]
		fmt.Fprintf(&b, "%s  buy %s / sell %s\n", code, v.BuyRate.String(), v.SellRate.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

var _ portssvc.PublishSvcFacade = (*PublishService)(nil)
