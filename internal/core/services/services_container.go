package services

import (
	"log/slog"

	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, broadcaster portssvc.Broadcaster, publishers []portssvc.SocialPublisher, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The audit service comes first: every mutating service hangs its
	// fire-and-forget trail off it.
	container.Audit = NewAuditService(repos.Activity, logger, cfg.AuditRetention)

	container.Rate = NewRateService(repos.Rate, container.Audit, broadcaster, RateServiceConfig{
		AllowedCodes:   cfg.AllowedCurrencyCodes,
		HistoryCap:     cfg.RateHistoryCap,
		PersistTimeout: cfg.PersistTimeout,
	})

	container.User = NewUserService(repos.User)
	container.Access = NewAccessService(repos.User)
	container.Advice = NewAdviceService(repos.Advice, container.Audit)
	container.Publish = NewPublishService(container.Rate, container.Audit, publishers)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.RateSvcFacade     = (*RateService)(nil)
	_ portssvc.AuditSvc          = (*AuditService)(nil)
	_ portssvc.AccessGateSvc     = (*AccessService)(nil)
	_ portssvc.UserSvcFacade     = (*UserService)(nil)
	_ portssvc.AdviceSvcFacade   = (*AdviceService)(nil)
	_ portssvc.PublishSvcFacade = (*PublishService)(nil)
)
