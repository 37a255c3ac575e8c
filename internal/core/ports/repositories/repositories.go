package repositories

// RepositoryProvider bundles the repository implementations the service
// container is wired from.
type RepositoryProvider struct {
	Rate     CurrencyRateRepositoryFacade
	Activity ActivityLogRepositoryFacade
	User     UserRepositoryFacade
	Advice   AdviceRepositoryFacade
}
