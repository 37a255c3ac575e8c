package pgsql

import (
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all PostgreSQL repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Rate:     NewCurrencyRateRepository(pool),
		Activity: NewActivityLogRepository(pool),
		User:     NewUserRepository(pool),
		Advice:   NewAdviceRepository(pool),
	}
}
