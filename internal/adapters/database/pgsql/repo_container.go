package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     NewCurrencyRepository(pool),
		AccountRepo:      NewAccountRepository(pool),
		ExchangeRateRepo: NewExchangeRateRepository(pool),
		UserRepo:         NewUserRepository(pool),
		JournalRepo:      NewJournalRepository(pool),
		AssetRepo:        NewAssetRepository(pool),
		ReportingRepo:    NewReportingRepository(pool),
	}
}
