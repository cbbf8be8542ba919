package services

import (
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/platform/config"
	"github.com/finacct/ledgercore/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.User = NewUserService(repos.UserRepo)

	// The exchange rate repository doubles as the rate lookup for every
	// component that resolves rates.
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, repos.ExchangeRateRepo, publisher, cfg.BaseCurrency)
	container.Asset = NewAssetService(repos.AssetRepo, repos.ExchangeRateRepo, container.Journal, DepreciationAccounts{
		ExpenseAccountID:     cfg.DepreciationExpenseAccountID,
		AccumulatedAccountID: cfg.AccumulatedDepreciationAccountID,
	}, publisher, cfg.BaseCurrency)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ExchangeRateRepo, cfg.BaseCurrency)

	return container
}
