package repositories

import (
	"context"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
// FindLatestRate is the resolver's lookup: the newest rate for the pair
// whose effective date does not exceed maxDate.
type ExchangeRateReader interface {
	// FindLatestRate retrieves the most recent rate for a currency pair
	// effective on or before maxDate. Returns apperrors.ErrNotFound when
	// no such rate exists.
	FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, maxDate time.Time) (*domain.ExchangeRate, error)

	// FindExchangeRateByID retrieves a specific exchange rate row.
	FindExchangeRateByID(ctx context.Context, exchangeRateID string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves the rate history for a currency pair,
	// newest first.
	ListExchangeRates(ctx context.Context, fromCurrencyCode, toCurrencyCode string, limit int, offset int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
