package fx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrRateNotFound indicates that no usable direct or reciprocal rate
// exists for a currency pair on or before the requested date. Callers
// decide the fallback policy; the resolver never assumes parity.
var ErrRateNotFound = errors.New("no exchange rate found")

// RateLookup is the read-only store the resolver queries. Implementations
// return the latest rate row for the pair with DateEffective <= maxDate,
// or apperrors.ErrNotFound when no such row exists.
type RateLookup interface {
	FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, maxDate time.Time) (*domain.ExchangeRate, error)
}

// RateSource records how a resolution was obtained.
type RateSource string

const (
	SourceIdentity   RateSource = "identity"
	SourceDirect     RateSource = "direct"
	SourceReciprocal RateSource = "reciprocal"
)

// Resolution is the outcome of a rate lookup.
type Resolution struct {
	Rate          decimal.Decimal
	Source        RateSource
	DateEffective time.Time
}

// Resolver answers "what was the rate from A to B as of date d". It is a
// pure query over the RateLookup: no mutation, no caching.
type Resolver struct {
	lookup RateLookup
}

// NewResolver creates a Resolver over the given rate store.
func NewResolver(lookup RateLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the most recent applicable rate for the pair on or
// before date. Same-currency pairs resolve to exactly 1 without touching
// the store. A direct rate wins over a reciprocal one; when neither
// exists the typed ErrRateNotFound is returned, wrapped with the pair
// and date.
func (r *Resolver) Resolve(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (Resolution, error) {
	if fromCurrencyCode == toCurrencyCode {
		return Resolution{
			Rate:          decimal.NewFromInt(1),
			Source:        SourceIdentity,
			DateEffective: date,
		}, nil
	}

	direct, err := r.lookup.FindLatestRate(ctx, fromCurrencyCode, toCurrencyCode, date)
	if err == nil {
		return Resolution{
			Rate:          direct.Rate,
			Source:        SourceDirect,
			DateEffective: direct.DateEffective,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return Resolution{}, fmt.Errorf("failed to look up rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}

	reciprocal, err := r.lookup.FindLatestRate(ctx, toCurrencyCode, fromCurrencyCode, date)
	if err == nil {
		if reciprocal.Rate.IsZero() {
			return Resolution{}, fmt.Errorf("reciprocal rate %s->%s is zero: %w", toCurrencyCode, fromCurrencyCode, apperrors.ErrValidation)
		}
		return Resolution{
			Rate:          decimal.NewFromInt(1).Div(reciprocal.Rate),
			Source:        SourceReciprocal,
			DateEffective: reciprocal.DateEffective,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return Resolution{}, fmt.Errorf("failed to look up reciprocal rate %s->%s: %w", toCurrencyCode, fromCurrencyCode, err)
	}

	return Resolution{}, fmt.Errorf("%w: %s->%s as of %s", ErrRateNotFound, fromCurrencyCode, toCurrencyCode, date.Format("2006-01-02"))
}
