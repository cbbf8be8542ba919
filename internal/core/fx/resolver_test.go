package fx_test

import (
	"context"
	"testing"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateStore is an in-memory RateLookup with the same latest-row
// semantics as the pgsql repository.
type fakeRateStore struct {
	rows  []domain.ExchangeRate
	calls int
}

func (s *fakeRateStore) FindLatestRate(_ context.Context, from, to string, maxDate time.Time) (*domain.ExchangeRate, error) {
	s.calls++
	var best *domain.ExchangeRate
	for i := range s.rows {
		row := s.rows[i]
		if row.FromCurrencyCode != from || row.ToCurrencyCode != to {
			continue
		}
		if row.DateEffective.After(maxDate) {
			continue
		}
		if best == nil || row.DateEffective.After(best.DateEffective) {
			best = &s.rows[i]
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rateRow(from, to, rate string, effective time.Time) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(rate),
		DateEffective:    effective,
	}
}

func TestResolve_SameCurrencyIsIdentity(t *testing.T) {
	store := &fakeRateStore{}
	resolver := fx.NewResolver(store)

	res, err := resolver.Resolve(context.Background(), "USD", "USD", date(2026, 3, 15))

	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, fx.SourceIdentity, res.Source)
	assert.Zero(t, store.calls, "identity resolution must not hit the store")
}

func TestResolve_PrefersLatestDirectRateOnOrBeforeDate(t *testing.T) {
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.05", date(2026, 1, 1)),
		rateRow("EUR", "USD", "1.10", date(2026, 2, 1)),
		rateRow("EUR", "USD", "1.20", date(2026, 4, 1)), // after requested date
	}}
	resolver := fx.NewResolver(store)

	res, err := resolver.Resolve(context.Background(), "EUR", "USD", date(2026, 3, 15))

	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.RequireFromString("1.10")))
	assert.Equal(t, fx.SourceDirect, res.Source)
	assert.Equal(t, date(2026, 2, 1), res.DateEffective)
}

func TestResolve_FallsBackToReciprocal(t *testing.T) {
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("USD", "EUR", "0.8", date(2026, 1, 1)),
	}}
	resolver := fx.NewResolver(store)

	res, err := resolver.Resolve(context.Background(), "EUR", "USD", date(2026, 3, 15))

	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.RequireFromString("1.25")), "expected 1/0.8, got %s", res.Rate)
	assert.Equal(t, fx.SourceReciprocal, res.Source)
}

func TestResolve_NoRateFails(t *testing.T) {
	store := &fakeRateStore{}
	resolver := fx.NewResolver(store)

	_, err := resolver.Resolve(context.Background(), "EUR", "USD", date(2026, 3, 15))

	require.Error(t, err)
	assert.ErrorIs(t, err, fx.ErrRateNotFound)
}

func TestResolve_RateInsertedForEarlierDateIsVisible(t *testing.T) {
	// A pure query must serve a newly inserted earlier-or-equal row on the
	// next call instead of a cached answer.
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.05", date(2026, 1, 1)),
	}}
	resolver := fx.NewResolver(store)

	first, err := resolver.Resolve(context.Background(), "EUR", "USD", date(2026, 3, 15))
	require.NoError(t, err)
	assert.True(t, first.Rate.Equal(decimal.RequireFromString("1.05")))

	store.rows = append(store.rows, rateRow("EUR", "USD", "1.08", date(2026, 3, 1)))

	second, err := resolver.Resolve(context.Background(), "EUR", "USD", date(2026, 3, 15))
	require.NoError(t, err)
	assert.True(t, second.Rate.Equal(decimal.RequireFromString("1.08")))
}
