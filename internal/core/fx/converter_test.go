package fx_test

import (
	"context"
	"testing"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_UsesResolvedRateWithoutRounding(t *testing.T) {
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.0837", date(2026, 1, 1)),
	}}
	converter := fx.NewConverter(fx.NewResolver(store))

	conv, err := converter.Convert(context.Background(), decimal.RequireFromString("123.45"), "EUR", "USD", date(2026, 2, 1))

	require.NoError(t, err)
	assert.True(t, conv.RateUsed.Equal(decimal.RequireFromString("1.0837")))
	assert.True(t, conv.Amount.Equal(decimal.RequireFromString("133.782765")), "got %s", conv.Amount)
}

func TestConvert_RoundTripWithGenuineReciprocals(t *testing.T) {
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.25", date(2026, 1, 1)),
		rateRow("USD", "EUR", "0.8", date(2026, 1, 1)),
	}}
	converter := fx.NewConverter(fx.NewResolver(store))
	ctx := context.Background()
	asOf := date(2026, 2, 1)

	original := decimal.RequireFromString("512.34")
	there, err := converter.Convert(ctx, original, "EUR", "USD", asOf)
	require.NoError(t, err)
	back, err := converter.Convert(ctx, there.Amount, "USD", "EUR", asOf)
	require.NoError(t, err)

	diff := back.Amount.Sub(original).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000001")), "round trip drifted by %s", diff)
}

func TestBuildRateTable_ResolvesOncePerCurrency(t *testing.T) {
	store := &fakeRateStore{rows: []domain.ExchangeRate{
		rateRow("EUR", "USD", "1.1", date(2026, 1, 1)),
		rateRow("GBP", "USD", "1.3", date(2026, 1, 1)),
	}}
	resolver := fx.NewResolver(store)

	table, err := fx.BuildRateTable(context.Background(),
		resolver,
		[]string{"EUR", "GBP", "EUR", "USD", "GBP"},
		"USD", date(2026, 2, 1))

	require.NoError(t, err)
	// USD->USD is identity and never hits the store; EUR and GBP once each.
	assert.Equal(t, 2, store.calls)

	got, ok := table.Convert("EUR", decimal.NewFromInt(100))
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.RequireFromString("110")))

	_, ok = table.Convert("JPY", decimal.NewFromInt(100))
	assert.False(t, ok)
}

func TestBuildRateTable_MissingRateFails(t *testing.T) {
	resolver := fx.NewResolver(&fakeRateStore{})

	_, err := fx.BuildRateTable(context.Background(), resolver, []string{"EUR"}, "USD", date(2026, 2, 1))

	assert.ErrorIs(t, err, fx.ErrRateNotFound)
}
