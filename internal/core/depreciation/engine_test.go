package depreciation_test

import (
	"context"
	"testing"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/depreciation"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateStore struct {
	rows []domain.ExchangeRate
}

func (s *fakeRateStore) FindLatestRate(_ context.Context, from, to string, maxDate time.Time) (*domain.ExchangeRate, error) {
	var best *domain.ExchangeRate
	for i := range s.rows {
		row := s.rows[i]
		if row.FromCurrencyCode != from || row.ToCurrencyCode != to || row.DateEffective.After(maxDate) {
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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newEngine(rows ...domain.ExchangeRate) *depreciation.Engine {
	return depreciation.NewEngine(fx.NewConverter(fx.NewResolver(&fakeRateStore{rows: rows})))
}

func usdAsset(method domain.DepreciationMethod) domain.FixedAsset {
	return domain.FixedAsset{
		AssetID:         "asset-1",
		AcquisitionDate: date(2020, 1, 1),
		AcquisitionCost: dec("12000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 10,
		Method:          method,
		CurrencyCode:    "USD",
		CurrentValue:    dec("12000"),
	}
}

func TestStraightLine_TwelveMonthPeriod(t *testing.T) {
	engine := newEngine()
	asset := usdAsset(domain.StraightLine)

	res, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")

	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(dec("1200")), "got %s", res.Amount)
	assert.True(t, res.Accumulated.Equal(dec("1200")))
	assert.True(t, res.RemainingValue.Equal(dec("10800")))
	assert.False(t, res.UsedFallback)
}

func TestStraightLine_QuarterIsThreeMonthsInclusive(t *testing.T) {
	engine := newEngine()
	asset := usdAsset(domain.StraightLine)

	res, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2020, 1, 1), date(2020, 3, 31), date(2020, 3, 31), "USD")

	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(dec("300")), "got %s", res.Amount)
}

func TestDecliningBalance_SuccessivePeriods(t *testing.T) {
	engine := newEngine()
	asset := domain.FixedAsset{
		AssetID:          "asset-db",
		AcquisitionDate:  date(2024, 1, 1),
		AcquisitionCost:  dec("10000"),
		SalvageValue:     decimal.Zero,
		UsefulLifeYears:  5,
		DepreciationRate: dec("20"),
		Method:           domain.DecliningBalance,
		CurrencyCode:     "USD",
		CurrentValue:     dec("10000"),
	}

	first, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2024, 1, 1), date(2024, 12, 31), date(2024, 12, 31), "USD")
	require.NoError(t, err)
	assert.True(t, first.Amount.Equal(dec("2000")), "got %s", first.Amount)

	second, err := engine.ComputePeriod(context.Background(), asset, first.Accumulated,
		date(2025, 1, 1), date(2025, 12, 31), date(2025, 12, 31), "USD")
	require.NoError(t, err)
	assert.True(t, second.Amount.Equal(dec("1600")), "got %s", second.Amount)
	assert.True(t, second.RemainingValue.Equal(dec("6400")))
}

func TestSumOfYears_FirstAndLaterYears(t *testing.T) {
	engine := newEngine()
	asset := domain.FixedAsset{
		AssetID:         "asset-syd",
		AcquisitionDate: date(2024, 1, 1),
		AcquisitionCost: dec("15000"),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 5,
		Method:          domain.SumOfYears,
		CurrencyCode:    "USD",
		CurrentValue:    dec("15000"),
	}

	// Year one: remaining life 5, sum 15 -> 5/15 of 15000 = 5000.
	first, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2024, 1, 1), date(2024, 12, 31), date(2024, 6, 30), "USD")
	require.NoError(t, err)
	assert.True(t, first.Amount.Equal(dec("5000")), "got %s", first.Amount)

	// Two whole years elapsed: remaining life 3 -> 3/15 of 15000 = 3000.
	third, err := engine.ComputePeriod(context.Background(), asset, dec("9000"),
		date(2026, 1, 1), date(2026, 12, 31), date(2026, 6, 30), "USD")
	require.NoError(t, err)
	assert.True(t, third.Amount.Equal(dec("3000")), "got %s", third.Amount)
}

func TestUnitsOfProduction_FallsBackToStraightLine(t *testing.T) {
	engine := newEngine()
	asset := usdAsset(domain.UnitsOfProduction)

	res, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")

	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(dec("1200")))
	assert.True(t, res.UsedFallback, "fallback must be signalled, not silent")
}

func TestSalvageFloor_ClampsFinalPeriod(t *testing.T) {
	engine := newEngine()
	asset := domain.FixedAsset{
		AssetID:         "asset-floor",
		AcquisitionDate: date(2023, 1, 1),
		AcquisitionCost: dec("10000"),
		SalvageValue:    dec("1000"),
		UsefulLifeYears: 3,
		Method:          domain.StraightLine,
		CurrencyCode:    "USD",
		CurrentValue:    dec("10000"),
	}

	// Annual charge is 3000; after three years only 9000 is depreciable.
	res, err := engine.ComputePeriod(context.Background(), asset, dec("8000"),
		date(2026, 1, 1), date(2026, 12, 31), date(2026, 12, 31), "USD")

	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(dec("1000")), "clamped to value-before minus salvage, got %s", res.Amount)
	assert.True(t, res.Accumulated.Equal(dec("9000")))
	assert.True(t, res.RemainingValue.Equal(dec("1000")))
}

func TestSalvageFloor_HoldsAcrossSuccessiveRuns(t *testing.T) {
	engine := newEngine()
	asset := domain.FixedAsset{
		AssetID:          "asset-exhaust",
		AcquisitionDate:  date(2022, 1, 1),
		AcquisitionCost:  dec("5000"),
		SalvageValue:     dec("500"),
		UsefulLifeYears:  4,
		DepreciationRate: dec("40"),
		Method:           domain.DecliningBalance,
		CurrencyCode:     "USD",
		CurrentValue:     dec("5000"),
	}

	depreciableBase := asset.AcquisitionCost.Sub(asset.SalvageValue)
	accumulated := decimal.Zero
	previousRemaining := asset.AcquisitionCost

	for year := 0; year < 12; year++ {
		start := date(2022+year, 1, 1)
		end := date(2022+year, 12, 31)
		res, err := engine.ComputePeriod(context.Background(), asset, accumulated, start, end, end, "USD")
		require.NoError(t, err)

		assert.False(t, res.RemainingValue.GreaterThan(previousRemaining), "remaining value increased in year %d", year)
		assert.False(t, res.RemainingValue.LessThan(asset.SalvageValue), "remaining value fell below salvage in year %d", year)
		assert.False(t, res.Accumulated.GreaterThan(depreciableBase.Add(dec("0.01"))), "total depreciation exceeded the depreciable base in year %d", year)

		accumulated = res.Accumulated
		previousRemaining = res.RemainingValue
	}

	assert.True(t, previousRemaining.Equal(asset.SalvageValue))
}

func TestForeignAssetCarriesBaseEquivalents(t *testing.T) {
	engine := newEngine(domain.ExchangeRate{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             dec("1.2"),
		DateEffective:    date(2020, 1, 1),
	})
	asset := usdAsset(domain.StraightLine)
	asset.CurrencyCode = "EUR"

	res, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")

	require.NoError(t, err)
	assert.True(t, res.ExchangeRate.Equal(dec("1.2")))
	assert.True(t, res.BaseAmount.Equal(dec("1440")), "got %s", res.BaseAmount)
	assert.True(t, res.BaseRemaining.Equal(dec("12960")))
}

func TestForeignAssetWithoutRateFails(t *testing.T) {
	engine := newEngine()
	asset := usdAsset(domain.StraightLine)
	asset.CurrencyCode = "EUR"

	_, err := engine.ComputePeriod(context.Background(), asset, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")

	assert.ErrorIs(t, err, fx.ErrRateNotFound)
}

func TestInvalidMethodAndLifeAreRejected(t *testing.T) {
	engine := newEngine()

	bad := usdAsset("ACCELERATED_MAGIC")
	_, err := engine.ComputePeriod(context.Background(), bad, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")
	assert.ErrorIs(t, err, depreciation.ErrInvalidMethod)

	zeroLife := usdAsset(domain.StraightLine)
	zeroLife.UsefulLifeYears = 0
	_, err = engine.ComputePeriod(context.Background(), zeroLife, decimal.Zero,
		date(2020, 1, 1), date(2020, 12, 31), date(2020, 12, 31), "USD")
	assert.ErrorIs(t, err, depreciation.ErrNonPositiveUsefulLife)
}
