// Package depreciation computes per-period depreciation for fixed
// assets. The four methods and the salvage-value clamp were previously
// re-implemented in every controller that touched assets; this is the
// one place they live now.
package depreciation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidMethod indicates an asset carries a method outside the
	// closed enum.
	ErrInvalidMethod = errors.New("invalid depreciation method")
	// ErrNonPositiveUsefulLife indicates an asset is configured with a
	// useful life of zero or fewer years.
	ErrNonPositiveUsefulLife = errors.New("useful life must be positive")
)

// Result is the outcome of one period's depreciation computation.
// Amounts are in the asset's currency; Base* fields are the
// base-currency equivalents at ExchangeRate.
type Result struct {
	Amount          decimal.Decimal
	Accumulated     decimal.Decimal
	RemainingValue  decimal.Decimal
	BaseAmount      decimal.Decimal
	BaseAccumulated decimal.Decimal
	BaseRemaining   decimal.Decimal
	ExchangeRate    decimal.Decimal
	Method          domain.DepreciationMethod
	// UsedFallback is true when a units-of-production asset fell back to
	// straight-line because no usage data is modelled.
	UsedFallback bool
}

// Engine computes depreciation results. It is a pure computation
// component; persistence and per-asset serialization are the caller's
// concern.
type Engine struct {
	converter *fx.Converter
}

// NewEngine creates an Engine using the converter for base-currency
// equivalents.
func NewEngine(converter *fx.Converter) *Engine {
	return &Engine{converter: converter}
}

// ComputePeriod calculates depreciation for one asset over
// [periodStart, periodEnd], given the accumulated depreciation recorded
// before this run. asOfDate drives both the years-elapsed input of the
// sum-of-years method and the exchange rate used for base-currency
// equivalents.
//
// After the per-method amount, the salvage floor applies uniformly: the
// remaining value never drops below the salvage value, and the clamped
// amount is reduced so total recorded depreciation never exceeds the
// depreciable base.
func (e *Engine) ComputePeriod(ctx context.Context, asset domain.FixedAsset, previousAccumulated decimal.Decimal, periodStart, periodEnd, asOfDate time.Time, baseCurrencyCode string) (Result, error) {
	if asset.UsefulLifeYears <= 0 {
		return Result{}, fmt.Errorf("%w: asset %s has useful life %d", ErrNonPositiveUsefulLife, asset.AssetID, asset.UsefulLifeYears)
	}

	var amount decimal.Decimal
	usedFallback := false

	switch asset.Method {
	case domain.StraightLine:
		amount = straightLine(asset, periodStart, periodEnd)
	case domain.DecliningBalance:
		amount = decliningBalance(asset, previousAccumulated)
	case domain.SumOfYears:
		amount = sumOfYears(asset, wholeYearsBetween(asset.AcquisitionDate, asOfDate))
	case domain.UnitsOfProduction:
		// No usage-unit data is modelled; documented fallback to
		// straight-line, signalled on the result.
		amount = straightLine(asset, periodStart, periodEnd)
		usedFallback = true
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMethod, asset.Method)
	}

	accumulated := previousAccumulated.Add(amount)
	remaining := asset.AcquisitionCost.Sub(accumulated)

	if remaining.LessThan(asset.SalvageValue) {
		valueBefore := asset.AcquisitionCost.Sub(previousAccumulated)
		amount = valueBefore.Sub(asset.SalvageValue)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		accumulated = asset.AcquisitionCost.Sub(asset.SalvageValue)
		remaining = asset.SalvageValue
	}

	conv, err := e.converter.Convert(ctx, amount, asset.CurrencyCode, baseCurrencyCode, asOfDate)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve base-currency rate for asset %s: %w", asset.AssetID, err)
	}
	rate := conv.RateUsed

	return Result{
		Amount:          amount,
		Accumulated:     accumulated,
		RemainingValue:  remaining,
		BaseAmount:      conv.Amount,
		BaseAccumulated: accumulated.Mul(rate),
		BaseRemaining:   remaining.Mul(rate),
		ExchangeRate:    rate,
		Method:          asset.Method,
		UsedFallback:    usedFallback,
	}, nil
}

// straightLine prorates the annual charge over the inclusive month count
// of the period: annual = depreciable base / useful life.
func straightLine(asset domain.FixedAsset, periodStart, periodEnd time.Time) decimal.Decimal {
	depreciableBase := asset.AcquisitionCost.Sub(asset.SalvageValue)
	annual := depreciableBase.Div(decimal.NewFromInt(int64(asset.UsefulLifeYears)))
	months := monthsInPeriod(periodStart, periodEnd)
	// Multiply before the /12 so that whole-year periods stay exact.
	return annual.Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(12))
}

// decliningBalance applies the asset's rate to the current book value.
func decliningBalance(asset domain.FixedAsset, previousAccumulated decimal.Decimal) decimal.Decimal {
	bookValue := asset.AcquisitionCost.Sub(previousAccumulated)
	return bookValue.Mul(asset.DepreciationRate.Div(decimal.NewFromInt(100)))
}

// sumOfYears charges remainingLife/sumOfYears of the depreciable base,
// where remainingLife never drops below one year.
func sumOfYears(asset domain.FixedAsset, yearsElapsed int) decimal.Decimal {
	life := int64(asset.UsefulLifeYears)
	depreciableBase := asset.AcquisitionCost.Sub(asset.SalvageValue)
	sum := decimal.NewFromInt(life * (life + 1) / 2)
	remainingLife := life - int64(yearsElapsed)
	if remainingLife < 1 {
		remainingLife = 1
	}
	return depreciableBase.Mul(decimal.NewFromInt(remainingLife)).Div(sum)
}

// monthsInPeriod is the inclusive month count of [start, end]:
// January through March is 3 months regardless of the days involved.
func monthsInPeriod(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}

// wholeYearsBetween counts complete years from a to b, by calendar date.
func wholeYearsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	years := b.Year() - a.Year()
	anniversary := a.AddDate(years, 0, 0)
	if anniversary.After(b) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
