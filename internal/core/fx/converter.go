package fx

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is the result of converting an amount between currencies.
// Amount is unrounded; rounding is a presentation concern applied by
// callers so that chained conversions do not compound rounding error.
type Conversion struct {
	Amount   decimal.Decimal
	RateUsed decimal.Decimal
}

// Converter converts decimal amounts between currencies using the
// resolver's historical rates.
type Converter struct {
	resolver *Resolver
}

// NewConverter creates a Converter over the given resolver.
func NewConverter(resolver *Resolver) *Converter {
	return &Converter{resolver: resolver}
}

// Convert converts amount from one currency to another as of date,
// reporting the rate used. The amount is not rounded.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrencyCode, toCurrencyCode string, date time.Time) (Conversion, error) {
	res, err := c.resolver.Resolve(ctx, fromCurrencyCode, toCurrencyCode, date)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{
		Amount:   amount.Mul(res.Rate),
		RateUsed: res.Rate,
	}, nil
}

// RateTable holds rates pre-resolved once per distinct currency for a
// fixed target currency and date. Report folds use it so that a rate is
// never re-resolved per row.
type RateTable struct {
	ToCurrencyCode string
	Date           time.Time
	rates          map[string]decimal.Decimal
}

// BuildRateTable resolves the rate to target for every distinct currency
// in currencyCodes, exactly once each. Resolution failures propagate;
// callers that want per-currency leniency filter their inputs first.
func BuildRateTable(ctx context.Context, resolver *Resolver, currencyCodes []string, toCurrencyCode string, date time.Time) (*RateTable, error) {
	t := &RateTable{
		ToCurrencyCode: toCurrencyCode,
		Date:           date,
		rates:          make(map[string]decimal.Decimal, len(currencyCodes)),
	}
	for _, code := range currencyCodes {
		if _, ok := t.rates[code]; ok {
			continue
		}
		res, err := resolver.Resolve(ctx, code, toCurrencyCode, date)
		if err != nil {
			return nil, err
		}
		t.rates[code] = res.Rate
	}
	return t, nil
}

// Convert converts amount from the given currency using the table's
// pre-resolved rate. The boolean is false when the currency was not in
// the table.
func (t *RateTable) Convert(currencyCode string, amount decimal.Decimal) (decimal.Decimal, bool) {
	rate, ok := t.rates[currencyCode]
	if !ok {
		return decimal.Decimal{}, false
	}
	return amount.Mul(rate), true
}

// Rate returns the pre-resolved rate for a currency.
func (t *RateTable) Rate(currencyCode string) (decimal.Decimal, bool) {
	rate, ok := t.rates[currencyCode]
	return rate, ok
}
