package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 12.3456 with JPY (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(int32(currency.Precision)).String()
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

// FormatLocalized renders an amount with the currency's symbol and
// grouping, e.g. "$1,234.56" for USD. Unknown codes fall back to the
// plain decimal string.
func FormatLocalized(amount decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return amount.String()
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currencyCode).Display()
}

// PrecisionFor returns the display precision registered for a currency
// code, defaulting to 2 for unknown codes.
func PrecisionFor(currencyCode string) int {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return 2
	}
	return cur.Fraction
}
