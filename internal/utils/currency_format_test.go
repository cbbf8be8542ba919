package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/utils"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	usd := domain.Currency{CurrencyCode: "USD", Precision: 2}
	jpy := domain.Currency{CurrencyCode: "JPY", Precision: 0}

	assert.Equal(t, "12.35", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), usd))
	assert.Equal(t, "12", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), jpy))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "0.1235", utils.FormatWithPrecision(decimal.RequireFromString("0.123456"), 4))
	assert.Equal(t, "100", utils.FormatWithPrecision(decimal.NewFromInt(100), 0))
}

func TestFormatLocalized(t *testing.T) {
	assert.Equal(t, "$1,234.56", utils.FormatLocalized(decimal.RequireFromString("1234.56"), "USD"))

	// Unknown codes fall back to the plain decimal string.
	assert.Equal(t, "42.5", utils.FormatLocalized(decimal.RequireFromString("42.5"), "ZZZ"))
}

func TestPrecisionFor(t *testing.T) {
	assert.Equal(t, 2, utils.PrecisionFor("USD"))
	assert.Equal(t, 0, utils.PrecisionFor("JPY"))
	assert.Equal(t, 2, utils.PrecisionFor("ZZZ"))
}
