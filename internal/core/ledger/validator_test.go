package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/finacct/ledgercore/internal/core/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateStore struct {
	rows  []domain.ExchangeRate
	calls int
}

func (s *fakeRateStore) FindLatestRate(_ context.Context, from, to string, maxDate time.Time) (*domain.ExchangeRate, error) {
	s.calls++
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

func debitLine(account, currency, amount string) domain.JournalLine {
	l := domain.JournalLine{
		AccountID:    account,
		CurrencyCode: currency,
		DebitAmount:  dec(amount),
		CreditAmount: decimal.Zero,
	}
	if currency != "USD" {
		fa := dec(amount)
		l.ForeignAmount = &fa
	}
	return l
}

func creditLine(account, currency, amount string) domain.JournalLine {
	l := domain.JournalLine{
		AccountID:    account,
		CurrencyCode: currency,
		DebitAmount:  decimal.Zero,
		CreditAmount: dec(amount),
	}
	if currency != "USD" {
		fa := dec(amount)
		l.ForeignAmount = &fa
	}
	return l
}

func newValidator(rows ...domain.ExchangeRate) (*ledger.Validator, *fakeRateStore) {
	store := &fakeRateStore{rows: rows}
	return ledger.NewValidator(fx.NewResolver(store)), store
}

func eurUsd(rate string) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             dec(rate),
		DateEffective:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var entryDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestValidate_BalancedMultiCurrencyEntry(t *testing.T) {
	v, store := newValidator(eurUsd("1.25"))
	lines := []domain.JournalLine{
		debitLine("acct-cash", "EUR", "100"), // 125 USD
		debitLine("acct-fees", "USD", "25"),
		creditLine("acct-revenue", "USD", "150"),
	}

	converted, err := v.Validate(context.Background(), lines, "USD", entryDate)

	require.NoError(t, err)
	require.Len(t, converted, 3)
	assert.True(t, converted[0].BaseDebit.Equal(dec("125")))
	assert.True(t, converted[0].ExchangeRate.Equal(dec("1.25")))
	assert.True(t, converted[1].BaseDebit.Equal(dec("25")))
	assert.True(t, converted[2].BaseCredit.Equal(dec("150")))
	assert.Equal(t, 1, store.calls, "rate must be resolved once per distinct currency, not per line")
}

func TestValidate_WithinToleranceIsBalanced(t *testing.T) {
	v, _ := newValidator()
	lines := []domain.JournalLine{
		debitLine("a", "USD", "100.00"),
		creditLine("b", "USD", "99.99"),
	}

	_, err := v.Validate(context.Background(), lines, "USD", entryDate)

	assert.NoError(t, err)
}

func TestValidate_BeyondToleranceIsUnbalanced(t *testing.T) {
	v, _ := newValidator()
	lines := []domain.JournalLine{
		debitLine("a", "USD", "100.00"),
		creditLine("b", "USD", "99.98"),
	}

	_, err := v.Validate(context.Background(), lines, "USD", entryDate)

	var unbalanced *ledger.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, unbalanced.Difference.Equal(dec("0.02")))
}

func TestValidate_MissingRateFails(t *testing.T) {
	v, _ := newValidator() // no EUR rate stored
	lines := []domain.JournalLine{
		debitLine("a", "EUR", "100"),
		creditLine("b", "USD", "125"),
	}

	_, err := v.Validate(context.Background(), lines, "USD", entryDate)

	var missing *ledger.MissingExchangeRateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "EUR", missing.CurrencyCode)
}

func TestValidate_MissingForeignAmountFails(t *testing.T) {
	v, _ := newValidator(eurUsd("1.25"))
	foreign := debitLine("a", "EUR", "100")
	foreign.ForeignAmount = nil
	lines := []domain.JournalLine{
		foreign,
		creditLine("b", "USD", "125"),
	}

	_, err := v.Validate(context.Background(), lines, "USD", entryDate)

	var missing *ledger.MissingForeignAmountError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 0, missing.LineIndex)
}

func TestValidate_LineMustBeDebitOrCredit(t *testing.T) {
	v, _ := newValidator()

	both := domain.JournalLine{AccountID: "a", CurrencyCode: "USD", DebitAmount: dec("10"), CreditAmount: dec("10")}
	neither := domain.JournalLine{AccountID: "a", CurrencyCode: "USD"}
	other := creditLine("b", "USD", "10")

	_, err := v.Validate(context.Background(), []domain.JournalLine{both, other}, "USD", entryDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = v.Validate(context.Background(), []domain.JournalLine{neither, other}, "USD", entryDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidate_RequiresTwoLines(t *testing.T) {
	v, _ := newValidator()

	_, err := v.Validate(context.Background(), []domain.JournalLine{debitLine("a", "USD", "10")}, "USD", entryDate)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidate_PerturbedSyntheticEntries(t *testing.T) {
	// Constructed equal sides validate; pushing one side past the
	// tolerance flips the result.
	v, _ := newValidator(eurUsd("2"))

	balanced := []domain.JournalLine{
		debitLine("a", "EUR", "50"), // 100 USD
		debitLine("b", "USD", "40"),
		creditLine("c", "USD", "140"),
	}
	_, err := v.Validate(context.Background(), balanced, "USD", entryDate)
	require.NoError(t, err)

	perturbed := []domain.JournalLine{
		debitLine("a", "EUR", "50"),
		debitLine("b", "USD", "40"),
		creditLine("c", "USD", "140.02"),
	}
	_, err = v.Validate(context.Background(), perturbed, "USD", entryDate)
	var unbalanced *ledger.UnbalancedError
	assert.ErrorAs(t, err, &unbalanced)
}
