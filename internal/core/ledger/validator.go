// Package ledger holds the multi-currency balance rules every posting
// path goes through. The tolerance and validation live here and only
// here; entry creation, posting and reconciliation all call Validate
// rather than re-implementing the check.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed |debits - credits| in base
// currency units for an entry to count as balanced. The single source of
// truth for "balanced" across the whole system.
var BalanceTolerance = decimal.RequireFromString("0.01")

// MissingExchangeRateError is returned when a line currency has no
// resolvable rate to the base currency on the entry date.
type MissingExchangeRateError struct {
	CurrencyCode string
}

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("no exchange rate to base currency for %s", e.CurrencyCode)
}

// MissingForeignAmountError is returned when a non-base-currency line
// lacks a positive foreign amount.
type MissingForeignAmountError struct {
	LineIndex int
}

func (e *MissingForeignAmountError) Error() string {
	return fmt.Sprintf("line %d is in a foreign currency but has no positive foreign amount", e.LineIndex)
}

// UnbalancedError is returned when base-currency debits and credits
// differ by more than BalanceTolerance.
type UnbalancedError struct {
	Difference decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("total debits must equal total credits in base currency (difference %s)", e.Difference.String())
}

// ConvertedLine carries the base-currency amounts actually persisted for
// one input line, plus the rate that produced them.
type ConvertedLine struct {
	LineIndex    int
	AccountID    string
	BaseDebit    decimal.Decimal
	BaseCredit   decimal.Decimal
	CurrencyCode string
	ExchangeRate decimal.Decimal
}

// Validator enforces the multi-currency posting rules of a journal entry.
type Validator struct {
	resolver *fx.Resolver
}

// NewValidator creates a Validator over the given rate resolver.
func NewValidator(resolver *fx.Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate checks the proposed lines against the posting rules and, on
// success, returns the per-line base-currency amounts.
//
// Rules, in order:
//  1. every distinct non-base currency must have a resolvable rate on
//     entryDate (resolved once per currency, not per line);
//  2. every non-base line must carry a positive foreign amount;
//  3. |sum(base debits) - sum(base credits)| must be within
//     BalanceTolerance.
//
// Each line must be exclusively a debit or a credit with a non-negative
// amount; violations fail with apperrors.ErrValidation before any
// conversion happens.
func (v *Validator) Validate(ctx context.Context, lines []domain.JournalLine, baseCurrencyCode string, entryDate time.Time) ([]ConvertedLine, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	}

	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i)
		}
		debit := line.DebitAmount.IsPositive()
		credit := line.CreditAmount.IsPositive()
		if debit == credit {
			return nil, fmt.Errorf("%w: line %d must be exactly one of debit or credit", apperrors.ErrValidation, i)
		}
	}

	// One resolution per distinct currency; all lines of an entry use the
	// same point-in-time rates.
	rates := map[string]decimal.Decimal{
		baseCurrencyCode: decimal.NewFromInt(1),
	}
	for _, line := range lines {
		currency := line.CurrencyCode
		if currency == "" {
			currency = baseCurrencyCode
		}
		if _, ok := rates[currency]; ok {
			continue
		}
		res, err := v.resolver.Resolve(ctx, currency, baseCurrencyCode, entryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", &MissingExchangeRateError{CurrencyCode: currency}, err)
		}
		rates[currency] = res.Rate
	}

	for i, line := range lines {
		if line.CurrencyCode == "" || line.CurrencyCode == baseCurrencyCode {
			continue
		}
		if line.ForeignAmount == nil || !line.ForeignAmount.IsPositive() {
			return nil, &MissingForeignAmountError{LineIndex: i}
		}
	}

	converted := make([]ConvertedLine, len(lines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		currency := line.CurrencyCode
		if currency == "" {
			currency = baseCurrencyCode
		}
		rate := rates[currency]

		baseDebit := line.DebitAmount.Mul(rate)
		baseCredit := line.CreditAmount.Mul(rate)
		totalDebit = totalDebit.Add(baseDebit)
		totalCredit = totalCredit.Add(baseCredit)

		converted[i] = ConvertedLine{
			LineIndex:    i,
			AccountID:    line.AccountID,
			BaseDebit:    baseDebit,
			BaseCredit:   baseCredit,
			CurrencyCode: currency,
			ExchangeRate: rate,
		}
	}

	if diff := totalDebit.Sub(totalCredit).Abs(); diff.GreaterThan(BalanceTolerance) {
		return nil, &UnbalancedError{Difference: totalDebit.Sub(totalCredit)}
	}

	return converted, nil
}
