package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/dto"
)

func TestToTrialBalanceResponse_LocalizedTotals(t *testing.T) {
	report := &domain.TrialBalanceReport{
		Rows: []domain.TrialBalanceRow{
			{AccountID: "acc-1", AccountName: "Cash", AccountType: domain.Asset,
				Debit: decimal.NewFromFloat(1234.56), Credit: decimal.Zero},
		},
		TotalDebit:  decimal.NewFromFloat(1234.56),
		TotalCredit: decimal.NewFromFloat(1234.56),
		Balanced:    true,
	}
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	resp := dto.ToTrialBalanceResponse(report, asOf, "USD")

	assert.Equal(t, "2026-03-31", resp.AsOf)
	assert.Equal(t, "$1,234.56", resp.Totals.DebitDisplay)
	assert.Equal(t, "$1,234.56", resp.Totals.CreditDisplay)
	assert.True(t, resp.Balanced)
}

func TestToAgingResponse_LocalizedTotalBalance(t *testing.T) {
	report := &domain.AgingReport{
		AsOf:         time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalBalance: decimal.NewFromInt(225),
	}

	resp := dto.ToAgingResponse(report, "USD")

	assert.Equal(t, "$225.00", resp.TotalBalanceDisplay)
	assert.True(t, resp.TotalBalance.Equal(decimal.NewFromInt(225)))
}

func TestToVarianceResponse_DisplayFields(t *testing.T) {
	report := &domain.VarianceReport{
		Rows: []domain.VarianceRow{
			{
				BudgetActual: domain.BudgetActual{
					BudgetID: "bud-1",
					Name:     "Travel",
					Budgeted: decimal.NewFromInt(1000),
					Actual:   decimal.NewFromFloat(1123.45),
				},
				Variance:           decimal.NewFromFloat(-123.45),
				VariancePercentage: decimal.NewFromFloat(12.345),
				Favorable:          false,
				Status:             domain.VarianceHigh,
			},
		},
		TotalBudgeted: decimal.NewFromInt(1000),
		TotalActual:   decimal.NewFromFloat(1123.45),
		TotalVariance: decimal.NewFromFloat(-123.45),
	}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	resp := dto.ToVarianceResponse(report, from, to, "USD")

	assert.Equal(t, "12.35%", resp.Rows[0].PercentageDisplay)
	assert.Equal(t, "-$123.45", resp.Summary.TotalVarianceDisplay)
}
