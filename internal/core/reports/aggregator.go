// Package reports folds already-converted ledger and asset data into
// report shapes. Everything here is a deterministic reduction with no
// I/O: rates are resolved by the caller once per distinct currency
// (fx.BuildRateTable), never re-queried per row inside a fold.
package reports

import (
	"sort"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// TrialBalance folds per-account rows (already in the report currency)
// into a trial balance. The balanced check reuses the ledger's central
// tolerance.
func TrialBalance(rows []domain.TrialBalanceRow) domain.TrialBalanceReport {
	report := domain.TrialBalanceReport{
		Rows:        rows,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	diff := report.TotalDebit.Sub(report.TotalCredit).Abs()
	report.Balanced = diff.LessThanOrEqual(ledger.BalanceTolerance)
	return report
}

// BucketFor classifies days-past-due into an aging bucket. daysPastDue
// follows the due-date-minus-as-of convention: zero or positive means
// not yet due ("current"), negative means overdue.
func BucketFor(daysPastDue int) domain.AgingBucket {
	switch {
	case daysPastDue >= 0:
		return domain.BucketCurrent
	case daysPastDue >= -30:
		return domain.Bucket1To30
	case daysPastDue >= -60:
		return domain.Bucket31To60
	case daysPastDue >= -90:
		return domain.Bucket61To90
	default:
		return domain.BucketOver90
	}
}

// bucketOrder fixes the presentation order of aging buckets.
var bucketOrder = []domain.AgingBucket{
	domain.BucketCurrent,
	domain.Bucket1To30,
	domain.Bucket31To60,
	domain.Bucket61To90,
	domain.BucketOver90,
}

// Aging assigns each item to a bucket relative to asOf and summarizes
// per bucket. Item amounts are already in the report currency.
func Aging(items []domain.AgingItem, asOf time.Time) domain.AgingReport {
	report := domain.AgingReport{
		AsOf:         asOf,
		Items:        make([]domain.AgedItem, len(items)),
		TotalBalance: decimal.Zero,
	}

	summaries := make(map[domain.AgingBucket]*domain.AgingBucketSummary)
	for i, item := range items {
		days := daysBetween(asOf, item.DueDate)
		bucket := BucketFor(days)
		report.Items[i] = domain.AgedItem{
			AgingItem:   item,
			DaysPastDue: days,
			Bucket:      bucket,
		}
		report.TotalBalance = report.TotalBalance.Add(item.Balance)

		s, ok := summaries[bucket]
		if !ok {
			s = &domain.AgingBucketSummary{
				Bucket:       bucket,
				TotalAmount:  decimal.Zero,
				TotalBalance: decimal.Zero,
			}
			summaries[bucket] = s
		}
		s.ItemCount++
		s.TotalAmount = s.TotalAmount.Add(item.Amount)
		s.TotalBalance = s.TotalBalance.Add(item.Balance)
	}

	for _, bucket := range bucketOrder {
		if s, ok := summaries[bucket]; ok {
			report.Buckets = append(report.Buckets, *s)
		}
	}
	return report
}

// daysBetween is dueDate minus asOf in whole days, using the dates only.
func daysBetween(asOf, dueDate time.Time) int {
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(a).Hours() / 24)
}

// StatusFor bands an absolute variance percentage into a qualitative
// status: >20 critical, >10 high, >5 medium, else low.
func StatusFor(variancePercentage decimal.Decimal) domain.VarianceStatus {
	abs := variancePercentage.Abs()
	switch {
	case abs.GreaterThan(decimal.NewFromInt(20)):
		return domain.VarianceCritical
	case abs.GreaterThan(decimal.NewFromInt(10)):
		return domain.VarianceHigh
	case abs.GreaterThan(decimal.NewFromInt(5)):
		return domain.VarianceMedium
	default:
		return domain.VarianceLow
	}
}

// Variance computes budget-vs-actual variances with qualitative banding,
// sorted by absolute variance percentage, highest first. Inputs are
// already in the report currency.
func Variance(rows []domain.BudgetActual) domain.VarianceReport {
	report := domain.VarianceReport{
		Rows:          make([]domain.VarianceRow, len(rows)),
		TotalBudgeted: decimal.Zero,
		TotalActual:   decimal.Zero,
		TotalVariance: decimal.Zero,
	}

	hundred := decimal.NewFromInt(100)
	for i, row := range rows {
		variance := row.Budgeted.Sub(row.Actual)
		pct := decimal.Zero
		if !row.Budgeted.IsZero() {
			pct = variance.Div(row.Budgeted).Mul(hundred)
		}
		status := StatusFor(pct)

		report.Rows[i] = domain.VarianceRow{
			BudgetActual:       row,
			Variance:           variance,
			VariancePercentage: pct,
			Favorable:          variance.IsPositive(),
			Status:             status,
		}
		report.TotalBudgeted = report.TotalBudgeted.Add(row.Budgeted)
		report.TotalActual = report.TotalActual.Add(row.Actual)
		report.TotalVariance = report.TotalVariance.Add(variance)
		if status == domain.VarianceCritical {
			report.CriticalCount++
		}
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].VariancePercentage.Abs().GreaterThan(report.Rows[j].VariancePercentage.Abs())
	})
	return report
}
