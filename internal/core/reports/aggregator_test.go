package reports_test

import (
	"testing"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/reports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTrialBalance_TotalsAndBalancedCheck(t *testing.T) {
	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", AccountType: domain.Asset, Debit: dec("1500"), Credit: decimal.Zero},
		{AccountID: "revenue", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: dec("1000")},
		{AccountID: "loans", AccountType: domain.Liability, Debit: decimal.Zero, Credit: dec("500")},
	}

	report := reports.TrialBalance(rows)

	assert.True(t, report.TotalDebit.Equal(dec("1500")))
	assert.True(t, report.TotalCredit.Equal(dec("1500")))
	assert.True(t, report.Balanced)
}

func TestTrialBalance_DifferenceWithinToleranceStillBalanced(t *testing.T) {
	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", Debit: dec("100.00")},
		{AccountID: "revenue", Credit: dec("99.99")},
	}

	assert.True(t, reports.TrialBalance(rows).Balanced)

	rows[1].Credit = dec("99.98")
	assert.False(t, reports.TrialBalance(rows).Balanced)
}

func TestBucketFor_Boundaries(t *testing.T) {
	cases := []struct {
		daysPastDue int
		want        domain.AgingBucket
	}{
		{1, domain.BucketCurrent},   // not yet due
		{0, domain.BucketCurrent},   // due exactly on the as-of date
		{-1, domain.Bucket1To30},    // one day past due
		{-30, domain.Bucket1To30},
		{-31, domain.Bucket31To60},
		{-60, domain.Bucket31To60},
		{-61, domain.Bucket61To90},
		{-90, domain.Bucket61To90},
		{-91, domain.BucketOver90},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reports.BucketFor(tc.daysPastDue), "daysPastDue=%d", tc.daysPastDue)
	}
}

func TestAging_AssignsBucketsRelativeToAsOf(t *testing.T) {
	asOf := date(2026, 6, 30)
	items := []domain.AgingItem{
		{ItemID: "r1", DueDate: date(2026, 6, 30), Balance: dec("100"), Amount: dec("100")},
		{ItemID: "r2", DueDate: date(2026, 6, 29), Balance: dec("200"), Amount: dec("200")},
		{ItemID: "r3", DueDate: date(2026, 5, 30), Balance: dec("300"), Amount: dec("300")},
		{ItemID: "r4", DueDate: date(2026, 2, 1), Balance: dec("400"), Amount: dec("400")},
	}

	report := reports.Aging(items, asOf)

	require.Len(t, report.Items, 4)
	assert.Equal(t, domain.BucketCurrent, report.Items[0].Bucket)
	assert.Equal(t, domain.Bucket1To30, report.Items[1].Bucket)
	assert.Equal(t, -1, report.Items[1].DaysPastDue)
	assert.Equal(t, domain.Bucket31To60, report.Items[2].Bucket)
	assert.Equal(t, domain.BucketOver90, report.Items[3].Bucket)
	assert.True(t, report.TotalBalance.Equal(dec("1000")))

	require.Len(t, report.Buckets, 4)
	assert.Equal(t, domain.BucketCurrent, report.Buckets[0].Bucket)
	assert.Equal(t, 1, report.Buckets[0].ItemCount)
	assert.Equal(t, domain.BucketOver90, report.Buckets[3].Bucket)
}

func TestVariance_BandingThresholds(t *testing.T) {
	cases := []struct {
		budgeted, actual string
		want             domain.VarianceStatus
	}{
		{"100", "79", domain.VarianceCritical}, // 21%
		{"100", "89", domain.VarianceHigh},     // 11%
		{"100", "94", domain.VarianceMedium},   // 6%
		{"100", "95", domain.VarianceLow},      // exactly 5% is low
		{"100", "100", domain.VarianceLow},
		{"100", "121", domain.VarianceCritical}, // overspend bands on absolute value
	}
	for _, tc := range cases {
		report := reports.Variance([]domain.BudgetActual{{
			BudgetID: "b",
			Budgeted: dec(tc.budgeted),
			Actual:   dec(tc.actual),
		}})
		require.Len(t, report.Rows, 1)
		assert.Equal(t, tc.want, report.Rows[0].Status, "budgeted=%s actual=%s", tc.budgeted, tc.actual)
	}
}

func TestVariance_TotalsAndOrdering(t *testing.T) {
	rows := []domain.BudgetActual{
		{BudgetID: "small", Budgeted: dec("1000"), Actual: dec("980")},  // 2%
		{BudgetID: "large", Budgeted: dec("1000"), Actual: dec("600")},  // 40%
		{BudgetID: "medium", Budgeted: dec("1000"), Actual: dec("1150")}, // -15%
	}

	report := reports.Variance(rows)

	assert.Equal(t, "large", report.Rows[0].BudgetID)
	assert.Equal(t, "medium", report.Rows[1].BudgetID)
	assert.Equal(t, "small", report.Rows[2].BudgetID)

	assert.True(t, report.TotalBudgeted.Equal(dec("3000")))
	assert.True(t, report.TotalActual.Equal(dec("2730")))
	assert.True(t, report.TotalVariance.Equal(dec("270")))
	assert.Equal(t, 1, report.CriticalCount)

	assert.True(t, report.Rows[0].Favorable)
	assert.False(t, report.Rows[1].Favorable)
}

func TestVariance_ZeroBudgetHasZeroPercentage(t *testing.T) {
	report := reports.Variance([]domain.BudgetActual{{
		BudgetID: "b",
		Budgeted: decimal.Zero,
		Actual:   dec("50"),
	}})

	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].VariancePercentage.IsZero())
	assert.Equal(t, domain.VarianceLow, report.Rows[0].Status)
}
