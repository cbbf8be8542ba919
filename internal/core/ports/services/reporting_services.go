package services

import (
	"context"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// reportCurrency selects the currency all amounts are converted into;
// rates are resolved once per distinct source currency per report.
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date.
	TrialBalance(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.TrialBalanceReport, error)

	// ReceivablesAging buckets open receivables by days past due as of a
	// specific date.
	ReceivablesAging(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.AgingReport, error)

	// PayablesAging buckets open vendor payables by days past due as of
	// a specific date.
	PayablesAging(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.AgingReport, error)

	// BudgetVariance compares budgeted and actual amounts for a period
	// with qualitative banding.
	BudgetVariance(ctx context.Context, from, to time.Time, reportCurrency string) (*domain.VarianceReport, error)
}
