package repositories

import (
	"context"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
// Rows come back in their original currencies; conversion to the report
// currency happens in the service layer.
type ReportingRepository interface {
	// GetAccountBalances retrieves per-account posted debit/credit totals
	// as of a specific date.
	GetAccountBalances(ctx context.Context, asOf time.Time) ([]domain.AccountBalanceRow, error)

	// GetOpenReceivables retrieves receivables with a nonzero balance
	// as of a specific date.
	GetOpenReceivables(ctx context.Context, asOf time.Time) ([]domain.ReceivableRow, error)

	// GetOpenPayables retrieves vendor payables with a nonzero balance
	// as of a specific date.
	GetOpenPayables(ctx context.Context, asOf time.Time) ([]domain.PayableRow, error)

	// GetBudgetActuals retrieves budget lines with their actuals for a
	// specific period.
	GetBudgetActuals(ctx context.Context, from, to time.Time) ([]domain.BudgetRow, error)
}
