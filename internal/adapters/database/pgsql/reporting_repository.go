package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finacct/ledgercore/internal/core/domain"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
)

// PgxReportingRepository implements the reporting repository using pgxpool.
// Reports aggregate posted entries only; drafts never hit a report.
type PgxReportingRepository struct {
	basePgxRepository
}

// NewReportingRepository creates a new PgxReportingRepository.
func NewReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{basePgxRepository{pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountBalances retrieves per-account posted debit/credit totals as
// of a specific date, in the account's currency.
func (r *PgxReportingRepository) GetAccountBalances(ctx context.Context, asOf time.Time) ([]domain.AccountBalanceRow, error) {
	// Lines store base-currency amounts, so the aggregate is reported in
	// the entry's base currency.
	query := `
		SELECT a.account_id, a.name, a.account_type, e.base_currency_code,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status IN ($1, $2) AND e.entry_date <= $3
		GROUP BY a.account_id, a.name, a.account_type, e.base_currency_code
		ORDER BY a.name;
	`
	rows, err := r.pool.Query(ctx, query, domain.Posted, domain.Reversed, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query account balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.AccountBalanceRow{}
	for rows.Next() {
		var row domain.AccountBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.AccountType, &row.CurrencyCode, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account balance row: %w", err)
		}
		balances = append(balances, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balance rows: %w", err)
	}
	return balances, nil
}

// GetOpenReceivables retrieves receivables with a nonzero balance as of a
// specific date.
func (r *PgxReportingRepository) GetOpenReceivables(ctx context.Context, asOf time.Time) ([]domain.ReceivableRow, error) {
	query := `
		SELECT receivable_id, customer_name, due_date, amount, balance, currency_code
		FROM receivables
		WHERE balance <> 0 AND issued_date <= $1
		ORDER BY due_date, receivable_id;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query open receivables: %w", err)
	}
	defer rows.Close()

	receivables := []domain.ReceivableRow{}
	for rows.Next() {
		var row domain.ReceivableRow
		if err := rows.Scan(&row.ReceivableID, &row.CustomerName, &row.DueDate, &row.Amount, &row.Balance, &row.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to scan receivable row: %w", err)
		}
		receivables = append(receivables, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receivable rows: %w", err)
	}
	return receivables, nil
}

// GetOpenPayables retrieves vendor payables with a nonzero balance as
// of a specific date.
func (r *PgxReportingRepository) GetOpenPayables(ctx context.Context, asOf time.Time) ([]domain.PayableRow, error) {
	query := `
		SELECT payable_id, vendor_name, due_date, amount, balance, currency_code
		FROM payables
		WHERE balance <> 0 AND issued_date <= $1
		ORDER BY due_date, payable_id;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query open payables: %w", err)
	}
	defer rows.Close()

	payables := []domain.PayableRow{}
	for rows.Next() {
		var row domain.PayableRow
		if err := rows.Scan(&row.PayableID, &row.VendorName, &row.DueDate, &row.Amount, &row.Balance, &row.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to scan payable row: %w", err)
		}
		payables = append(payables, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payable rows: %w", err)
	}
	return payables, nil
}

// GetBudgetActuals retrieves budget lines with the posted activity on
// their account over the period.
func (r *PgxReportingRepository) GetBudgetActuals(ctx context.Context, from, to time.Time) ([]domain.BudgetRow, error) {
	// Lines must be filtered by their qualifying entry before joining
	// onto budgets; filtering in the outer join's ON clause would keep
	// draft and out-of-period line amounts in the sum.
	query := `
		SELECT b.budget_id, b.name, b.account_id, b.amount, b.currency_code,
		       COALESCE(SUM(x.debit_amount - x.credit_amount), 0)
		FROM budgets b
		LEFT JOIN (
			SELECT l.account_id, l.debit_amount, l.credit_amount
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status IN ($2, $3) AND e.entry_date BETWEEN $1 AND $4
		) x ON x.account_id = b.account_id
		WHERE b.period_start <= $4 AND b.period_end >= $1
		GROUP BY b.budget_id, b.name, b.account_id, b.amount, b.currency_code
		ORDER BY b.name;
	`
	rows, err := r.pool.Query(ctx, query, from, domain.Posted, domain.Reversed, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget actuals: %w", err)
	}
	defer rows.Close()

	budgets := []domain.BudgetRow{}
	for rows.Next() {
		var row domain.BudgetRow
		if err := rows.Scan(&row.BudgetID, &row.Name, &row.AccountID, &row.Budgeted, &row.CurrencyCode, &row.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return budgets, nil
}
