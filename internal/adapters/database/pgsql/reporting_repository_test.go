package pgsql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finacct/ledgercore/internal/adapters/database/pgsql"
	"github.com/finacct/ledgercore/internal/core/domain"
)

// newTestPool connects to the database named by LEDGER_TEST_DATABASE_URL.
// The schema must already be migrated. Tests are skipped when the
// variable is unset so the package stays runnable without a database.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func mustExec(t *testing.T, pool *pgxpool.Pool, query string, args ...any) {
	t.Helper()
	_, err := pool.Exec(context.Background(), query, args...)
	require.NoError(t, err)
}

func insertEntry(t *testing.T, pool *pgxpool.Pool, entryID string, entryDate time.Time, status domain.JournalStatus) {
	t.Helper()
	mustExec(t, pool, `
		INSERT INTO journal_entries (entry_id, entry_number, entry_date, base_currency_code, status,
		                             created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 'USD', $4, now(), 'test', now(), 'test')`,
		entryID, "TEST-"+entryID[:8], entryDate, status)
}

func insertLine(t *testing.T, pool *pgxpool.Pool, entryID, accountID string, debit, credit int64) {
	t.Helper()
	mustExec(t, pool, `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit_amount, credit_amount, currency_code,
		                                 created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, 'USD', now(), 'test', now(), 'test')`,
		uuid.NewString(), entryID, accountID, debit, credit)
}

// The actuals sum must only pick up lines of posted or reversed entries
// dated inside the budget query period. Draft activity and activity
// outside the period stay out of the sum, and a budget whose account has
// no qualifying activity still comes back with a zero actual.
func TestGetBudgetActuals_OnlyPostedInPeriodActivity(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := pgsql.NewReportingRepository(pool)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	activeAccountID := uuid.NewString()
	idleAccountID := uuid.NewString()
	activeBudgetID := uuid.NewString()
	idleBudgetID := uuid.NewString()
	postedEntryID := uuid.NewString()
	draftEntryID := uuid.NewString()
	lateEntryID := uuid.NewString()

	mustExec(t, pool, `INSERT INTO currencies (currency_code, name, symbol, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ('USD', 'US Dollar', '$', 2, now(), 'test', now(), 'test') ON CONFLICT (currency_code) DO NOTHING`)
	for _, accountID := range []string{activeAccountID, idleAccountID} {
		mustExec(t, pool, `INSERT INTO accounts (account_id, name, account_type, currency_code, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, 'EXPENSE', 'USD', now(), 'test', now(), 'test')`, accountID, "Expense "+accountID[:8])
	}
	mustExec(t, pool, `INSERT INTO budgets (budget_id, name, account_id, amount, currency_code, period_start, period_end,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 1000, 'USD', $4, $5, now(), 'test', now(), 'test')`,
		activeBudgetID, "Budget "+activeBudgetID[:8], activeAccountID, from, to)
	mustExec(t, pool, `INSERT INTO budgets (budget_id, name, account_id, amount, currency_code, period_start, period_end,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 500, 'USD', $4, $5, now(), 'test', now(), 'test')`,
		idleBudgetID, "Budget "+idleBudgetID[:8], idleAccountID, from, to)

	insertEntry(t, pool, postedEntryID, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), domain.Posted)
	insertLine(t, pool, postedEntryID, activeAccountID, 100, 0)
	insertEntry(t, pool, draftEntryID, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), domain.Draft)
	insertLine(t, pool, draftEntryID, activeAccountID, 50, 0)
	insertEntry(t, pool, lateEntryID, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), domain.Posted)
	insertLine(t, pool, lateEntryID, activeAccountID, 25, 0)

	t.Cleanup(func() {
		mustExec(t, pool, `DELETE FROM journal_entries WHERE entry_id = ANY($1)`,
			[]string{postedEntryID, draftEntryID, lateEntryID})
		mustExec(t, pool, `DELETE FROM budgets WHERE budget_id = ANY($1)`,
			[]string{activeBudgetID, idleBudgetID})
		mustExec(t, pool, `DELETE FROM accounts WHERE account_id = ANY($1)`,
			[]string{activeAccountID, idleAccountID})
	})

	rows, err := repo.GetBudgetActuals(ctx, from, to)
	require.NoError(t, err)

	byID := make(map[string]domain.BudgetRow, len(rows))
	for _, row := range rows {
		byID[row.BudgetID] = row
	}

	active, ok := byID[activeBudgetID]
	require.True(t, ok, "budget with activity missing from result")
	require.True(t, active.Budgeted.Equal(decimal.NewFromInt(1000)), "budgeted was %s", active.Budgeted)
	require.True(t, active.Actual.Equal(decimal.NewFromInt(100)), "actual was %s", active.Actual)

	idle, ok := byID[idleBudgetID]
	require.True(t, ok, "budget without activity missing from result")
	require.True(t, idle.Actual.IsZero(), "actual was %s", idle.Actual)
}
