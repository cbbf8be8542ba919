package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/reports"
)

// reportingService generates financial reports. Each report resolves
// rates exactly once per distinct source currency (one rate table per
// report), then folds rows with the pure reports package.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	resolver      *fx.Resolver
	baseCurrency  string
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, rateLookup fx.RateLookup, baseCurrency string) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		resolver:      fx.NewResolver(rateLookup),
		baseCurrency:  baseCurrency,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// reportCurrencyOrDefault normalizes the requested report currency,
// defaulting to the ledger's base currency.
func (s *reportingService) reportCurrencyOrDefault(reportCurrency string) string {
	if reportCurrency == "" {
		return s.baseCurrency
	}
	return strings.ToUpper(reportCurrency)
}

// TrialBalance generates a trial balance report as of a specific date.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.TrialBalanceReport, error) {
	currency := s.reportCurrencyOrDefault(reportCurrency)

	balances, err := s.reportingRepo.GetAccountBalances(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load account balances: %w", err)
	}

	codes := make([]string, len(balances))
	for i, row := range balances {
		codes[i] = row.CurrencyCode
	}
	table, err := fx.BuildRateTable(ctx, s.resolver, codes, currency, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for trial balance: %w", err)
	}

	rows := make([]domain.TrialBalanceRow, len(balances))
	for i, row := range balances {
		debit, _ := table.Convert(row.CurrencyCode, row.Debit)
		credit, _ := table.Convert(row.CurrencyCode, row.Credit)
		rows[i] = domain.TrialBalanceRow{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			AccountType: row.AccountType,
			Debit:       debit,
			Credit:      credit,
		}
	}

	report := reports.TrialBalance(rows)
	s.LogInfo(ctx, "trial balance generated", "as_of", asOf.Format("2006-01-02"),
		"rows", len(rows), "balanced", report.Balanced)
	return &report, nil
}

// ReceivablesAging buckets open receivables by days past due.
func (s *reportingService) ReceivablesAging(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.AgingReport, error) {
	currency := s.reportCurrencyOrDefault(reportCurrency)

	receivables, err := s.reportingRepo.GetOpenReceivables(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load open receivables: %w", err)
	}

	codes := make([]string, len(receivables))
	for i, row := range receivables {
		codes[i] = row.CurrencyCode
	}
	table, err := fx.BuildRateTable(ctx, s.resolver, codes, currency, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for aging report: %w", err)
	}

	items := make([]domain.AgingItem, len(receivables))
	for i, row := range receivables {
		amount, _ := table.Convert(row.CurrencyCode, row.Amount)
		balance, _ := table.Convert(row.CurrencyCode, row.Balance)
		items[i] = domain.AgingItem{
			ItemID:       row.ReceivableID,
			PartyName:    row.CustomerName,
			DueDate:      row.DueDate,
			Amount:       amount,
			Balance:      balance,
			CurrencyCode: row.CurrencyCode,
		}
	}

	report := reports.Aging(items, asOf)
	s.LogInfo(ctx, "receivables aging generated", "as_of", asOf.Format("2006-01-02"), "items", len(items))
	return &report, nil
}

// PayablesAging buckets open vendor payables by days past due.
func (s *reportingService) PayablesAging(ctx context.Context, asOf time.Time, reportCurrency string) (*domain.AgingReport, error) {
	currency := s.reportCurrencyOrDefault(reportCurrency)

	payables, err := s.reportingRepo.GetOpenPayables(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load open payables: %w", err)
	}

	codes := make([]string, len(payables))
	for i, row := range payables {
		codes[i] = row.CurrencyCode
	}
	table, err := fx.BuildRateTable(ctx, s.resolver, codes, currency, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for aging report: %w", err)
	}

	items := make([]domain.AgingItem, len(payables))
	for i, row := range payables {
		amount, _ := table.Convert(row.CurrencyCode, row.Amount)
		balance, _ := table.Convert(row.CurrencyCode, row.Balance)
		items[i] = domain.AgingItem{
			ItemID:       row.PayableID,
			PartyName:    row.VendorName,
			DueDate:      row.DueDate,
			Amount:       amount,
			Balance:      balance,
			CurrencyCode: row.CurrencyCode,
		}
	}

	report := reports.Aging(items, asOf)
	s.LogInfo(ctx, "payables aging generated", "as_of", asOf.Format("2006-01-02"), "items", len(items))
	return &report, nil
}

// BudgetVariance compares budgeted and actual amounts for a period.
func (s *reportingService) BudgetVariance(ctx context.Context, from, to time.Time, reportCurrency string) (*domain.VarianceReport, error) {
	currency := s.reportCurrencyOrDefault(reportCurrency)

	budgets, err := s.reportingRepo.GetBudgetActuals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget actuals: %w", err)
	}

	codes := make([]string, len(budgets))
	for i, row := range budgets {
		codes[i] = row.CurrencyCode
	}
	table, err := fx.BuildRateTable(ctx, s.resolver, codes, currency, to)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates for variance report: %w", err)
	}

	rows := make([]domain.BudgetActual, len(budgets))
	for i, row := range budgets {
		budgeted, _ := table.Convert(row.CurrencyCode, row.Budgeted)
		actual, _ := table.Convert(row.CurrencyCode, row.Actual)
		rows[i] = domain.BudgetActual{
			BudgetID:  row.BudgetID,
			Name:      row.Name,
			AccountID: row.AccountID,
			Budgeted:  budgeted,
			Actual:    actual,
		}
	}

	report := reports.Variance(rows)
	s.LogInfo(ctx, "budget variance generated", "from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"), "critical", report.CriticalCount)
	return &report, nil
}
