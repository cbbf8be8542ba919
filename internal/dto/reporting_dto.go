package dto

import (
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/utils"
	"github.com/shopspring/decimal"
)

// ReportParams defines the common query parameters for as-of reports.
// CurrencyCode selects the report currency; it defaults to the
// configured base currency.
type ReportParams struct {
	AsOf         *time.Time `form:"asOf" time_format:"2006-01-02"`
	CurrencyCode string     `form:"currencyCode" binding:"omitempty,len=3,uppercase"`
}

// VarianceParams defines the query parameters for the variance report.
type VarianceParams struct {
	From         time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To           time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	CurrencyCode string    `form:"currencyCode" binding:"omitempty,len=3,uppercase"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf         string                    `json:"asOf"`
	CurrencyCode string                    `json:"currencyCode"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	Totals       struct {
		Debit         decimal.Decimal `json:"debit"`
		Credit        decimal.Decimal `json:"credit"`
		DebitDisplay  string          `json:"debitDisplay"`
		CreditDisplay string          `json:"creditDisplay"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// AgedItemResponse represents one bucketed receivable in the aging response
type AgedItemResponse struct {
	ItemID      string          `json:"itemID"`
	PartyName   string          `json:"partyName"`
	DueDate     string          `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	DaysPastDue int             `json:"daysPastDue"`
	Bucket      string          `json:"bucket"`
}

// AgingBucketResponse summarizes one bucket of the aging response
type AgingBucketResponse struct {
	Bucket       string          `json:"bucket"`
	ItemCount    int             `json:"itemCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// AgingResponse represents the receivables aging report response
type AgingResponse struct {
	AsOf                string                `json:"asOf"`
	CurrencyCode        string                `json:"currencyCode"`
	Items               []AgedItemResponse    `json:"items"`
	Buckets             []AgingBucketResponse `json:"buckets"`
	TotalBalance        decimal.Decimal       `json:"totalBalance"`
	TotalBalanceDisplay string                `json:"totalBalanceDisplay"`
}

// VarianceRowResponse represents one budget line in the variance response
type VarianceRowResponse struct {
	BudgetID           string          `json:"budgetID"`
	Name               string          `json:"name"`
	AccountID          string          `json:"accountID"`
	Budgeted           decimal.Decimal `json:"budgeted"`
	Actual             decimal.Decimal `json:"actual"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
	PercentageDisplay  string          `json:"percentageDisplay"`
	Favorable          bool            `json:"favorable"`
	Status             string          `json:"status"`
}

// VarianceResponse represents the budget variance report response
type VarianceResponse struct {
	FromDate     string                `json:"fromDate"`
	ToDate       string                `json:"toDate"`
	CurrencyCode string                `json:"currencyCode"`
	Rows         []VarianceRowResponse `json:"rows"`
	Summary      struct {
		TotalBudgeted        decimal.Decimal `json:"totalBudgeted"`
		TotalActual          decimal.Decimal `json:"totalActual"`
		TotalVariance        decimal.Decimal `json:"totalVariance"`
		TotalVarianceDisplay string          `json:"totalVarianceDisplay"`
		CriticalCount        int             `json:"criticalCount"`
	} `json:"summary"`
}

// ToTrialBalanceResponse converts a domain trial balance report to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport, asOf time.Time, currencyCode string) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:         asOf.Format("2006-01-02"),
		CurrencyCode: currencyCode,
		Rows:         make([]TrialBalanceRowResponse, len(report.Rows)),
		Balanced:     report.Balanced,
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	response.Totals.DebitDisplay = utils.FormatLocalized(report.TotalDebit, currencyCode)
	response.Totals.CreditDisplay = utils.FormatLocalized(report.TotalCredit, currencyCode)
	return response
}

// ToAgingResponse converts a domain aging report to a DTO response
func ToAgingResponse(report *domain.AgingReport, currencyCode string) AgingResponse {
	response := AgingResponse{
		AsOf:                report.AsOf.Format("2006-01-02"),
		CurrencyCode:        currencyCode,
		Items:               make([]AgedItemResponse, len(report.Items)),
		Buckets:             make([]AgingBucketResponse, len(report.Buckets)),
		TotalBalance:        report.TotalBalance,
		TotalBalanceDisplay: utils.FormatLocalized(report.TotalBalance, currencyCode),
	}
	for i, item := range report.Items {
		response.Items[i] = AgedItemResponse{
			ItemID:      item.ItemID,
			PartyName:   item.PartyName,
			DueDate:     item.DueDate.Format("2006-01-02"),
			Amount:      item.Amount,
			Balance:     item.Balance,
			DaysPastDue: item.DaysPastDue,
			Bucket:      string(item.Bucket),
		}
	}
	for i, bucket := range report.Buckets {
		response.Buckets[i] = AgingBucketResponse{
			Bucket:       string(bucket.Bucket),
			ItemCount:    bucket.ItemCount,
			TotalAmount:  bucket.TotalAmount,
			TotalBalance: bucket.TotalBalance,
		}
	}
	return response
}

// ToVarianceResponse converts a domain variance report to a DTO response
func ToVarianceResponse(report *domain.VarianceReport, from, to time.Time, currencyCode string) VarianceResponse {
	response := VarianceResponse{
		FromDate:     from.Format("2006-01-02"),
		ToDate:       to.Format("2006-01-02"),
		CurrencyCode: currencyCode,
		Rows:         make([]VarianceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = VarianceRowResponse{
			BudgetID:           row.BudgetID,
			Name:               row.Name,
			AccountID:          row.AccountID,
			Budgeted:           row.Budgeted,
			Actual:             row.Actual,
			Variance:           row.Variance,
			VariancePercentage: row.VariancePercentage,
			PercentageDisplay:  utils.FormatWithPrecision(row.VariancePercentage, 2) + "%",
			Favorable:          row.Favorable,
			Status:             string(row.Status),
		}
	}
	response.Summary.TotalBudgeted = report.TotalBudgeted
	response.Summary.TotalActual = report.TotalActual
	response.Summary.TotalVariance = report.TotalVariance
	response.Summary.TotalVarianceDisplay = utils.FormatLocalized(report.TotalVariance, currencyCode)
	response.Summary.CriticalCount = report.CriticalCount
	return response
}
