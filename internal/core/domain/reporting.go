package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report.
// Debit and Credit are already converted to the report's base currency.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport is the folded trial balance with its balance check.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// AgingBucket is a time-since-due classification for receivables/payables.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "current"
	Bucket1To30   AgingBucket = "1-30_days"
	Bucket31To60  AgingBucket = "31-60_days"
	Bucket61To90  AgingBucket = "61-90_days"
	BucketOver90  AgingBucket = "over_90_days"
)

// AgingItem is one open receivable or payable to be bucketed.
// Amount and Balance are in the report currency.
type AgingItem struct {
	ItemID       string          `json:"itemID"`
	PartyName    string          `json:"partyName"`
	DueDate      time.Time       `json:"dueDate"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"` // Original currency, before conversion
}

// AgedItem is an AgingItem with its bucket assignment.
type AgedItem struct {
	AgingItem
	DaysPastDue int         `json:"daysPastDue"`
	Bucket      AgingBucket `json:"bucket"`
}

// AgingBucketSummary aggregates one bucket of an aging report.
type AgingBucketSummary struct {
	Bucket       AgingBucket     `json:"bucket"`
	ItemCount    int             `json:"itemCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// AgingReport is the full aging breakdown as of a given date.
type AgingReport struct {
	AsOf         time.Time            `json:"asOf"`
	Items        []AgedItem           `json:"items"`
	Buckets      []AgingBucketSummary `json:"buckets"`
	TotalBalance decimal.Decimal      `json:"totalBalance"`
}

// VarianceStatus is the qualitative banding of a budget variance.
type VarianceStatus string

const (
	VarianceCritical VarianceStatus = "critical"
	VarianceHigh     VarianceStatus = "high"
	VarianceMedium   VarianceStatus = "medium"
	VarianceLow      VarianceStatus = "low"
)

// BudgetActual pairs a budgeted amount with the actual amount recorded
// against it, both in the report currency.
type BudgetActual struct {
	BudgetID  string          `json:"budgetID"`
	Name      string          `json:"name"`
	AccountID string          `json:"accountID"`
	Budgeted  decimal.Decimal `json:"budgeted"`
	Actual    decimal.Decimal `json:"actual"`
}

// VarianceRow is one budget line with its computed variance.
type VarianceRow struct {
	BudgetActual
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
	Favorable          bool            `json:"favorable"`
	Status             VarianceStatus  `json:"status"`
}

// VarianceReport is the folded budget-vs-actual summary.
type VarianceReport struct {
	Rows          []VarianceRow   `json:"rows"`
	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	TotalActual   decimal.Decimal `json:"totalActual"`
	TotalVariance decimal.Decimal `json:"totalVariance"`
	CriticalCount int             `json:"criticalCount"`
}

// ReceivableRow is the raw reporting-repository shape for an open
// receivable, in its original currency.
type ReceivableRow struct {
	ReceivableID string          `json:"receivableID"`
	CustomerName string          `json:"customerName"`
	DueDate      time.Time       `json:"dueDate"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}

// PayableRow is the raw reporting-repository shape for an open vendor
// payable, in its original currency.
type PayableRow struct {
	PayableID    string          `json:"payableID"`
	VendorName   string          `json:"vendorName"`
	DueDate      time.Time       `json:"dueDate"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}

// BudgetRow is the raw reporting-repository shape for one budget line,
// in its original currency.
type BudgetRow struct {
	BudgetID     string          `json:"budgetID"`
	Name         string          `json:"name"`
	AccountID    string          `json:"accountID"`
	Budgeted     decimal.Decimal `json:"budgeted"`
	Actual       decimal.Decimal `json:"actual"`
	CurrencyCode string          `json:"currencyCode"`
}

// AccountBalanceRow is the raw reporting-repository shape for an
// account's posted debit/credit totals in its own currency.
type AccountBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}
