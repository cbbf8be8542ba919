package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry represents a single financial event composed of multiple
// lines. An entry starts as Draft; posting re-checks the base-currency
// balance and makes the entry immutable. Corrections happen through a
// reversing entry, never by editing a posted one.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`     // Primary Key (e.g., UUID)
	EntryNumber      string        `json:"entryNumber"` // Human-facing reference, e.g. "JE-2026-0001"
	EntryDate        time.Time     `json:"entryDate"`   // Date the event occurred
	Description      string        `json:"description"` // Nullable user description
	BaseCurrencyCode string        `json:"baseCurrencyCode"`
	Status           JournalStatus `json:"status"`
	ReferenceType    string        `json:"referenceType,omitempty"` // e.g. "AssetDepreciation"
	ReferenceID      string        `json:"referenceID,omitempty"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on a reversal, points at the entry it reverses
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on a reversed entry, points at its reversal
	AuditFields
}

// JournalLine is a single debit or credit within a JournalEntry.
// Exactly one of DebitAmount/CreditAmount is nonzero. DebitAmount and
// CreditAmount are stored in base currency; for a non-base line,
// ForeignAmount carries the original amount in the line currency and
// ExchangeRate the rate used to produce the base amounts.
type JournalLine struct {
	LineID        string           `json:"lineID"`  // Primary Key (e.g., UUID)
	EntryID       string           `json:"entryID"` // FK -> JournalEntry.entryID
	AccountID     string           `json:"accountID"`
	DebitAmount   decimal.Decimal  `json:"debitAmount"`
	CreditAmount  decimal.Decimal  `json:"creditAmount"`
	CurrencyCode  string           `json:"currencyCode"` // Currency the line was entered in
	ForeignAmount *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	Description   string           `json:"description"`
	AuditFields
}

// IsDebit reports whether the line is the debit side of the entry.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}
