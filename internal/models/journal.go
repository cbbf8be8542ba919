package models

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

// JournalEntry represents a journal entry row. Lines live in
// journal_entry_lines and are loaded separately.
type JournalEntry struct {
	EntryID          string        `db:"entry_id"`
	EntryNumber      string        `db:"entry_number"`
	EntryDate        time.Time     `db:"entry_date"`
	Description      string        `db:"description"`
	BaseCurrencyCode string        `db:"base_currency_code"`
	Status           JournalStatus `db:"status"`
	ReferenceType    string        `db:"reference_type"` // Nullable
	ReferenceID      string        `db:"reference_id"`   // Nullable
	OriginalEntryID  *string       `db:"original_entry_id"`
	ReversingEntryID *string       `db:"reversing_entry_id"`
	AuditFields
}

// JournalLine is a single debit or credit row within a journal entry.
// Debit/credit amounts are stored in the entry's base currency; foreign
// lines additionally carry the entered amount and the applied rate.
type JournalLine struct {
	LineID        string           `db:"line_id"`
	EntryID       string           `db:"entry_id"`
	AccountID     string           `db:"account_id"`
	DebitAmount   decimal.Decimal  `db:"debit_amount"`
	CreditAmount  decimal.Decimal  `db:"credit_amount"`
	CurrencyCode  string           `db:"currency_code"`
	ForeignAmount *decimal.Decimal `db:"foreign_amount"`
	ExchangeRate  *decimal.Decimal `db:"exchange_rate"`
	Description   string           `db:"description"`
	AuditFields
}
