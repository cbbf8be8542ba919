package dto

import (
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit or credit within a new entry.
// Exactly one of debitAmount/creditAmount must be positive. For a line
// not in the entry's base currency, foreignAmount carries the original
// amount in currencyCode; the base amounts are derived server-side.
type CreateJournalLineRequest struct {
	AccountID     string           `json:"accountID" binding:"required"`
	DebitAmount   decimal.Decimal  `json:"debitAmount"`
	CreditAmount  decimal.Decimal  `json:"creditAmount"`
	CurrencyCode  string           `json:"currencyCode" binding:"required,len=3,uppercase"`
	ForeignAmount *decimal.Decimal `json:"foreignAmount,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// CreateJournalEntryRequest defines the structure for creating a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                  `json:"entryDate" binding:"required"`
	Description string                     `json:"description,omitempty"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit            int     `form:"limit,default=20"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals,default=false"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID        string           `json:"lineID"`
	AccountID     string           `json:"accountID"`
	DebitAmount   decimal.Decimal  `json:"debitAmount"`
	CreditAmount  decimal.Decimal  `json:"creditAmount"`
	CurrencyCode  string           `json:"currencyCode"`
	ForeignAmount *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string    `json:"entryID"`
	EntryNumber      string    `json:"entryNumber"`
	EntryDate        time.Time `json:"entryDate"`
	Description      string    `json:"description,omitempty"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	Status           string    `json:"status"`
	ReferenceType    string    `json:"referenceType,omitempty"`
	ReferenceID      string    `json:"referenceID,omitempty"`
	OriginalEntryID  *string   `json:"originalEntryID,omitempty"`
	ReversingEntryID *string   `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
}

// GetJournalEntryResponse combines an entry with its lines.
type GetJournalEntryResponse struct {
	Entry JournalEntryResponse  `json:"entry"`
	Lines []JournalLineResponse `json:"lines"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:        l.LineID,
		AccountID:     l.AccountID,
		DebitAmount:   l.DebitAmount,
		CreditAmount:  l.CreditAmount,
		CurrencyCode:  l.CurrencyCode,
		ForeignAmount: l.ForeignAmount,
		ExchangeRate:  l.ExchangeRate,
		Description:   l.Description,
	}
}

// ToJournalLineResponses converts a slice of domain.JournalLine to response DTOs.
func ToJournalLineResponses(lines []domain.JournalLine) []JournalLineResponse {
	responses := make([]JournalLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToJournalLineResponse(&lines[i])
	}
	return responses
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		BaseCurrencyCode: e.BaseCurrencyCode,
		Status:           string(e.Status),
		ReferenceType:    e.ReferenceType,
		ReferenceID:      e.ReferenceID,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of entries to the list DTO.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}
}
