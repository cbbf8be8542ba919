package mapping

import (
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		EntryNumber:      d.EntryNumber,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		BaseCurrencyCode: d.BaseCurrencyCode,
		Status:           models.JournalStatus(d.Status),
		ReferenceType:    d.ReferenceType,
		ReferenceID:      d.ReferenceID,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		BaseCurrencyCode: m.BaseCurrencyCode,
		Status:           domain.JournalStatus(m.Status),
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:        d.LineID,
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		CurrencyCode:  d.CurrencyCode,
		ForeignAmount: d.ForeignAmount,
		ExchangeRate:  d.ExchangeRate,
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:        m.LineID,
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		CurrencyCode:  m.CurrencyCode,
		ForeignAmount: m.ForeignAmount,
		ExchangeRate:  m.ExchangeRate,
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
