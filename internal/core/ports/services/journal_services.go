package services

import (
	"context"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/dto"
)

// JournalReaderSvc defines read operations for journal entry data
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, []domain.JournalLine, error)

	// ListEntries retrieves a paginated list of journal entries.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entry data
type JournalWriterSvc interface {
	// CreateEntry validates and persists a new entry in Draft status.
	// Line amounts are converted to the base currency during validation.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, []domain.JournalLine, error)

	// PostEntry re-validates a draft entry and transitions it to Posted.
	// A posted entry is immutable.
	PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a reversing entry that mirrors the
	// original's lines, and marks the original Reversed.
	ReverseEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
