package repositories

import (
	"context"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
)

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries using
	// token-based pagination. It returns the entries, a token for the
	// next page, and an error.
	ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// NextEntryNumber allocates the next human-facing entry number,
	// e.g. "JE-2026-0001".
	NextEntryNumber(ctx context.Context, entryDate time.Time) (string, error)
}

// JournalWriter defines write operations for journal entry data
type JournalWriter interface {
	// SaveEntry persists a journal entry and its lines in one transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus transitions an entry from one status to another
	// with a compare-and-swap on the expected current status. Returns
	// apperrors.ErrConflict when the entry is no longer in fromStatus.
	UpdateEntryStatus(ctx context.Context, entryID string, fromStatus, toStatus domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error

	// SaveReversal persists the reversing entry with its lines and links
	// the original entry to it (status Reversed) in one transaction.
	SaveReversal(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, lines []domain.JournalLine) error
}

// LineReader defines read operations for journal line data
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of a single journal entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped
	// by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated list of lines for a
	// specific account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
