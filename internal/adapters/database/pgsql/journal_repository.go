package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	"github.com/finacct/ledgercore/internal/models"
	"github.com/finacct/ledgercore/internal/utils/mapping"
	"github.com/finacct/ledgercore/internal/utils/pagination"
)

// PgxJournalRepository implements the journal repository facade using pgxpool.
type PgxJournalRepository struct {
	basePgxRepository
}

// NewJournalRepository creates a new PgxJournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{basePgxRepository{pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, description, base_currency_code, status, reference_type, reference_id, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit_amount, credit_amount, currency_code, foreign_amount, exchange_rate, description, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var e models.JournalEntry
	var refType, refID *string
	err := row.Scan(
		&e.EntryID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.BaseCurrencyCode, &e.Status,
		&refType, &refID, &e.OriginalEntryID, &e.ReversingEntryID,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if refType != nil {
		e.ReferenceType = *refType
	}
	if refID != nil {
		e.ReferenceID = *refID
	}
	return e, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var l models.JournalLine
	err := row.Scan(
		&l.LineID, &l.EntryID, &l.AccountID, &l.DebitAmount, &l.CreditAmount,
		&l.CurrencyCode, &l.ForeignAmount, &l.ExchangeRate, &l.Description,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
	)
	return l, err
}

func insertEntry(ctx context.Context, tx pgx.Tx, e models.JournalEntry) error {
	var refType, refID *string
	if e.ReferenceType != "" {
		refType = &e.ReferenceType
	}
	if e.ReferenceID != "" {
		refID = &e.ReferenceID
	}

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		e.EntryID, e.EntryNumber, e.EntryDate, e.Description, e.BaseCurrencyCode, e.Status,
		refType, refID, e.OriginalEntryID, e.ReversingEntryID,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	return err
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []models.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, l := range lines {
		batch.Queue(query,
			l.LineID, l.EntryID, l.AccountID, l.DebitAmount, l.CreditAmount,
			l.CurrencyCode, l.ForeignAmount, l.ExchangeRate, l.Description,
			l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy,
		)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// SaveEntry persists a journal entry and its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := insertEntry(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	modelLines := make([]models.JournalLine, len(lines))
	for i, l := range lines {
		modelLines[i] = mapping.ToModelJournalLine(l)
	}
	if err := insertLines(ctx, tx, modelLines); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// UpdateEntryStatus transitions an entry between statuses with a
// compare-and-swap on the expected current status.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, fromStatus, toStatus domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;
	`
	tag, err := r.pool.Exec(ctx, query, entryID, fromStatus, toStatus, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the entry is gone or another writer moved it out of
		// fromStatus first.
		return apperrors.ErrConflict
	}
	return nil
}

// SaveReversal persists the reversing entry with its lines and links the
// original entry to it in one transaction.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Mark the original reversed first, guarded on its current status so
	// two concurrent reversals cannot both land.
	markQuery := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $6 AND reversing_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, markQuery,
		original.EntryID, domain.Reversed, reversal.EntryID,
		reversal.CreatedAt, reversal.CreatedBy, domain.Posted,
	)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", original.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertEntry(ctx, tx, mapping.ToModelJournalEntry(reversal)); err != nil {
		return fmt.Errorf("failed to insert reversal entry %s: %w", reversal.EntryID, err)
	}

	modelLines := make([]models.JournalLine, len(lines))
	for i, l := range lines {
		modelLines[i] = mapping.ToModelJournalLine(l)
	}
	if err := insertLines(ctx, tx, modelLines); err != nil {
		return fmt.Errorf("failed to insert lines for reversal %s: %w", reversal.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reversal of entry %s: %w", original.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a journal entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// ListEntries retrieves a page of journal entries ordered newest first,
// using keyset pagination on (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := []any{limit + 1}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`

	if !includeReversals {
		query += ` AND original_entry_id IS NULL`
	}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, entryDate, createdAt)
		query += ` AND (entry_date, created_at) < ($2, $3)`
	}

	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $1;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}

	result := make([]domain.JournalEntry, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainJournalEntry(m)
	}
	return result, token, nil
}

// NextEntryNumber allocates the next entry number for the entry date's
// year, e.g. "JE-2026-0001". The per-year counter lives in
// journal_entry_sequences and the allocation is atomic via upsert.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, entryDate time.Time) (string, error) {
	year := entryDate.Year()
	query := `
		INSERT INTO journal_entry_sequences (year, counter)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET counter = journal_entry_sequences.counter + 1
		RETURNING counter;
	`
	var counter int64
	if err := r.pool.QueryRow(ctx, query, year).Scan(&counter); err != nil {
		return "", fmt.Errorf("failed to allocate entry number for year %d: %w", year, err)
	}
	return fmt.Sprintf("JE-%d-%04d", year, counter), nil
}

// FindLinesByEntryID retrieves all lines of a single journal entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_id;`
	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_id;`
	rows, err := r.pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		result[m.EntryID] = append(result[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}
	return result, nil
}

// ListLinesByAccountID retrieves a page of lines for a specific account,
// newest first, using keyset pagination on created_at.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := []any{accountID, limit + 1}
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE account_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt)
		query += ` AND created_at < $3`
	}

	query += ` ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, err)
	}

	var token *string
	if len(lines) > limit {
		lines = lines[:limit]
		t := pagination.EncodeDateBasedToken(lines[len(lines)-1].CreatedAt)
		token = &t
	}

	return mapping.ToDomainJournalLineSlice(lines), token, nil
}
