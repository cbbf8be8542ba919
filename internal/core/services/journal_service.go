package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	"github.com/finacct/ledgercore/internal/core/ledger"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/platform/events"
)

var (
	ErrEntryNotDraft        = errors.New("journal entry must be in draft status")
	ErrEntryNotPosted       = errors.New("journal entry must be posted")
	ErrEntryAlreadyReversed = errors.New("journal entry is already reversed")
	ErrAccountInactive      = errors.New("account is inactive")
)

// journalService provides journal entry creation, posting and reversal.
// Every path that makes amounts official goes through ledger.Validate;
// posted entries are immutable and corrected only by reversal.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	validator    *ledger.Validator
	publisher    events.Publisher
	baseCurrency string
}

// NewJournalService creates a new journal service. rateLookup feeds the
// balance validator's rate resolution.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, rateLookup fx.RateLookup, publisher events.Publisher, baseCurrency string) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		accountSvc:   accountSvc,
		validator:    ledger.NewValidator(fx.NewResolver(rateLookup)),
		publisher:    publisher,
		baseCurrency: baseCurrency,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// entryEvent is the payload published when an entry is posted or reversed.
type entryEvent struct {
	EntryID          string `json:"entryID"`
	EntryNumber      string `json:"entryNumber"`
	BaseCurrencyCode string `json:"baseCurrencyCode"`
	OriginalEntryID  string `json:"originalEntryID,omitempty"`
}

// CreateEntry validates and persists a new entry in Draft status.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, []domain.JournalLine, error) {
	// Lines as entered, in their own currencies, for validation.
	proposed := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		proposed[i] = domain.JournalLine{
			AccountID:     lineReq.AccountID,
			DebitAmount:   lineReq.DebitAmount,
			CreditAmount:  lineReq.CreditAmount,
			CurrencyCode:  strings.ToUpper(lineReq.CurrencyCode),
			ForeignAmount: lineReq.ForeignAmount,
			Description:   lineReq.Description,
		}
	}

	if err := s.checkAccountsActive(ctx, proposed); err != nil {
		return nil, nil, err
	}

	converted, err := s.validator.Validate(ctx, proposed, s.baseCurrency, req.EntryDate)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, req.EntryDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:          entryID,
		EntryNumber:      entryNumber,
		EntryDate:        req.EntryDate,
		Description:      req.Description,
		BaseCurrencyCode: s.baseCurrency,
		Status:           domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, conv := range converted {
		line := proposed[i]
		line.LineID = uuid.NewString()
		line.EntryID = entryID
		// Base amounts are what the ledger stores; the entered foreign
		// amount and its rate ride along for audit.
		line.DebitAmount = conv.BaseDebit
		line.CreditAmount = conv.BaseCredit
		if line.CurrencyCode != s.baseCurrency {
			rate := conv.ExchangeRate
			line.ExchangeRate = &rate
		}
		line.AuditFields = entry.AuditFields
		lines[i] = line
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "failed to save journal entry", "entry_id", entryID)
		return nil, nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	s.LogInfo(ctx, "journal entry created", "entry_id", entryID, "entry_number", entryNumber, "lines", len(lines))
	return &entry, lines, nil
}

// PostEntry re-validates a draft entry and transitions it to Posted.
func (s *journalService) PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entryID, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}

	// Rates may have changed since the draft was created; posting
	// re-checks the balance with the rates stored on the lines.
	if _, err := s.validator.Validate(ctx, asEnteredLines(lines, entry.BaseCurrencyCode), entry.BaseCurrencyCode, entry.EntryDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, domain.Draft, domain.Posted, requestingUserID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s was modified concurrently", ErrEntryNotDraft, entryID)
		}
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	s.publish(ctx, events.EntryPosted, entryEvent{
		EntryID:          entry.EntryID,
		EntryNumber:      entry.EntryNumber,
		BaseCurrencyCode: entry.BaseCurrencyCode,
	})

	s.LogInfo(ctx, "journal entry posted", "entry_id", entryID)
	return entry, nil
}

// ReverseEntry creates and posts a reversing entry mirroring the
// original's lines, and marks the original Reversed. The reversal reuses
// the original's stored base amounts and rates so it offsets exactly,
// whatever today's rates are.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry %s: %w", entryID, err)
	}
	if original.Status == domain.Reversed || original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s", ErrEntryAlreadyReversed, entryID)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotPosted, entryID, original.Status)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	reversal := domain.JournalEntry{
		EntryID:          reversalID,
		EntryNumber:      entryNumber,
		EntryDate:        now,
		Description:      fmt.Sprintf("Reversal of %s", original.EntryNumber),
		BaseCurrencyCode: original.BaseCurrencyCode,
		Status:           domain.Posted,
		OriginalEntryID:  &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		mirrored := line
		mirrored.LineID = uuid.NewString()
		mirrored.EntryID = reversalID
		mirrored.DebitAmount, mirrored.CreditAmount = line.CreditAmount, line.DebitAmount
		mirrored.AuditFields = reversal.AuditFields
		reversalLines[i] = mirrored
	}

	if err := s.journalRepo.SaveReversal(ctx, *original, reversal, reversalLines); err != nil {
		s.LogError(ctx, err, "failed to save reversal", "entry_id", entryID)
		return nil, fmt.Errorf("failed to reverse entry %s: %w", entryID, err)
	}

	s.publish(ctx, events.EntryReversed, entryEvent{
		EntryID:          reversal.EntryID,
		EntryNumber:      reversal.EntryNumber,
		BaseCurrencyCode: reversal.BaseCurrencyCode,
		OriginalEntryID:  original.EntryID,
	})

	s.LogInfo(ctx, "journal entry reversed", "entry_id", entryID, "reversal_id", reversalID)
	return &reversal, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, []domain.JournalLine, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load journal entry %s: %w", entryID, err)
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	return entry, lines, nil
}

// ListEntries retrieves a paginated list of journal entries.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	resp := dto.ToListJournalEntriesResponse(entries, nextToken)
	return &resp, nil
}

// checkAccountsActive verifies every referenced account exists and is active.
func (s *journalService) checkAccountsActive(ctx context.Context, lines []domain.JournalLine) error {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.AccountID] {
			continue
		}
		seen[line.AccountID] = true

		account, err := s.accountSvc.GetAccountByID(ctx, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, line.AccountID)
			}
			return fmt.Errorf("failed to check account %s: %w", line.AccountID, err)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: %s", ErrAccountInactive, line.AccountID)
		}
	}
	return nil
}

// publish emits a domain event; failures are logged, never propagated.
func (s *journalService) publish(ctx context.Context, eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.LogWarn(ctx, "failed to publish event", "event_type", eventType, "error", err.Error())
	}
}

// asEnteredLines reconstructs the as-entered view of stored lines for
// re-validation: foreign lines swap their base amounts back to the
// entered foreign amount so rates are re-applied from scratch.
func asEnteredLines(lines []domain.JournalLine, baseCurrencyCode string) []domain.JournalLine {
	entered := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		e := line
		if line.CurrencyCode != "" && line.CurrencyCode != baseCurrencyCode && line.ForeignAmount != nil {
			if line.IsDebit() {
				e.DebitAmount = *line.ForeignAmount
				e.CreditAmount = decimal.Zero
			} else {
				e.CreditAmount = *line.ForeignAmount
				e.DebitAmount = decimal.Zero
			}
		}
		entered[i] = e
	}
	return entered
}
