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
	"github.com/finacct/ledgercore/internal/core/depreciation"
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/core/fx"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/platform/events"
)

var (
	ErrPeriodAlreadyDepreciated = errors.New("a depreciation record already covers this period")
	ErrAssetNotActive           = errors.New("asset is not active")
	ErrDepreciationJournaled    = errors.New("depreciation record is referenced by a journal entry")
	ErrJournalAccountsNotSet    = errors.New("depreciation journal accounts are not configured")
)

// DepreciationAccounts names the two accounts a depreciation journal
// entry hits. Both must be set for journal creation to be available.
type DepreciationAccounts struct {
	ExpenseAccountID     string
	AccumulatedAccountID string
}

// assetService provides fixed asset management and depreciation runs.
// Period computation is delegated to the depreciation engine; this
// service owns the guards (active asset, no duplicate period) and the
// persistence choreography.
type assetService struct {
	BaseService
	assetRepo    portsrepo.AssetRepositoryFacade
	engine       *depreciation.Engine
	journalSvc   portssvc.JournalSvcFacade
	accounts     DepreciationAccounts
	publisher    events.Publisher
	baseCurrency string
}

// NewAssetService creates a new asset service. journalSvc may be nil
// when depreciation journal creation is not wired.
func NewAssetService(assetRepo portsrepo.AssetRepositoryFacade, rateLookup fx.RateLookup, journalSvc portssvc.JournalSvcFacade, accounts DepreciationAccounts, publisher events.Publisher, baseCurrency string) portssvc.AssetSvcFacade {
	return &assetService{
		assetRepo:    assetRepo,
		engine:       depreciation.NewEngine(fx.NewConverter(fx.NewResolver(rateLookup))),
		journalSvc:   journalSvc,
		accounts:     accounts,
		publisher:    publisher,
		baseCurrency: baseCurrency,
	}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

// depreciationEvent is the payload published when a run records depreciation.
type depreciationEvent struct {
	DepreciationID string `json:"depreciationID"`
	AssetID        string `json:"assetID"`
	Amount         string `json:"amount"`
	CurrencyCode   string `json:"currencyCode"`
	JournalEntryID string `json:"journalEntryID,omitempty"`
}

// CreateAsset registers a new depreciable asset.
func (s *assetService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest, creatorUserID string) (*domain.FixedAsset, error) {
	method, err := domain.ParseDepreciationMethod(req.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.AcquisitionCost.IsPositive() {
		return nil, fmt.Errorf("%w: acquisition cost must be positive", apperrors.ErrValidation)
	}
	if req.SalvageValue.IsNegative() || req.SalvageValue.GreaterThan(req.AcquisitionCost) {
		return nil, fmt.Errorf("%w: salvage value must be between zero and the acquisition cost", apperrors.ErrValidation)
	}
	if req.DepreciationRate.IsNegative() || req.DepreciationRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: depreciation rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if method == domain.DecliningBalance && req.DepreciationRate.IsZero() {
		return nil, fmt.Errorf("%w: declining balance requires a positive depreciation rate", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	asset := domain.FixedAsset{
		AssetID:          uuid.NewString(),
		Name:             req.Name,
		Category:         req.Category,
		AcquisitionDate:  req.AcquisitionDate,
		AcquisitionCost:  req.AcquisitionCost,
		SalvageValue:     req.SalvageValue,
		UsefulLifeYears:  req.UsefulLifeYears,
		DepreciationRate: req.DepreciationRate,
		Method:           method,
		CurrencyCode:     strings.ToUpper(req.CurrencyCode),
		CurrentValue:     req.AcquisitionCost,
		Status:           domain.AssetActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		s.LogError(ctx, err, "failed to save asset", "asset_name", req.Name)
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.LogInfo(ctx, "asset created", "asset_id", asset.AssetID, "method", string(method))
	return &asset, nil
}

// GetAssetByID retrieves an asset by ID.
func (s *assetService) GetAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	return asset, nil
}

// ListAssets retrieves a paginated list of assets.
func (s *assetService) ListAssets(ctx context.Context, params dto.ListAssetsParams) ([]domain.FixedAsset, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var status *domain.AssetStatus
	if params.Status != nil {
		st := domain.AssetStatus(*params.Status)
		status = &st
	}
	assets, err := s.assetRepo.ListAssets(ctx, status, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// ListDepreciations retrieves the depreciation history of an asset.
func (s *assetService) ListDepreciations(ctx context.Context, assetID string) ([]domain.DepreciationRecord, error) {
	if _, err := s.assetRepo.FindAssetByID(ctx, assetID); err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	records, err := s.assetRepo.FindDepreciationsByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list depreciations for asset %s: %w", assetID, err)
	}
	return records, nil
}

// RunDepreciation computes and records one period's depreciation for a
// single asset.
func (s *assetService) RunDepreciation(ctx context.Context, assetID string, req dto.RunDepreciationRequest, requestingUserID string) (*domain.DepreciationRecord, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}
	return s.runForAsset(ctx, *asset, req.PeriodStart, req.PeriodEnd, req.CreateJournalEntry, requestingUserID)
}

// RunBatchDepreciation runs depreciation for every active asset,
// collecting per-asset failures instead of aborting the batch.
func (s *assetService) RunBatchDepreciation(ctx context.Context, req dto.BatchDepreciationRequest, requestingUserID string) (*dto.BatchDepreciationResponse, error) {
	resp := &dto.BatchDepreciationResponse{}
	active := domain.AssetActive

	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		assets, err := s.assetRepo.ListAssets(ctx, &active, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list active assets: %w", err)
		}
		for _, asset := range assets {
			record, err := s.runForAsset(ctx, asset, req.PeriodStart, req.PeriodEnd, req.CreateJournalEntry, requestingUserID)
			if err != nil {
				s.LogWarn(ctx, "depreciation failed for asset", "asset_id", asset.AssetID, "error", err.Error())
				resp.Errors = append(resp.Errors, dto.BatchDepreciationItemError{
					AssetID: asset.AssetID,
					Error:   err.Error(),
				})
				continue
			}
			resp.Records = append(resp.Records, dto.ToDepreciationResponse(record))
		}
		if len(assets) < pageSize {
			break
		}
	}

	s.LogInfo(ctx, "batch depreciation completed",
		"recorded", len(resp.Records), "failed", len(resp.Errors))
	return resp, nil
}

// DeleteDepreciation removes a depreciation record and restores the
// asset's current value. Records referenced by a journal entry are
// protected; reverse the entry first.
func (s *assetService) DeleteDepreciation(ctx context.Context, depreciationID string, requestingUserID string) error {
	record, err := s.assetRepo.FindDepreciationByID(ctx, depreciationID)
	if err != nil {
		return fmt.Errorf("failed to get depreciation record %s: %w", depreciationID, err)
	}
	if record.JournalEntryID != nil {
		return fmt.Errorf("%w: %s", ErrDepreciationJournaled, depreciationID)
	}

	asset, err := s.assetRepo.FindAssetByID(ctx, record.AssetID)
	if err != nil {
		return fmt.Errorf("failed to get asset %s: %w", record.AssetID, err)
	}

	asset.CurrentValue = asset.CurrentValue.Add(record.Amount)
	asset.LastUpdatedAt = time.Now().UTC()
	asset.LastUpdatedBy = requestingUserID

	if err := s.assetRepo.DeleteDepreciation(ctx, depreciationID, *asset); err != nil {
		s.LogError(ctx, err, "failed to delete depreciation record", "depreciation_id", depreciationID)
		return fmt.Errorf("failed to delete depreciation record %s: %w", depreciationID, err)
	}

	s.LogInfo(ctx, "depreciation record deleted", "depreciation_id", depreciationID, "asset_id", record.AssetID)
	return nil
}

// runForAsset is the shared single-asset run used by both the single and
// batch entry points.
func (s *assetService) runForAsset(ctx context.Context, asset domain.FixedAsset, periodStart, periodEnd time.Time, createJournalEntry bool, requestingUserID string) (*domain.DepreciationRecord, error) {
	if asset.Status != domain.AssetActive {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotActive, asset.AssetID)
	}

	exists, err := s.assetRepo.ExistsForAssetPeriod(ctx, asset.AssetID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing depreciation for asset %s: %w", asset.AssetID, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: asset %s, period %s to %s", ErrPeriodAlreadyDepreciated,
			asset.AssetID, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))
	}

	previousAccumulated, err := s.assetRepo.SumRecordedBefore(ctx, asset.AssetID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prior depreciation for asset %s: %w", asset.AssetID, err)
	}

	result, err := s.engine.ComputePeriod(ctx, asset, previousAccumulated, periodStart, periodEnd, periodEnd, s.baseCurrency)
	if err != nil {
		return nil, err
	}
	if result.UsedFallback {
		s.LogWarn(ctx, "units-of-production asset fell back to straight-line", "asset_id", asset.AssetID)
	}

	now := time.Now().UTC()
	record := domain.DepreciationRecord{
		DepreciationID:   uuid.NewString(),
		AssetID:          asset.AssetID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		DepreciationDate: now,
		Amount:           result.Amount,
		Accumulated:      result.Accumulated,
		RemainingValue:   result.RemainingValue,
		CurrencyCode:     asset.CurrencyCode,
		BaseAmount:       result.BaseAmount,
		BaseAccumulated:  result.BaseAccumulated,
		BaseRemaining:    result.BaseRemaining,
		ExchangeRate:     result.ExchangeRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	asset.CurrentValue = result.RemainingValue
	asset.LastUpdatedAt = now
	asset.LastUpdatedBy = requestingUserID

	if err := s.assetRepo.SaveDepreciation(ctx, record, asset); err != nil {
		s.LogError(ctx, err, "failed to save depreciation record", "asset_id", asset.AssetID)
		return nil, fmt.Errorf("failed to record depreciation for asset %s: %w", asset.AssetID, err)
	}

	if createJournalEntry && result.Amount.IsPositive() {
		entryID, err := s.createDepreciationEntry(ctx, &record, requestingUserID)
		if err != nil {
			// The record stands; the entry can be created manually later.
			s.LogError(ctx, err, "failed to create depreciation journal entry",
				"asset_id", asset.AssetID, "depreciation_id", record.DepreciationID)
		} else {
			record.JournalEntryID = &entryID
		}
	}

	journalEntryID := ""
	if record.JournalEntryID != nil {
		journalEntryID = *record.JournalEntryID
	}
	s.publish(ctx, events.DepreciationRecorded, depreciationEvent{
		DepreciationID: record.DepreciationID,
		AssetID:        asset.AssetID,
		Amount:         record.Amount.String(),
		CurrencyCode:   record.CurrencyCode,
		JournalEntryID: journalEntryID,
	})

	return &record, nil
}

// createDepreciationEntry posts the expense/accumulated pair for one
// depreciation record and links the entry back to the record. Amounts
// are the record's base-currency equivalents, rounded to cents.
func (s *assetService) createDepreciationEntry(ctx context.Context, record *domain.DepreciationRecord, requestingUserID string) (string, error) {
	if s.journalSvc == nil || s.accounts.ExpenseAccountID == "" || s.accounts.AccumulatedAccountID == "" {
		return "", ErrJournalAccountsNotSet
	}

	amount := record.BaseAmount.Round(2)
	description := fmt.Sprintf("Depreciation %s to %s",
		record.PeriodStart.Format("2006-01-02"), record.PeriodEnd.Format("2006-01-02"))

	entry, _, err := s.journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		EntryDate:   record.PeriodEnd,
		Description: description,
		Lines: []dto.CreateJournalLineRequest{
			{
				AccountID:    s.accounts.ExpenseAccountID,
				DebitAmount:  amount,
				CurrencyCode: s.baseCurrency,
			},
			{
				AccountID:    s.accounts.AccumulatedAccountID,
				CreditAmount: amount,
				CurrencyCode: s.baseCurrency,
			},
		},
	}, requestingUserID)
	if err != nil {
		return "", err
	}

	if _, err := s.journalSvc.PostEntry(ctx, entry.EntryID, requestingUserID); err != nil {
		return "", err
	}

	if err := s.assetRepo.LinkJournalEntry(ctx, record.DepreciationID, entry.EntryID); err != nil {
		return "", err
	}
	return entry.EntryID, nil
}

// publish emits a domain event; failures are logged, never propagated.
func (s *assetService) publish(ctx context.Context, eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.LogWarn(ctx, "failed to publish event", "event_type", eventType, "error", err.Error())
	}
}
