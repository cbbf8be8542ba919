package dto

import (
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest defines the structure for registering a fixed asset.
type CreateAssetRequest struct {
	Name             string          `json:"name" binding:"required"`
	Category         string          `json:"category,omitempty"`
	AcquisitionDate  time.Time       `json:"acquisitionDate" binding:"required"`
	AcquisitionCost  decimal.Decimal `json:"acquisitionCost" binding:"required,decimalgt0"`
	SalvageValue     decimal.Decimal `json:"salvageValue" binding:"decimalgte0"`
	UsefulLifeYears  int             `json:"usefulLifeYears" binding:"required,gt=0"`
	DepreciationRate decimal.Decimal `json:"depreciationRate"` // Percent, declining-balance only
	Method           string          `json:"method" binding:"required,oneof=STRAIGHT_LINE DECLINING_BALANCE SUM_OF_YEARS UNITS_OF_PRODUCTION"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// ListAssetsParams defines query parameters for listing assets.
type ListAssetsParams struct {
	Status *string `form:"status" binding:"omitempty,oneof=ACTIVE DISPOSED"`
	Limit  int     `form:"limit,default=20"`
	Offset int     `form:"offset,default=0"`
}

// RunDepreciationRequest defines one depreciation run for a single asset.
type RunDepreciationRequest struct {
	PeriodStart        time.Time `json:"periodStart" binding:"required"`
	PeriodEnd          time.Time `json:"periodEnd" binding:"required"`
	CreateJournalEntry bool      `json:"createJournalEntry"`
}

// BatchDepreciationRequest defines a depreciation run across all active assets.
type BatchDepreciationRequest struct {
	PeriodStart        time.Time `json:"periodStart" binding:"required"`
	PeriodEnd          time.Time `json:"periodEnd" binding:"required"`
	CreateJournalEntry bool      `json:"createJournalEntry"`
}

// AssetResponse defines the structure for API responses containing asset details.
type AssetResponse struct {
	AssetID          string          `json:"assetID"`
	Name             string          `json:"name"`
	Category         string          `json:"category,omitempty"`
	AcquisitionDate  time.Time       `json:"acquisitionDate"`
	AcquisitionCost  decimal.Decimal `json:"acquisitionCost"`
	SalvageValue     decimal.Decimal `json:"salvageValue"`
	UsefulLifeYears  int             `json:"usefulLifeYears"`
	DepreciationRate decimal.Decimal `json:"depreciationRate"`
	Method           string          `json:"method"`
	CurrencyCode     string          `json:"currencyCode"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	Status           string          `json:"status"`
}

// DepreciationResponse defines the data returned for one depreciation record.
type DepreciationResponse struct {
	DepreciationID   string          `json:"depreciationID"`
	AssetID          string          `json:"assetID"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	DepreciationDate time.Time       `json:"depreciationDate"`
	Amount           decimal.Decimal `json:"amount"`
	Accumulated      decimal.Decimal `json:"accumulated"`
	RemainingValue   decimal.Decimal `json:"remainingValue"`
	CurrencyCode     string          `json:"currencyCode"`
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	BaseAccumulated  decimal.Decimal `json:"baseAccumulated"`
	BaseRemaining    decimal.Decimal `json:"baseRemaining"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	JournalEntryID   *string         `json:"journalEntryID,omitempty"`
	UsedFallback     bool            `json:"usedFallback,omitempty"`
}

// BatchDepreciationItemError reports one asset that failed during a batch run.
type BatchDepreciationItemError struct {
	AssetID string `json:"assetID"`
	Error   string `json:"error"`
}

// BatchDepreciationResponse summarizes a batch depreciation run. Failed
// assets do not abort the batch; they are reported alongside the
// successful records.
type BatchDepreciationResponse struct {
	Records []DepreciationResponse       `json:"records"`
	Errors  []BatchDepreciationItemError `json:"errors,omitempty"`
}

// ToAssetResponse converts a domain.FixedAsset to AssetResponse DTO
func ToAssetResponse(a *domain.FixedAsset) AssetResponse {
	return AssetResponse{
		AssetID:          a.AssetID,
		Name:             a.Name,
		Category:         a.Category,
		AcquisitionDate:  a.AcquisitionDate,
		AcquisitionCost:  a.AcquisitionCost,
		SalvageValue:     a.SalvageValue,
		UsefulLifeYears:  a.UsefulLifeYears,
		DepreciationRate: a.DepreciationRate,
		Method:           string(a.Method),
		CurrencyCode:     a.CurrencyCode,
		CurrentValue:     a.CurrentValue,
		Status:           string(a.Status),
	}
}

// ToListAssetResponse converts a slice of domain.FixedAsset to response DTOs.
func ToListAssetResponse(assets []domain.FixedAsset) []AssetResponse {
	responses := make([]AssetResponse, len(assets))
	for i := range assets {
		responses[i] = ToAssetResponse(&assets[i])
	}
	return responses
}

// ToDepreciationResponse converts a domain.DepreciationRecord to DepreciationResponse DTO
func ToDepreciationResponse(r *domain.DepreciationRecord) DepreciationResponse {
	return DepreciationResponse{
		DepreciationID:   r.DepreciationID,
		AssetID:          r.AssetID,
		PeriodStart:      r.PeriodStart,
		PeriodEnd:        r.PeriodEnd,
		DepreciationDate: r.DepreciationDate,
		Amount:           r.Amount,
		Accumulated:      r.Accumulated,
		RemainingValue:   r.RemainingValue,
		CurrencyCode:     r.CurrencyCode,
		BaseAmount:       r.BaseAmount,
		BaseAccumulated:  r.BaseAccumulated,
		BaseRemaining:    r.BaseRemaining,
		ExchangeRate:     r.ExchangeRate,
		JournalEntryID:   r.JournalEntryID,
	}
}

// ToListDepreciationResponse converts a slice of records to response DTOs.
func ToListDepreciationResponse(records []domain.DepreciationRecord) []DepreciationResponse {
	responses := make([]DepreciationResponse, len(records))
	for i := range records {
		responses[i] = ToDepreciationResponse(&records[i])
	}
	return responses
}
