package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationMethod is the closed set of supported depreciation methods.
type DepreciationMethod string

const (
	StraightLine      DepreciationMethod = "STRAIGHT_LINE"
	DecliningBalance  DepreciationMethod = "DECLINING_BALANCE"
	SumOfYears        DepreciationMethod = "SUM_OF_YEARS"
	UnitsOfProduction DepreciationMethod = "UNITS_OF_PRODUCTION"
)

// ParseDepreciationMethod maps an external method string to the closed enum.
func ParseDepreciationMethod(s string) (DepreciationMethod, error) {
	switch DepreciationMethod(s) {
	case StraightLine, DecliningBalance, SumOfYears, UnitsOfProduction:
		return DepreciationMethod(s), nil
	default:
		return "", fmt.Errorf("unknown depreciation method %q", s)
	}
}

// AssetStatus indicates whether an asset still depreciates.
type AssetStatus string

const (
	AssetActive   AssetStatus = "ACTIVE"
	AssetDisposed AssetStatus = "DISPOSED"
)

// FixedAsset is a depreciable asset denominated in its own currency.
// Invariants: AcquisitionCost > 0, 0 <= SalvageValue <= AcquisitionCost,
// UsefulLifeYears > 0, DepreciationRate in [0,100].
// CurrentValue is monotonically non-increasing over time and bounded
// below by SalvageValue.
type FixedAsset struct {
	AssetID          string             `json:"assetID"` // Primary Key (e.g., UUID)
	Name             string             `json:"name"`
	Category         string             `json:"category"`
	AcquisitionDate  time.Time          `json:"acquisitionDate"`
	AcquisitionCost  decimal.Decimal    `json:"acquisitionCost"`
	SalvageValue     decimal.Decimal    `json:"salvageValue"`
	UsefulLifeYears  int                `json:"usefulLifeYears"`
	DepreciationRate decimal.Decimal    `json:"depreciationRate"` // Percent, declining-balance only
	Method           DepreciationMethod `json:"method"`
	CurrencyCode     string             `json:"currencyCode"`
	CurrentValue     decimal.Decimal    `json:"currentValue"`
	Status           AssetStatus        `json:"status"`
	AuditFields
}

// DepreciationRecord is one computed depreciation per (asset, period).
// Append-only once created; deletable only while no journal entry
// references it.
type DepreciationRecord struct {
	DepreciationID   string          `json:"depreciationID"` // Primary Key (e.g., UUID)
	AssetID          string          `json:"assetID"`        // FK -> FixedAsset.assetID (reference, not ownership)
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
	JournalEntryID   *string         `json:"journalEntryID,omitempty"` // Set when the run posted a journal entry
	AuditFields
}
