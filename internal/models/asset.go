package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedAsset represents a depreciable asset row.
type FixedAsset struct {
	AssetID          string          `db:"asset_id"`
	Name             string          `db:"name"`
	Category         string          `db:"category"`
	AcquisitionDate  time.Time       `db:"acquisition_date"`
	AcquisitionCost  decimal.Decimal `db:"acquisition_cost"`
	SalvageValue     decimal.Decimal `db:"salvage_value"`
	UsefulLifeYears  int             `db:"useful_life_years"`
	DepreciationRate decimal.Decimal `db:"depreciation_rate"`
	Method           string          `db:"method"`
	CurrencyCode     string          `db:"currency_code"`
	CurrentValue     decimal.Decimal `db:"current_value"`
	Status           string          `db:"status"`
	AuditFields
}

// DepreciationRecord is one computed depreciation row per (asset, period).
type DepreciationRecord struct {
	DepreciationID   string          `db:"depreciation_id"`
	AssetID          string          `db:"asset_id"`
	PeriodStart      time.Time       `db:"period_start"`
	PeriodEnd        time.Time       `db:"period_end"`
	DepreciationDate time.Time       `db:"depreciation_date"`
	Amount           decimal.Decimal `db:"amount"`
	Accumulated      decimal.Decimal `db:"accumulated"`
	RemainingValue   decimal.Decimal `db:"remaining_value"`
	CurrencyCode     string          `db:"currency_code"`
	BaseAmount       decimal.Decimal `db:"base_amount"`
	BaseAccumulated  decimal.Decimal `db:"base_accumulated"`
	BaseRemaining    decimal.Decimal `db:"base_remaining"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	JournalEntryID   *string         `db:"journal_entry_id"`
	AuditFields
}
