package mapping

import (
	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/models"
)

// ToModelFixedAsset converts a domain FixedAsset to a model FixedAsset
func ToModelFixedAsset(d domain.FixedAsset) models.FixedAsset {
	return models.FixedAsset{
		AssetID:          d.AssetID,
		Name:             d.Name,
		Category:         d.Category,
		AcquisitionDate:  d.AcquisitionDate,
		AcquisitionCost:  d.AcquisitionCost,
		SalvageValue:     d.SalvageValue,
		UsefulLifeYears:  d.UsefulLifeYears,
		DepreciationRate: d.DepreciationRate,
		Method:           string(d.Method),
		CurrencyCode:     d.CurrencyCode,
		CurrentValue:     d.CurrentValue,
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFixedAsset converts a model FixedAsset to a domain FixedAsset
func ToDomainFixedAsset(m models.FixedAsset) domain.FixedAsset {
	return domain.FixedAsset{
		AssetID:          m.AssetID,
		Name:             m.Name,
		Category:         m.Category,
		AcquisitionDate:  m.AcquisitionDate,
		AcquisitionCost:  m.AcquisitionCost,
		SalvageValue:     m.SalvageValue,
		UsefulLifeYears:  m.UsefulLifeYears,
		DepreciationRate: m.DepreciationRate,
		Method:           domain.DepreciationMethod(m.Method),
		CurrencyCode:     m.CurrencyCode,
		CurrentValue:     m.CurrentValue,
		Status:           domain.AssetStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFixedAssetSlice converts a slice of model FixedAssets to domain FixedAssets
func ToDomainFixedAssetSlice(ms []models.FixedAsset) []domain.FixedAsset {
	ds := make([]domain.FixedAsset, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFixedAsset(m)
	}
	return ds
}

// ToModelDepreciationRecord converts a domain DepreciationRecord to a model DepreciationRecord
func ToModelDepreciationRecord(d domain.DepreciationRecord) models.DepreciationRecord {
	return models.DepreciationRecord{
		DepreciationID:   d.DepreciationID,
		AssetID:          d.AssetID,
		PeriodStart:      d.PeriodStart,
		PeriodEnd:        d.PeriodEnd,
		DepreciationDate: d.DepreciationDate,
		Amount:           d.Amount,
		Accumulated:      d.Accumulated,
		RemainingValue:   d.RemainingValue,
		CurrencyCode:     d.CurrencyCode,
		BaseAmount:       d.BaseAmount,
		BaseAccumulated:  d.BaseAccumulated,
		BaseRemaining:    d.BaseRemaining,
		ExchangeRate:     d.ExchangeRate,
		JournalEntryID:   d.JournalEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDepreciationRecord converts a model DepreciationRecord to a domain DepreciationRecord
func ToDomainDepreciationRecord(m models.DepreciationRecord) domain.DepreciationRecord {
	return domain.DepreciationRecord{
		DepreciationID:   m.DepreciationID,
		AssetID:          m.AssetID,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		DepreciationDate: m.DepreciationDate,
		Amount:           m.Amount,
		Accumulated:      m.Accumulated,
		RemainingValue:   m.RemainingValue,
		CurrencyCode:     m.CurrencyCode,
		BaseAmount:       m.BaseAmount,
		BaseAccumulated:  m.BaseAccumulated,
		BaseRemaining:    m.BaseRemaining,
		ExchangeRate:     m.ExchangeRate,
		JournalEntryID:   m.JournalEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDepreciationRecordSlice converts a slice of model DepreciationRecords to domain records
func ToDomainDepreciationRecordSlice(ms []models.DepreciationRecord) []domain.DepreciationRecord {
	ds := make([]domain.DepreciationRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDepreciationRecord(m)
	}
	return ds
}
