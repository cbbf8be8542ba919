package repositories

import (
	"context"
	"time"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetReader defines read operations for fixed asset data
type AssetReader interface {
	// FindAssetByID retrieves a specific asset by its unique identifier.
	FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error)

	// ListAssets retrieves a paginated list of assets, optionally
	// filtered by status.
	ListAssets(ctx context.Context, status *domain.AssetStatus, limit int, offset int) ([]domain.FixedAsset, error)
}

// AssetWriter defines write operations for fixed asset data
type AssetWriter interface {
	// SaveAsset persists a new asset.
	SaveAsset(ctx context.Context, asset domain.FixedAsset) error

	// UpdateAsset updates an existing asset's details and current value.
	UpdateAsset(ctx context.Context, asset domain.FixedAsset) error
}

// DepreciationReader defines read operations for depreciation records
type DepreciationReader interface {
	// FindDepreciationByID retrieves a specific depreciation record.
	FindDepreciationByID(ctx context.Context, depreciationID string) (*domain.DepreciationRecord, error)

	// FindDepreciationsByAssetID retrieves all records for an asset,
	// oldest first.
	FindDepreciationsByAssetID(ctx context.Context, assetID string) ([]domain.DepreciationRecord, error)

	// ExistsForAssetPeriod reports whether a record already covers the
	// given period for the asset. Guards against double depreciation.
	ExistsForAssetPeriod(ctx context.Context, assetID string, periodStart, periodEnd time.Time) (bool, error)

	// SumRecordedBefore totals the depreciation recorded for an asset
	// with a period ending strictly before the given date.
	SumRecordedBefore(ctx context.Context, assetID string, before time.Time) (decimal.Decimal, error)
}

// DepreciationWriter defines write operations for depreciation records
type DepreciationWriter interface {
	// SaveDepreciation persists a record and the asset's updated current
	// value in one transaction.
	SaveDepreciation(ctx context.Context, record domain.DepreciationRecord, asset domain.FixedAsset) error

	// LinkJournalEntry sets the journal entry reference on a record.
	LinkJournalEntry(ctx context.Context, depreciationID string, entryID string) error

	// DeleteDepreciation removes a record and restores the asset's
	// current value. Callers must first check no journal entry
	// references the record.
	DeleteDepreciation(ctx context.Context, depreciationID string, asset domain.FixedAsset) error
}

// AssetRepositoryFacade combines all asset-related repository interfaces
// This is a facade for clients that need access to all operations
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
	DepreciationReader
	DepreciationWriter
}

// AssetRepositoryWithTx extends AssetRepositoryFacade with transaction capabilities
type AssetRepositoryWithTx interface {
	AssetRepositoryFacade
	TransactionManager
}
