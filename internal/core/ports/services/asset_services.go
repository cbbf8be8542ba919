package services

import (
	"context"

	"github.com/finacct/ledgercore/internal/core/domain"
	"github.com/finacct/ledgercore/internal/dto"
)

// AssetReaderSvc defines read operations for fixed asset data
type AssetReaderSvc interface {
	// GetAssetByID retrieves an asset by ID.
	GetAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error)

	// ListAssets retrieves a paginated list of assets.
	ListAssets(ctx context.Context, params dto.ListAssetsParams) ([]domain.FixedAsset, error)

	// ListDepreciations retrieves the depreciation history of an asset,
	// oldest first.
	ListDepreciations(ctx context.Context, assetID string) ([]domain.DepreciationRecord, error)
}

// AssetWriterSvc defines write operations for fixed asset data
type AssetWriterSvc interface {
	// CreateAsset registers a new depreciable asset.
	CreateAsset(ctx context.Context, req dto.CreateAssetRequest, creatorUserID string) (*domain.FixedAsset, error)
}

// DepreciationRunnerSvc defines depreciation run operations
type DepreciationRunnerSvc interface {
	// RunDepreciation computes and records one period's depreciation for
	// a single asset. A period already covered by a record is rejected.
	RunDepreciation(ctx context.Context, assetID string, req dto.RunDepreciationRequest, requestingUserID string) (*domain.DepreciationRecord, error)

	// RunBatchDepreciation runs depreciation for every active asset.
	// Per-asset failures are collected and reported; they do not abort
	// the rest of the batch.
	RunBatchDepreciation(ctx context.Context, req dto.BatchDepreciationRequest, requestingUserID string) (*dto.BatchDepreciationResponse, error)

	// DeleteDepreciation removes a depreciation record and restores the
	// asset's value, provided no journal entry references the record.
	DeleteDepreciation(ctx context.Context, depreciationID string, requestingUserID string) error
}

// AssetSvcFacade combines all asset-related service interfaces
// This is a facade for clients that need access to all operations
type AssetSvcFacade interface {
	AssetReaderSvc
	AssetWriterSvc
	DepreciationRunnerSvc
}
