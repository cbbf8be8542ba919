package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	"github.com/finacct/ledgercore/internal/models"
	"github.com/finacct/ledgercore/internal/utils/mapping"
)

// PgxAssetRepository implements the asset repository facade using pgxpool.
type PgxAssetRepository struct {
	basePgxRepository
}

// NewAssetRepository creates a new PgxAssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *PgxAssetRepository {
	return &PgxAssetRepository{basePgxRepository{pool: pool}}
}

var _ portsrepo.AssetRepositoryWithTx = (*PgxAssetRepository)(nil)

const assetColumns = `asset_id, name, category, acquisition_date, acquisition_cost, salvage_value, useful_life_years, depreciation_rate, method, currency_code, current_value, status, created_at, created_by, last_updated_at, last_updated_by`

const depreciationColumns = `depreciation_id, asset_id, period_start, period_end, depreciation_date, amount, accumulated, remaining_value, currency_code, base_amount, base_accumulated, base_remaining, exchange_rate, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (models.FixedAsset, error) {
	var a models.FixedAsset
	err := row.Scan(
		&a.AssetID, &a.Name, &a.Category, &a.AcquisitionDate, &a.AcquisitionCost,
		&a.SalvageValue, &a.UsefulLifeYears, &a.DepreciationRate, &a.Method,
		&a.CurrencyCode, &a.CurrentValue, &a.Status,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func scanDepreciation(row pgx.Row) (models.DepreciationRecord, error) {
	var d models.DepreciationRecord
	err := row.Scan(
		&d.DepreciationID, &d.AssetID, &d.PeriodStart, &d.PeriodEnd, &d.DepreciationDate,
		&d.Amount, &d.Accumulated, &d.RemainingValue, &d.CurrencyCode,
		&d.BaseAmount, &d.BaseAccumulated, &d.BaseRemaining, &d.ExchangeRate,
		&d.JournalEntryID,
		&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
	)
	return d, err
}

func updateAssetValue(ctx context.Context, tx pgx.Tx, asset models.FixedAsset) error {
	query := `
		UPDATE fixed_assets
		SET current_value = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE asset_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		asset.AssetID, asset.CurrentValue, asset.Status, asset.LastUpdatedAt, asset.LastUpdatedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveAsset inserts a new asset.
func (r *PgxAssetRepository) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	m := mapping.ToModelFixedAsset(asset)
	query := `
		INSERT INTO fixed_assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AssetID, m.Name, m.Category, m.AcquisitionDate, m.AcquisitionCost,
		m.SalvageValue, m.UsefulLifeYears, m.DepreciationRate, m.Method,
		m.CurrencyCode, m.CurrentValue, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save asset %s: %w", m.AssetID, err)
	}
	return nil
}

// UpdateAsset updates an existing asset's details and current value.
func (r *PgxAssetRepository) UpdateAsset(ctx context.Context, asset domain.FixedAsset) error {
	m := mapping.ToModelFixedAsset(asset)
	query := `
		UPDATE fixed_assets
		SET name = $2, category = $3, salvage_value = $4, useful_life_years = $5,
		    depreciation_rate = $6, method = $7, current_value = $8, status = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE asset_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.AssetID, m.Name, m.Category, m.SalvageValue, m.UsefulLifeYears,
		m.DepreciationRate, m.Method, m.CurrentValue, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", m.AssetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAssetByID retrieves an asset by its ID.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE asset_id = $1;`
	m, err := scanAsset(r.pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset %s: %w", assetID, err)
	}
	d := mapping.ToDomainFixedAsset(m)
	return &d, nil
}

// ListAssets retrieves a paginated list of assets, optionally filtered by status.
func (r *PgxAssetRepository) ListAssets(ctx context.Context, status *domain.AssetStatus, limit int, offset int) ([]domain.FixedAsset, error) {
	args := []any{limit, offset}
	query := `SELECT ` + assetColumns + ` FROM fixed_assets`
	if status != nil {
		query += ` WHERE status = $3`
		args = append(args, string(*status))
	}
	query += ` ORDER BY acquisition_date, asset_id LIMIT $1 OFFSET $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []models.FixedAsset{}
	for rows.Next() {
		m, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return mapping.ToDomainFixedAssetSlice(assets), nil
}

// FindDepreciationByID retrieves a specific depreciation record.
func (r *PgxAssetRepository) FindDepreciationByID(ctx context.Context, depreciationID string) (*domain.DepreciationRecord, error) {
	query := `SELECT ` + depreciationColumns + ` FROM asset_depreciations WHERE depreciation_id = $1;`
	m, err := scanDepreciation(r.pool.QueryRow(ctx, query, depreciationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find depreciation record %s: %w", depreciationID, err)
	}
	d := mapping.ToDomainDepreciationRecord(m)
	return &d, nil
}

// FindDepreciationsByAssetID retrieves all records for an asset, oldest first.
func (r *PgxAssetRepository) FindDepreciationsByAssetID(ctx context.Context, assetID string) ([]domain.DepreciationRecord, error) {
	query := `SELECT ` + depreciationColumns + ` FROM asset_depreciations WHERE asset_id = $1 ORDER BY period_start;`
	rows, err := r.pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query depreciations for asset %s: %w", assetID, err)
	}
	defer rows.Close()

	records := []models.DepreciationRecord{}
	for rows.Next() {
		m, err := scanDepreciation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan depreciation row for asset %s: %w", assetID, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating depreciation rows for asset %s: %w", assetID, err)
	}
	return mapping.ToDomainDepreciationRecordSlice(records), nil
}

// ExistsForAssetPeriod reports whether a record already covers the given
// period for the asset. Overlapping periods count as covered.
func (r *PgxAssetRepository) ExistsForAssetPeriod(ctx context.Context, assetID string, periodStart, periodEnd time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM asset_depreciations
			WHERE asset_id = $1 AND period_start <= $3 AND period_end >= $2
		);
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, assetID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check depreciation period for asset %s: %w", assetID, err)
	}
	return exists, nil
}

// SumRecordedBefore totals the depreciation recorded for an asset with a
// period ending strictly before the given date.
func (r *PgxAssetRepository) SumRecordedBefore(ctx context.Context, assetID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM asset_depreciations
		WHERE asset_id = $1 AND period_end < $2;
	`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, assetID, before).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum depreciation for asset %s: %w", assetID, err)
	}
	return total, nil
}

// SaveDepreciation persists a record and the asset's updated current
// value in one transaction.
func (r *PgxAssetRepository) SaveDepreciation(ctx context.Context, record domain.DepreciationRecord, asset domain.FixedAsset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m := mapping.ToModelDepreciationRecord(record)
	query := `
		INSERT INTO asset_depreciations (` + depreciationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.DepreciationID, m.AssetID, m.PeriodStart, m.PeriodEnd, m.DepreciationDate,
		m.Amount, m.Accumulated, m.RemainingValue, m.CurrencyCode,
		m.BaseAmount, m.BaseAccumulated, m.BaseRemaining, m.ExchangeRate,
		m.JournalEntryID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert depreciation record %s: %w", m.DepreciationID, err)
	}

	if err := updateAssetValue(ctx, tx, mapping.ToModelFixedAsset(asset)); err != nil {
		return fmt.Errorf("failed to update asset %s after depreciation: %w", asset.AssetID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit depreciation for asset %s: %w", asset.AssetID, err)
	}
	return nil
}

// LinkJournalEntry sets the journal entry reference on a record.
func (r *PgxAssetRepository) LinkJournalEntry(ctx context.Context, depreciationID string, entryID string) error {
	query := `UPDATE asset_depreciations SET journal_entry_id = $2 WHERE depreciation_id = $1;`
	tag, err := r.pool.Exec(ctx, query, depreciationID, entryID)
	if err != nil {
		return fmt.Errorf("failed to link journal entry to depreciation %s: %w", depreciationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteDepreciation removes a record and restores the asset's current
// value in one transaction.
func (r *PgxAssetRepository) DeleteDepreciation(ctx context.Context, depreciationID string, asset domain.FixedAsset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM asset_depreciations WHERE depreciation_id = $1 AND journal_entry_id IS NULL;`, depreciationID)
	if err != nil {
		return fmt.Errorf("failed to delete depreciation record %s: %w", depreciationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := updateAssetValue(ctx, tx, mapping.ToModelFixedAsset(asset)); err != nil {
		return fmt.Errorf("failed to restore asset %s after deletion: %w", asset.AssetID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deletion of depreciation %s: %w", depreciationID, err)
	}
	return nil
}
