package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/platform/persistence"
)

// AssetRepository implements the asset.Repository interface for PostgreSQL
type AssetRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAssetRepository creates a new PostgreSQL asset repository
func NewAssetRepository(logger *slog.Logger, db *persistence.PostgresDB) asset.Repository {
	return &AssetRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *AssetRepository) WithTx(tx pgx.Tx) asset.Repository {
	return &AssetRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// duplicateAssetError maps a unique violation on one of the asset's per-user
// unique columns to a field-addressable domain error.
func duplicateAssetError(err error, a *asset.Asset) error {
	switch {
	case persistence.IsUniqueViolation(err, "assets_user_id_ticker_key"):
		return asset.ErrDuplicateField{Field: "ticker", Value: a.Ticker}
	case persistence.IsUniqueViolation(err, "assets_user_id_name_key"):
		return asset.ErrDuplicateField{Field: "name", Value: a.Name}
	case persistence.IsUniqueViolation(err, "assets_user_symbol_uniq"):
		value := ""
		if a.Symbol != nil {
			value = *a.Symbol
		}
		return asset.ErrDuplicateField{Field: "symbol", Value: value}
	}
	return nil
}

// Create stores a new asset. Duplicate ticker, name, or symbol for the same
// user is returned as asset.ErrDuplicateField naming the offending column.
func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	query := `
		INSERT INTO assets (id, user_id, ticker, name, symbol, precision, price_precision, is_currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Ticker,
		a.Name,
		a.Symbol,
		a.Precision,
		a.PricePrecision,
		a.IsCurrency,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if dupErr := duplicateAssetError(err, a); dupErr != nil {
			return dupErr
		}
		r.logger.Error("Failed to create asset", "error", err)
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by its ID
func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `
		SELECT id, user_id, ticker, name, symbol, precision, price_precision, is_currency, created_at, updated_at
		FROM assets
		WHERE id = $1
	`

	var a asset.Asset
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Ticker,
		&a.Name,
		&a.Symbol,
		&a.Precision,
		&a.PricePrecision,
		&a.IsCurrency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, asset.ErrAssetNotFound{AssetID: id}
		}
		r.logger.Error("Failed to get asset", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &a, nil
}

// ListByUser retrieves all assets of a user ordered by ticker
func (r *AssetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*asset.Asset, error) {
	query := `
		SELECT id, user_id, ticker, name, symbol, precision, price_precision, is_currency, created_at, updated_at
		FROM assets
		WHERE user_id = $1
		ORDER BY ticker
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list assets", "userID", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		var a asset.Asset
		if err := rows.Scan(&a.ID, &a.UserID, &a.Ticker, &a.Name, &a.Symbol, &a.Precision, &a.PricePrecision, &a.IsCurrency, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return assets, nil
}

// Update updates an existing asset's metadata
func (r *AssetRepository) Update(ctx context.Context, a *asset.Asset) error {
	query := `
		UPDATE assets
		SET ticker = $1, name = $2, symbol = $3, precision = $4, price_precision = $5, is_currency = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.querier.Exec(ctx, query,
		a.Ticker,
		a.Name,
		a.Symbol,
		a.Precision,
		a.PricePrecision,
		a.IsCurrency,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if dupErr := duplicateAssetError(err, a); dupErr != nil {
			return dupErr
		}
		r.logger.Error("Failed to update asset", "id", a.ID.String(), "error", err)
		return fmt.Errorf("failed to update asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return asset.ErrAssetNotFound{AssetID: a.ID}
	}

	return nil
}

// Delete removes an asset; cascades remove its ledgers, entries, balances,
// and stored prices.
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assets WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete asset", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return asset.ErrAssetNotFound{AssetID: id}
	}

	return nil
}

// GetAccountingCurrency retrieves the asset the user selected as valuation
// unit, or nil when none is set.
func (r *AssetRepository) GetAccountingCurrency(ctx context.Context, userID uuid.UUID) (*asset.Asset, error) {
	query := `
		SELECT a.id, a.user_id, a.ticker, a.name, a.symbol, a.precision, a.price_precision, a.is_currency, a.created_at, a.updated_at
		FROM accounting_currencies ac
		JOIN assets a ON a.id = ac.asset_id
		WHERE ac.user_id = $1
	`

	var a asset.Asset
	err := r.querier.QueryRow(ctx, query, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Ticker,
		&a.Name,
		&a.Symbol,
		&a.Precision,
		&a.PricePrecision,
		&a.IsCurrency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get accounting currency", "userID", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get accounting currency: %w", err)
	}

	return &a, nil
}

// SetAccountingCurrency selects the user's valuation asset, replacing any
// previous selection.
func (r *AssetRepository) SetAccountingCurrency(ctx context.Context, userID, assetID uuid.UUID) error {
	query := `
		INSERT INTO accounting_currencies (user_id, asset_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET asset_id = EXCLUDED.asset_id
	`

	_, err := r.querier.Exec(ctx, query, userID, assetID)
	if err != nil {
		r.logger.Error("Failed to set accounting currency", "userID", userID.String(), "error", err)
		return fmt.Errorf("failed to set accounting currency: %w", err)
	}

	return nil
}
