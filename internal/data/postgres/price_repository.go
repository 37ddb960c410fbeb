package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/portfolio-ledger/internal/platform/persistence"
)

// PriceRepository implements the pricing.Repository interface for PostgreSQL
type PriceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPriceRepository creates a new PostgreSQL price repository
func NewPriceRepository(logger *slog.Logger, db *persistence.PostgresDB) pricing.Repository {
	return &PriceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *PriceRepository) WithTx(tx pgx.Tx) pricing.Repository {
	return &PriceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert stores the quote, replacing any existing one for (asset, date)
func (r *PriceRepository) Upsert(ctx context.Context, p *pricing.Price) error {
	query := `
		INSERT INTO prices (id, asset_id, date, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (asset_id, date) DO UPDATE SET price = EXCLUDED.price
	`

	_, err := r.querier.Exec(ctx, query, p.ID, p.AssetID, p.Date, p.Price)
	if err != nil {
		r.logger.Error("Failed to upsert price", "assetID", p.AssetID.String(), "error", err)
		return fmt.Errorf("failed to upsert price: %w", err)
	}

	return nil
}

// Get retrieves the stored quote for (asset, date)
func (r *PriceRepository) Get(ctx context.Context, assetID uuid.UUID, date time.Time) (*pricing.Price, error) {
	query := `
		SELECT id, asset_id, date, price
		FROM prices
		WHERE asset_id = $1 AND date = $2
	`

	var p pricing.Price
	err := r.querier.QueryRow(ctx, query, assetID, date).Scan(&p.ID, &p.AssetID, &p.Date, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricing.ErrPriceNotFound{AssetID: assetID, Date: date}
		}
		r.logger.Error("Failed to get price", "assetID", assetID.String(), "error", err)
		return nil, fmt.Errorf("failed to get price: %w", err)
	}

	return &p, nil
}

// ListByAsset retrieves stored quotes for an asset, newest first
func (r *PriceRepository) ListByAsset(ctx context.Context, assetID uuid.UUID, limit, offset int) ([]*pricing.Price, error) {
	query := `
		SELECT id, asset_id, date, price
		FROM prices
		WHERE asset_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, assetID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list prices", "assetID", assetID.String(), "error", err)
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	var prices []*pricing.Price
	for rows.Next() {
		var p pricing.Price
		if err := rows.Scan(&p.ID, &p.AssetID, &p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	return prices, nil
}
