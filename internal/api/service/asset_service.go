package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/asset"
)

// AssetServiceImpl implements the AssetService interface
type AssetServiceImpl struct {
	assets    asset.Repository
	guard     *bookkeeping.Guard
	directory *bookkeeping.Directory
}

// NewAssetService creates a new asset service
func NewAssetService(assets asset.Repository, guard *bookkeeping.Guard, directory *bookkeeping.Directory) AssetService {
	return &AssetServiceImpl{
		assets:    assets,
		guard:     guard,
		directory: directory,
	}
}

// CreateAsset registers a new asset and eagerly opens its ledgers against
// the user's existing accounts
func (s *AssetServiceImpl) CreateAsset(ctx context.Context, userID uuid.UUID, in AssetInput) (*asset.Asset, error) {
	a, err := asset.NewAsset(userID, in.Ticker, in.Name, in.Symbol, in.Precision, in.PricePrecision, in.IsCurrency)
	if err != nil {
		return nil, err
	}

	if err := s.assets.Create(ctx, a); err != nil {
		return nil, err
	}

	s.directory.InitLedgersForAsset(ctx, a)

	return a, nil
}

// GetAsset retrieves one of the user's assets
func (s *AssetServiceImpl) GetAsset(ctx context.Context, userID, assetID uuid.UUID) (*asset.Asset, error) {
	return s.guard.Asset(ctx, assetID, userID)
}

// ListAssets returns all of the user's assets
func (s *AssetServiceImpl) ListAssets(ctx context.Context, userID uuid.UUID) ([]*asset.Asset, error) {
	return s.assets.ListByUser(ctx, userID)
}

// UpdateAsset changes an asset's metadata. Tightening the precision does
// not touch existing entries; it only binds future ones.
func (s *AssetServiceImpl) UpdateAsset(ctx context.Context, userID, assetID uuid.UUID, in AssetInput) (*asset.Asset, error) {
	a, err := s.guard.Asset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	// Revalidate through the constructor so metadata rules stay in one place.
	updated, err := asset.NewAsset(userID, in.Ticker, in.Name, in.Symbol, in.Precision, in.PricePrecision, in.IsCurrency)
	if err != nil {
		return nil, err
	}
	a.Ticker = updated.Ticker
	a.Name = updated.Name
	a.Symbol = updated.Symbol
	a.Precision = updated.Precision
	a.PricePrecision = updated.PricePrecision
	a.IsCurrency = updated.IsCurrency
	a.UpdatedAt = updated.UpdatedAt

	if err := s.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAsset removes the asset; database cascades take its ledgers,
// entries, balances, and stored prices
func (s *AssetServiceImpl) DeleteAsset(ctx context.Context, userID, assetID uuid.UUID) error {
	if _, err := s.guard.Asset(ctx, assetID, userID); err != nil {
		return err
	}
	return s.assets.Delete(ctx, assetID)
}

// GetAccountingCurrency returns the user's valuation asset, or nil if unset
func (s *AssetServiceImpl) GetAccountingCurrency(ctx context.Context, userID uuid.UUID) (*asset.Asset, error) {
	return s.assets.GetAccountingCurrency(ctx, userID)
}

// SetAccountingCurrency selects the user's valuation asset
func (s *AssetServiceImpl) SetAccountingCurrency(ctx context.Context, userID, assetID uuid.UUID) error {
	if _, err := s.guard.Asset(ctx, assetID, userID); err != nil {
		return err
	}
	return s.assets.SetAccountingCurrency(ctx, userID, assetID)
}
