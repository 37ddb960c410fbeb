package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// PriceServiceImpl implements the PriceService interface
type PriceServiceImpl struct {
	prices pricing.Repository
	quotes pricing.QuoteSource
	guard  *bookkeeping.Guard
}

// NewPriceService creates a new price service
func NewPriceService(prices pricing.Repository, quotes pricing.QuoteSource, guard *bookkeeping.Guard) PriceService {
	return &PriceServiceImpl{
		prices: prices,
		quotes: quotes,
		guard:  guard,
	}
}

// FetchPrice looks the quote up at the external source under the asset's
// ticker, stores it for (asset, date), and returns it. External quotes are
// rounded to the asset's price precision; only user-entered values are
// held to the reject-never-round rule.
func (s *PriceServiceImpl) FetchPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time) (*pricing.Price, error) {
	a, err := s.guard.Asset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Quote(ctx, a.Ticker, date)
	if err != nil {
		return nil, err
	}

	p := &pricing.Price{
		ID:      uuid.New(),
		AssetID: assetID,
		Date:    date,
		Price:   quote.Round(a.PricePrecision),
	}
	if err := s.prices.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPrice stores a manually entered quote, replacing any fetched one
func (s *PriceServiceImpl) SetPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time, price decimal.Decimal) (*pricing.Price, error) {
	a, err := s.guard.Asset(ctx, assetID, userID)
	if err != nil {
		return nil, err
	}

	if err := a.ValidatePrice(price); err != nil {
		return nil, err
	}

	p := &pricing.Price{
		ID:      uuid.New(),
		AssetID: assetID,
		Date:    date,
		Price:   price,
	}
	if err := s.prices.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPrice returns the stored quote for (asset, date)
func (s *PriceServiceImpl) GetPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time) (*pricing.Price, error) {
	if _, err := s.guard.Asset(ctx, assetID, userID); err != nil {
		return nil, err
	}
	return s.prices.Get(ctx, assetID, date)
}

// ListPrices returns the stored quotes for an asset, newest first
func (s *PriceServiceImpl) ListPrices(ctx context.Context, userID, assetID uuid.UUID, page, perPage int) ([]*pricing.Price, error) {
	if _, err := s.guard.Asset(ctx, assetID, userID); err != nil {
		return nil, err
	}
	offset := (page - 1) * perPage
	return s.prices.ListByAsset(ctx, assetID, perPage, offset)
}
