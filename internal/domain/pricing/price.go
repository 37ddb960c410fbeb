// Package pricing holds the historical price record and its collaborator
// interfaces. Prices pre-fill trade forms; they never participate in the
// ledger arithmetic.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Price is one stored historical quote for an asset on a date.
type Price struct {
	ID      uuid.UUID       `json:"id"`
	AssetID uuid.UUID       `json:"asset_id"`
	Date    time.Time       `json:"date"`
	Price   decimal.Decimal `json:"price"`
}

// Repository manages stored price records
type Repository interface {
	// Upsert stores the quote, replacing any existing one for (asset, date)
	Upsert(ctx context.Context, p *Price) error
	Get(ctx context.Context, assetID uuid.UUID, date time.Time) (*Price, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID, limit, offset int) ([]*Price, error)
	WithTx(tx pgx.Tx) Repository
}

// QuoteSource looks up one historical quote from an external provider.
// Implementations are expected to cache: the same (ticker, date) may be
// requested repeatedly while a user fills a form.
type QuoteSource interface {
	Quote(ctx context.Context, externalTicker string, date time.Time) (decimal.Decimal, error)
}

// ErrPriceNotFound indicates no stored quote for the (asset, date) pair
type ErrPriceNotFound struct {
	AssetID uuid.UUID
	Date    time.Time
}

func (e ErrPriceNotFound) Error() string {
	return "price not found for asset " + e.AssetID.String() + " on " + e.Date.Format("2006-01-02")
}

// Is implements the errors.Is interface for ErrPriceNotFound
func (e ErrPriceNotFound) Is(target error) bool {
	_, ok := target.(ErrPriceNotFound)
	return ok
}
