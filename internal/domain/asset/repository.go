package asset

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines asset persistence operations
type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Asset, error)
	Update(ctx context.Context, a *Asset) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetAccountingCurrency returns the user's valuation asset, or nil if unset
	GetAccountingCurrency(ctx context.Context, userID uuid.UUID) (*Asset, error)
	SetAccountingCurrency(ctx context.Context, userID, assetID uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrAssetNotFound indicates missing asset
type ErrAssetNotFound struct {
	AssetID uuid.UUID
}

func (e ErrAssetNotFound) Error() string {
	return "asset not found: " + e.AssetID.String()
}

// Is implements the errors.Is interface for ErrAssetNotFound
func (e ErrAssetNotFound) Is(target error) bool {
	t, ok := target.(ErrAssetNotFound)
	if !ok {
		return false
	}
	if t.AssetID == uuid.Nil {
		return true
	}
	return e.AssetID == t.AssetID
}

// ErrDuplicateField indicates an asset uniqueness violation on one of the
// per-user unique columns (ticker, name, symbol). Field names the column so
// callers can surface a field-level validation error.
type ErrDuplicateField struct {
	Field string
	Value string
}

func (e ErrDuplicateField) Error() string {
	return "asset with this " + e.Field + " already exists: " + e.Value
}
