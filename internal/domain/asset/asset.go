package asset

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPrecision bounds the fractional digits storable for any amount or
// price; it matches the NUMERIC(100, 20) column type.
const MaxPrecision = 20

// Common errors
var (
	ErrEmptyTicker      = errors.New("asset ticker cannot be empty")
	ErrEmptyName        = errors.New("asset name cannot be empty")
	ErrInvalidPrecision = errors.New("precision must be between 0 and 20")
)

// Asset is a holdable instrument (currency, security, crypto) owned by one
// user. Its precision fields bound the fractional digits legal for amounts
// and price quotes; the ledger engine reads them but never mutates them.
type Asset struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Ticker         string    `json:"ticker"`
	Name           string    `json:"name"`
	Symbol         *string   `json:"symbol,omitempty"`
	Precision      int32     `json:"precision"`
	PricePrecision int32     `json:"price_precision"`
	IsCurrency     bool      `json:"is_currency"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAsset creates a new asset with the given metadata
func NewAsset(userID uuid.UUID, ticker, name string, symbol *string, precision, pricePrecision int32, isCurrency bool) (*Asset, error) {
	if ticker == "" {
		return nil, ErrEmptyTicker
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if precision < 0 || precision > MaxPrecision || pricePrecision < 0 || pricePrecision > MaxPrecision {
		return nil, ErrInvalidPrecision
	}

	now := time.Now()
	return &Asset{
		ID:             uuid.New(),
		UserID:         userID,
		Ticker:         ticker,
		Name:           name,
		Symbol:         symbol,
		Precision:      precision,
		PricePrecision: pricePrecision,
		IsCurrency:     isCurrency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ValidateAmount rejects amounts carrying significant fractional digits
// beyond the asset's precision. Trailing zeros are not significant, so
// "1.2300" is legal for precision 2 while "1.235" is not.
func (a *Asset) ValidateAmount(amount decimal.Decimal) error {
	if !amount.Truncate(a.Precision).Equal(amount) {
		return ErrPrecisionExceeded{Ticker: a.Ticker, Precision: a.Precision, Value: amount}
	}
	return nil
}

// ValidatePrice applies the same check against the asset's price precision.
func (a *Asset) ValidatePrice(price decimal.Decimal) error {
	if !price.Truncate(a.PricePrecision).Equal(price) {
		return ErrPrecisionExceeded{Ticker: a.Ticker, Precision: a.PricePrecision, Value: price}
	}
	return nil
}

// ErrPrecisionExceeded indicates a value with more significant fractional
// digits than the asset allows. Values are rejected, never silently rounded.
type ErrPrecisionExceeded struct {
	Ticker    string
	Precision int32
	Value     decimal.Decimal
}

func (e ErrPrecisionExceeded) Error() string {
	return fmt.Sprintf("value %s exceeds precision %d of asset %s", e.Value, e.Precision, e.Ticker)
}

// Is implements the errors.Is interface for ErrPrecisionExceeded
func (e ErrPrecisionExceeded) Is(target error) bool {
	_, ok := target.(ErrPrecisionExceeded)
	return ok
}
