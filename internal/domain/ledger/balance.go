package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the materialized holding of one asset in one account. It is
// written in the same database transaction as the entries it summarizes, so
// it cannot drift from the entry total under partial failure or concurrent
// composers.
type Balance struct {
	PortfolioAccountID uuid.UUID       `json:"portfolio_account_id"`
	AssetID            uuid.UUID       `json:"asset_id"`
	Amount             decimal.Decimal `json:"amount"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
