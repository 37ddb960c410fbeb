// Package ledger holds the double-entry bookkeeping entities: ledgers,
// signed entries, transaction headers, the linking records that group
// entries into economic events, and the materialized balance.
package ledger

import (
	"github.com/google/uuid"
)

// Type classifies which side of the double-entry equation a ledger
// represents.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeCapital   Type = "capital"
	TypeIncome    Type = "income"
)

// Types lists every ledger kind, in creation order.
var Types = []Type{TypeAsset, TypeLiability, TypeCapital, TypeIncome}

// Valid reports whether t is one of the four ledger kinds.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeCapital, TypeIncome:
		return true
	}
	return false
}

// Holding reports whether entries in a ledger of this kind represent actual
// holdings. Asset and liability entries carry the real position; capital and
// income entries are their balancing mirrors.
func (t Type) Holding() bool {
	return t == TypeAsset || t == TypeLiability
}

// Ledger is the T-account for one (account, asset, kind) triple. Created
// lazily on first use, write-once-then-stable, removed only by cascade from
// its account or asset.
type Ledger struct {
	ID                 uuid.UUID `json:"id"`
	PortfolioAccountID uuid.UUID `json:"portfolio_account_id"`
	AssetID            uuid.UUID `json:"asset_id"`
	Type               Type      `json:"type"`
}
