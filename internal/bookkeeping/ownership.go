package bookkeeping

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
)

// Guard proves that referenced entities belong to the requesting user. Every
// composer runs its checks before any write; a failed check aborts the whole
// operation. This is what keeps a forged or stale id from booking entries
// against another user's account or asset.
type Guard struct {
	accounts     account.Repository
	assets       asset.Repository
	transactions ledger.TransactionRepository
}

// NewGuard creates an ownership guard over the given repositories
func NewGuard(accounts account.Repository, assets asset.Repository, transactions ledger.TransactionRepository) *Guard {
	return &Guard{
		accounts:     accounts,
		assets:       assets,
		transactions: transactions,
	}
}

// WithTx scopes the guard's checks to a database transaction
func (g *Guard) WithTx(tx pgx.Tx) *Guard {
	return &Guard{
		accounts:     g.accounts.WithTx(tx),
		assets:       g.assets.WithTx(tx),
		transactions: g.transactions.WithTx(tx),
	}
}

// Account returns the portfolio account if it exists and belongs to userID
func (g *Guard) Account(ctx context.Context, id, userID uuid.UUID) (*account.PortfolioAccount, error) {
	acc, err := g.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, shared.ErrNotOwned{Entity: "portfolio account", EntityID: id, UserID: userID}
	}
	return acc, nil
}

// Asset returns the asset if it exists and belongs to userID
func (g *Guard) Asset(ctx context.Context, id, userID uuid.UUID) (*asset.Asset, error) {
	a, err := g.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, shared.ErrNotOwned{Entity: "asset", EntityID: id, UserID: userID}
	}
	return a, nil
}

// Transaction returns the transaction header if it exists and belongs to userID
func (g *Guard) Transaction(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error) {
	t, err := g.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, shared.ErrNotOwned{Entity: "transaction", EntityID: id, UserID: userID}
	}
	return t, nil
}
