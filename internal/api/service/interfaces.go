package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for portfolio account operations
type AccountService interface {
	// CreateAccount creates an account and eagerly opens its ledgers.
	// Returns ErrDuplicateName if the user already has an account with
	// this name.
	CreateAccount(ctx context.Context, userID uuid.UUID, name string, displayOrder int) (*account.PortfolioAccount, error)

	// GetAccount retrieves one of the user's accounts.
	// Returns shared.ErrNotOwned when it exists but belongs to someone else.
	GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*account.PortfolioAccount, error)

	// ListAccounts returns all of the user's accounts in display order
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*account.PortfolioAccount, error)

	// UpdateAccount renames or reorders one of the user's accounts
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, name string, displayOrder int) (*account.PortfolioAccount, error)

	// DeleteAccount removes the account; cascades take its ledgers,
	// entries, and balances
	DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

// AssetService defines the interface for asset operations
type AssetService interface {
	// CreateAsset registers an asset and eagerly opens its ledgers.
	// Returns ErrDuplicateField on a ticker, name, or symbol collision.
	CreateAsset(ctx context.Context, userID uuid.UUID, in AssetInput) (*asset.Asset, error)

	GetAsset(ctx context.Context, userID, assetID uuid.UUID) (*asset.Asset, error)
	ListAssets(ctx context.Context, userID uuid.UUID) ([]*asset.Asset, error)
	UpdateAsset(ctx context.Context, userID, assetID uuid.UUID, in AssetInput) (*asset.Asset, error)
	DeleteAsset(ctx context.Context, userID, assetID uuid.UUID) error

	// GetAccountingCurrency returns the user's valuation asset, or nil if
	// none has been chosen yet
	GetAccountingCurrency(ctx context.Context, userID uuid.UUID) (*asset.Asset, error)
	SetAccountingCurrency(ctx context.Context, userID, assetID uuid.UUID) error
}

// AssetInput carries the user-editable asset metadata
type AssetInput struct {
	Ticker         string
	Name           string
	Symbol         *string
	Precision      int32
	PricePrecision int32
	IsCurrency     bool
}

// TransactionService defines the interface for ledger transaction operations
type TransactionService interface {
	RecordCapital(ctx context.Context, userID uuid.UUID, in bookkeeping.CapitalInput) (*ledger.Transaction, error)
	RecordIncome(ctx context.Context, userID uuid.UUID, in bookkeeping.IncomeInput) (*ledger.Transaction, error)
	RecordTransfer(ctx context.Context, userID uuid.UUID, in bookkeeping.TransferInput) (*ledger.Transaction, error)
	RecordTrade(ctx context.Context, userID uuid.UUID, in bookkeeping.TradeInput) (*ledger.Transaction, error)

	UpdateCapital(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.CapitalInput) (*ledger.Transaction, error)
	UpdateIncome(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.IncomeInput) (*ledger.Transaction, error)
	UpdateTransfer(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.TransferInput) (*ledger.Transaction, error)
	UpdateTrade(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.TradeInput) (*ledger.Transaction, error)

	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error

	// ListTransactions returns the user's headers annotated with kind,
	// newest first, plus the total count for pagination
	ListTransactions(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*ledger.TransactionInfo, int64, error)

	// GetTransaction returns one header with its full entry audit trail
	GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.TransactionInfo, []*ledger.AuditEntry, error)
}

// BalanceService defines the interface for reading materialized holdings
type BalanceService interface {
	// GetBalance returns the holding of one asset in one account; a
	// never-touched pair reads as zero
	GetBalance(ctx context.Context, userID, accountID, assetID uuid.UUID) (*ledger.Balance, error)

	ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*ledger.Balance, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Balance, error)

	// VerifyBalance recomputes the holding from the underlying entries and
	// returns it next to the cached value, for consistency checks
	VerifyBalance(ctx context.Context, userID, accountID, assetID uuid.UUID) (*BalanceCheck, error)
}

// BalanceCheck pairs a cached balance with the total recomputed from its
// ledger entries
type BalanceCheck struct {
	Cached     *ledger.Balance
	Recomputed *ledger.Balance
	Consistent bool
}

// PriceService defines the interface for historical price operations
type PriceService interface {
	// FetchPrice looks the quote up at the external source, stores it for
	// (asset, date), and returns it
	FetchPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time) (*pricing.Price, error)

	// SetPrice stores a manually entered quote, replacing any fetched one
	SetPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time, price decimal.Decimal) (*pricing.Price, error)

	GetPrice(ctx context.Context, userID, assetID uuid.UUID, date time.Time) (*pricing.Price, error)
	ListPrices(ctx context.Context, userID, assetID uuid.UUID, page, perPage int) ([]*pricing.Price, error)
}
