package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepository manages ledger-row persistence. Ledgers are only ever
// inserted (lazily, by the directory) and read; deletion happens purely by
// cascade.
type LedgerRepository interface {
	// Get returns the ledger for the triple, or nil if it does not exist yet
	Get(ctx context.Context, accountID, assetID uuid.UUID, t Type) (*Ledger, error)
	// Insert stores a new ledger row; returns ErrLedgerExists when another
	// writer already created the same triple
	Insert(ctx context.Context, l *Ledger) error
	WithTx(tx pgx.Tx) LedgerRepository
}

// EntryRepository manages signed ledger entries
type EntryRepository interface {
	Insert(ctx context.Context, e *Entry) error
	// ListByTransaction returns the entries of one group joined with their
	// ledger, account, and asset, forming the audit trail of the event
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*AuditEntry, error)
	// SumByLedger recomputes a ledger's running total from its entries;
	// used to verify the materialized balance, never on the read path
	SumByLedger(ctx context.Context, ledgerID uuid.UUID) (decimal.Decimal, error)
	WithTx(tx pgx.Tx) EntryRepository
}

// TransactionRepository manages transaction headers and the linking records
// grouping their entries
type TransactionRepository interface {
	Insert(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// ListByUser returns headers annotated with their kind, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*TransactionInfo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Delete removes the header; foreign-key cascades take the linking
	// record and every entry with it
	Delete(ctx context.Context, id uuid.UUID) error

	InsertCapitalLink(ctx context.Context, l *CapitalLink) error
	InsertTransferLink(ctx context.Context, l *TransferLink) error
	InsertTradeLink(ctx context.Context, l *TradeLink) error
	InsertIncomeLink(ctx context.Context, l *IncomeLink) error
	// KindOf resolves which linking record a transaction carries
	KindOf(ctx context.Context, transactionID uuid.UUID) (Kind, error)

	WithTx(tx pgx.Tx) TransactionRepository
}

// BalanceRepository manages the materialized per (account, asset) totals
type BalanceRepository interface {
	// Get returns the balance, or a zero balance for a never-touched pair
	Get(ctx context.Context, accountID, assetID uuid.UUID) (*Balance, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Balance, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Balance, error)
	// ApplyDelta atomically adds the signed delta to the pair's balance,
	// creating the row on first touch. Must run inside the same transaction
	// as the entries producing the delta.
	ApplyDelta(ctx context.Context, accountID, assetID uuid.UUID, delta decimal.Decimal) error
	WithTx(tx pgx.Tx) BalanceRepository
}

// ErrTransactionNotFound indicates missing transaction header
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrLedgerExists indicates a concurrent writer created the same
// (account, asset, type) ledger first. Not a failure: the directory
// re-reads and continues with the existing row.
type ErrLedgerExists struct {
	PortfolioAccountID uuid.UUID
	AssetID            uuid.UUID
	Type               Type
}

func (e ErrLedgerExists) Error() string {
	return "ledger already exists for account " + e.PortfolioAccountID.String() +
		", asset " + e.AssetID.String() + ", type " + string(e.Type)
}

// Is implements the errors.Is interface for ErrLedgerExists
func (e ErrLedgerExists) Is(target error) bool {
	_, ok := target.(ErrLedgerExists)
	return ok
}
