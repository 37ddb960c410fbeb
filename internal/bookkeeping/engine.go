// Package bookkeeping implements the double-entry ledger engine: it turns a
// user-facing economic event into a balanced group of signed entries across
// per-(account, asset, kind) ledgers, written atomically together with the
// transaction header and linking record. Entries are immutable; editing an
// event deletes the old group and composes a fresh one.
package bookkeeping

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// Engine composes, edits, and deletes ledger transaction groups. Every
// mutation runs inside a single database transaction and rolls back as a
// whole: callers never observe a half-written economic event.
type Engine struct {
	db           *persistence.PostgresDB
	guard        *Guard
	directory    *Directory
	entries      ledger.EntryRepository
	transactions ledger.TransactionRepository
	balances     ledger.BalanceRepository
	logger       *slog.Logger
}

// NewEngine creates the composer engine over its collaborators
func NewEngine(
	logger *slog.Logger,
	db *persistence.PostgresDB,
	guard *Guard,
	directory *Directory,
	entries ledger.EntryRepository,
	transactions ledger.TransactionRepository,
	balances ledger.BalanceRepository,
) *Engine {
	return &Engine{
		db:           db,
		guard:        guard,
		directory:    directory,
		entries:      entries,
		transactions: transactions,
		balances:     balances,
		logger:       logger,
	}
}

// Header carries the user-facing metadata of a transaction
type Header struct {
	Title       string
	Description *string
	Date        time.Time
}

// CapitalInput describes a capital contribution or drawing
type CapitalInput struct {
	Header
	AccountID uuid.UUID
	AssetID   uuid.UUID
	Amount    decimal.Decimal // strictly positive
	Fee       decimal.Decimal // zero when no fee was charged
	Drawing   bool            // true withdraws capital instead of contributing
}

// IncomeInput describes an income receipt or expense. Expenses pass Amount
// already negated.
type IncomeInput struct {
	Header
	AccountID uuid.UUID
	AssetID   uuid.UUID
	Amount    decimal.Decimal
}

// TransferInput describes an inter-account transfer of one asset
type TransferInput struct {
	Header
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	AssetID         uuid.UUID
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	// FeeInclusive means Amount already contains the fee, so the target
	// receives Amount − Fee
	FeeInclusive bool
}

// TradeInput describes a buy or sell of BaseAsset priced in QuoteAsset,
// inside one account. The optional fee is charged in FeeAssetID, which must
// be the base or the quote asset.
type TradeInput struct {
	Header
	AccountID    uuid.UUID
	BaseAssetID  uuid.UUID
	QuoteAssetID uuid.UUID
	BaseAmount   decimal.Decimal
	QuoteAmount  decimal.Decimal
	Buy          bool
	FeeAssetID   *uuid.UUID
	Fee          decimal.Decimal
}

// RecordCapital books a capital contribution or drawing
func (e *Engine) RecordCapital(ctx context.Context, userID uuid.UUID, in CapitalInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = e.recordCapital(ctx, tx, userID, in)
		return err
	})
	return out, err
}

func (e *Engine) recordCapital(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in CapitalInput) (*ledger.Transaction, error) {
	guard := e.guard.WithTx(tx)
	if _, err := guard.Account(ctx, in.AccountID, userID); err != nil {
		return nil, err
	}
	a, err := guard.Asset(ctx, in.AssetID, userID)
	if err != nil {
		return nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount{Field: "amount", Value: in.Amount}
	}
	if in.Fee.IsNegative() {
		return nil, ErrNegativeFee{Value: in.Fee}
	}

	header := ledger.NewTransaction(userID, in.Title, in.Description, in.Date)
	ids, err := e.applyPlan(ctx, tx, header, planCapital(in.AccountID, a, in.Amount, in.Fee, in.Drawing))
	if err != nil {
		return nil, err
	}

	link := &ledger.CapitalLink{
		TransactionID:    header.ID,
		AssetEntryID:     ids[slotAsset],
		CapitalEntryID:   ids[slotCapital],
		FeeAssetEntryID:  optionalID(ids, slotFeeAsset),
		FeeIncomeEntryID: optionalID(ids, slotFeeIncome),
	}
	if err := e.transactions.WithTx(tx).InsertCapitalLink(ctx, link); err != nil {
		return nil, err
	}

	e.logger.Info("Recorded capital transaction", "transaction_id", header.ID.String(), "drawing", in.Drawing)
	return header, nil
}

// RecordIncome books an income receipt or expense
func (e *Engine) RecordIncome(ctx context.Context, userID uuid.UUID, in IncomeInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = e.recordIncome(ctx, tx, userID, in)
		return err
	})
	return out, err
}

func (e *Engine) recordIncome(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in IncomeInput) (*ledger.Transaction, error) {
	guard := e.guard.WithTx(tx)
	if _, err := guard.Account(ctx, in.AccountID, userID); err != nil {
		return nil, err
	}
	a, err := guard.Asset(ctx, in.AssetID, userID)
	if err != nil {
		return nil, err
	}

	if in.Amount.IsZero() {
		return nil, ErrZeroAmount{Field: "amount"}
	}

	header := ledger.NewTransaction(userID, in.Title, in.Description, in.Date)
	ids, err := e.applyPlan(ctx, tx, header, planIncome(in.AccountID, a, in.Amount))
	if err != nil {
		return nil, err
	}

	link := &ledger.IncomeLink{
		TransactionID: header.ID,
		AssetEntryID:  ids[slotAsset],
		IncomeEntryID: ids[slotIncome],
	}
	if err := e.transactions.WithTx(tx).InsertIncomeLink(ctx, link); err != nil {
		return nil, err
	}

	e.logger.Info("Recorded income transaction", "transaction_id", header.ID.String())
	return header, nil
}

// RecordTransfer books an inter-account transfer
func (e *Engine) RecordTransfer(ctx context.Context, userID uuid.UUID, in TransferInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = e.recordTransfer(ctx, tx, userID, in)
		return err
	})
	return out, err
}

func (e *Engine) recordTransfer(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in TransferInput) (*ledger.Transaction, error) {
	if in.SourceAccountID == in.TargetAccountID {
		return nil, ErrInvalidCombination{Reason: "transfer source and target accounts must differ"}
	}

	guard := e.guard.WithTx(tx)
	if _, err := guard.Account(ctx, in.SourceAccountID, userID); err != nil {
		return nil, err
	}
	if _, err := guard.Account(ctx, in.TargetAccountID, userID); err != nil {
		return nil, err
	}
	a, err := guard.Asset(ctx, in.AssetID, userID)
	if err != nil {
		return nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount{Field: "amount", Value: in.Amount}
	}
	if in.Fee.IsNegative() {
		return nil, ErrNegativeFee{Value: in.Fee}
	}
	if in.FeeInclusive && in.Fee.GreaterThanOrEqual(in.Amount) {
		return nil, ErrInvalidCombination{Reason: "fee-inclusive fee must be smaller than the transfer amount"}
	}

	header := ledger.NewTransaction(userID, in.Title, in.Description, in.Date)
	plan := planTransfer(in.SourceAccountID, in.TargetAccountID, a, in.Amount, in.Fee, in.FeeInclusive)
	ids, err := e.applyPlan(ctx, tx, header, plan)
	if err != nil {
		return nil, err
	}

	link := &ledger.TransferLink{
		TransactionID:        header.ID,
		SourceAssetEntryID:   ids[slotSourceAsset],
		SourceCapitalEntryID: ids[slotSourceCapital],
		TargetAssetEntryID:   ids[slotTargetAsset],
		TargetCapitalEntryID: ids[slotTargetCapital],
		FeeAssetEntryID:      optionalID(ids, slotFeeAsset),
		FeeIncomeEntryID:     optionalID(ids, slotFeeIncome),
	}
	if err := e.transactions.WithTx(tx).InsertTransferLink(ctx, link); err != nil {
		return nil, err
	}

	e.logger.Info("Recorded transfer transaction", "transaction_id", header.ID.String())
	return header, nil
}

// RecordTrade books a buy or sell
func (e *Engine) RecordTrade(ctx context.Context, userID uuid.UUID, in TradeInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = e.recordTrade(ctx, tx, userID, in)
		return err
	})
	return out, err
}

func (e *Engine) recordTrade(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in TradeInput) (*ledger.Transaction, error) {
	if in.BaseAssetID == in.QuoteAssetID {
		return nil, ErrInvalidCombination{Reason: "trade base and quote assets must differ"}
	}

	guard := e.guard.WithTx(tx)
	if _, err := guard.Account(ctx, in.AccountID, userID); err != nil {
		return nil, err
	}
	baseAsset, err := guard.Asset(ctx, in.BaseAssetID, userID)
	if err != nil {
		return nil, err
	}
	quoteAsset, err := guard.Asset(ctx, in.QuoteAssetID, userID)
	if err != nil {
		return nil, err
	}

	if !in.BaseAmount.IsPositive() {
		return nil, ErrNonPositiveAmount{Field: "base amount", Value: in.BaseAmount}
	}
	if !in.QuoteAmount.IsPositive() {
		return nil, ErrNonPositiveAmount{Field: "quote amount", Value: in.QuoteAmount}
	}
	if in.Fee.IsNegative() {
		return nil, ErrNegativeFee{Value: in.Fee}
	}

	var feeAsset *asset.Asset
	if in.Fee.IsPositive() {
		if in.FeeAssetID == nil {
			return nil, ErrInvalidCombination{Reason: "trade fee requires a fee asset"}
		}
		switch *in.FeeAssetID {
		case in.BaseAssetID:
			feeAsset = baseAsset
		case in.QuoteAssetID:
			feeAsset = quoteAsset
		default:
			return nil, ErrInvalidCombination{Reason: "trade fee asset must be the base or quote asset"}
		}
	}

	header := ledger.NewTransaction(userID, in.Title, in.Description, in.Date)
	plan := planTrade(in.AccountID, baseAsset, quoteAsset, in.BaseAmount, in.QuoteAmount, in.Buy, feeAsset, in.Fee)
	ids, err := e.applyPlan(ctx, tx, header, plan)
	if err != nil {
		return nil, err
	}

	link := &ledger.TradeLink{
		TransactionID:      header.ID,
		BaseAssetEntryID:   ids[slotBaseAsset],
		BaseIncomeEntryID:  ids[slotBaseIncome],
		QuoteAssetEntryID:  ids[slotQuoteAsset],
		QuoteIncomeEntryID: ids[slotQuoteIncome],
		FeeAssetEntryID:    optionalID(ids, slotFeeAsset),
		FeeIncomeEntryID:   optionalID(ids, slotFeeIncome),
	}
	if err := e.transactions.WithTx(tx).InsertTradeLink(ctx, link); err != nil {
		return nil, err
	}

	e.logger.Info("Recorded trade transaction", "transaction_id", header.ID.String(), "buy", in.Buy)
	return header, nil
}

// DeleteTransaction removes an economic event. Deleting the header cascades
// to the linking record and every entry of the group; ledger rows persist
// even when left empty. The materialized balances are decremented by the
// deleted entries' amounts in the same commit.
func (e *Engine) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	return e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return e.deleteTransaction(ctx, tx, userID, transactionID)
	})
}

func (e *Engine) deleteTransaction(ctx context.Context, tx pgx.Tx, userID, transactionID uuid.UUID) error {
	if _, err := e.guard.WithTx(tx).Transaction(ctx, transactionID, userID); err != nil {
		return err
	}
	return e.removeGroup(ctx, tx, transactionID)
}

// removeGroup unwinds an already-guarded transaction: callers must have
// proven ownership before reaching here.
func (e *Engine) removeGroup(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) error {
	// Reverse the balance contributions before the cascade removes the
	// entries they came from.
	entries, err := e.entries.WithTx(tx).ListByTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	balances := e.balances.WithTx(tx)
	for _, entry := range entries {
		if entry.LedgerType.Holding() {
			if err := balances.ApplyDelta(ctx, entry.AccountID, entry.AssetID, entry.Amount.Neg()); err != nil {
				return err
			}
		}
	}

	if err := e.transactions.WithTx(tx).Delete(ctx, transactionID); err != nil {
		return err
	}

	e.logger.Info("Deleted transaction", "transaction_id", transactionID.String())
	return nil
}

// UpdateCapital edits a capital transaction by deleting the old group and
// composing a fresh one in the same database transaction. Patching entries
// in place would mean re-deriving every dependent sign and ledger, which
// composing fresh already does correctly.
func (e *Engine) UpdateCapital(ctx context.Context, userID, transactionID uuid.UUID, in CapitalInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.checkKindAndDelete(ctx, tx, userID, transactionID, ledger.KindCapital); err != nil {
			return err
		}
		var err error
		out, err = e.recordCapital(ctx, tx, userID, in)
		return err
	})
	return out, err
}

// UpdateIncome edits an income transaction as delete-then-recreate
func (e *Engine) UpdateIncome(ctx context.Context, userID, transactionID uuid.UUID, in IncomeInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.checkKindAndDelete(ctx, tx, userID, transactionID, ledger.KindIncome); err != nil {
			return err
		}
		var err error
		out, err = e.recordIncome(ctx, tx, userID, in)
		return err
	})
	return out, err
}

// UpdateTransfer edits a transfer transaction as delete-then-recreate
func (e *Engine) UpdateTransfer(ctx context.Context, userID, transactionID uuid.UUID, in TransferInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.checkKindAndDelete(ctx, tx, userID, transactionID, ledger.KindTransfer); err != nil {
			return err
		}
		var err error
		out, err = e.recordTransfer(ctx, tx, userID, in)
		return err
	})
	return out, err
}

// UpdateTrade edits a trade transaction as delete-then-recreate
func (e *Engine) UpdateTrade(ctx context.Context, userID, transactionID uuid.UUID, in TradeInput) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.checkKindAndDelete(ctx, tx, userID, transactionID, ledger.KindTrade); err != nil {
			return err
		}
		var err error
		out, err = e.recordTrade(ctx, tx, userID, in)
		return err
	})
	return out, err
}

// checkKindAndDelete guards the transaction before anything else: a caller
// addressing someone else's transaction learns nothing about it, not even
// its kind.
func (e *Engine) checkKindAndDelete(ctx context.Context, tx pgx.Tx, userID, transactionID uuid.UUID, want ledger.Kind) error {
	if _, err := e.guard.WithTx(tx).Transaction(ctx, transactionID, userID); err != nil {
		return err
	}
	kind, err := e.transactions.WithTx(tx).KindOf(ctx, transactionID)
	if err != nil {
		return err
	}
	if kind != want {
		return ErrKindMismatch{Want: want, Got: kind}
	}
	return e.removeGroup(ctx, tx, transactionID)
}

// applyPlan writes one balanced entry group: validate the plan, insert the
// header, resolve each line's ledger, insert the entries, and fold each
// holding-side amount into the materialized balance. Runs entirely inside
// the caller's transaction so a failure anywhere discards everything.
func (e *Engine) applyPlan(ctx context.Context, tx pgx.Tx, header *ledger.Transaction, plan entryPlan) (map[slot]uuid.UUID, error) {
	if err := plan.validate(); err != nil {
		return nil, err
	}

	directory := e.directory.WithTx(tx)
	entries := e.entries.WithTx(tx)
	balances := e.balances.WithTx(tx)

	if err := e.transactions.WithTx(tx).Insert(ctx, header); err != nil {
		return nil, err
	}

	ids := make(map[slot]uuid.UUID, len(plan))
	for _, line := range plan {
		l, err := directory.Resolve(ctx, line.accountID, line.asset.ID, line.kind)
		if err != nil {
			return nil, err
		}

		entry := &ledger.Entry{
			ID:            uuid.New(),
			LedgerID:      l.ID,
			TransactionID: header.ID,
			Amount:        line.amount,
		}
		if err := entries.Insert(ctx, entry); err != nil {
			return nil, err
		}
		ids[line.slot] = entry.ID

		if line.kind.Holding() {
			if err := balances.ApplyDelta(ctx, line.accountID, line.asset.ID, line.amount); err != nil {
				return nil, err
			}
		}
	}

	return ids, nil
}

func optionalID(ids map[slot]uuid.UUID, s slot) *uuid.UUID {
	id, ok := ids[s]
	if !ok {
		return nil
	}
	return &id
}
