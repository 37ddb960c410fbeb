package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/ledger"
)

// TransactionServiceImpl implements the TransactionService interface by
// delegating mutations to the bookkeeping engine and serving reads directly
// from the repositories
type TransactionServiceImpl struct {
	engine       *bookkeeping.Engine
	guard        *bookkeeping.Guard
	transactions ledger.TransactionRepository
	entries      ledger.EntryRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	engine *bookkeeping.Engine,
	guard *bookkeeping.Guard,
	transactions ledger.TransactionRepository,
	entries ledger.EntryRepository,
) TransactionService {
	return &TransactionServiceImpl{
		engine:       engine,
		guard:        guard,
		transactions: transactions,
		entries:      entries,
	}
}

// RecordCapital books a capital contribution or drawing
func (s *TransactionServiceImpl) RecordCapital(ctx context.Context, userID uuid.UUID, in bookkeeping.CapitalInput) (*ledger.Transaction, error) {
	return s.engine.RecordCapital(ctx, userID, in)
}

// RecordIncome books an income receipt or expense
func (s *TransactionServiceImpl) RecordIncome(ctx context.Context, userID uuid.UUID, in bookkeeping.IncomeInput) (*ledger.Transaction, error) {
	return s.engine.RecordIncome(ctx, userID, in)
}

// RecordTransfer books an inter-account transfer
func (s *TransactionServiceImpl) RecordTransfer(ctx context.Context, userID uuid.UUID, in bookkeeping.TransferInput) (*ledger.Transaction, error) {
	return s.engine.RecordTransfer(ctx, userID, in)
}

// RecordTrade books a buy or sell
func (s *TransactionServiceImpl) RecordTrade(ctx context.Context, userID uuid.UUID, in bookkeeping.TradeInput) (*ledger.Transaction, error) {
	return s.engine.RecordTrade(ctx, userID, in)
}

// UpdateCapital edits a capital transaction as delete-then-recreate
func (s *TransactionServiceImpl) UpdateCapital(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.CapitalInput) (*ledger.Transaction, error) {
	return s.engine.UpdateCapital(ctx, userID, transactionID, in)
}

// UpdateIncome edits an income transaction as delete-then-recreate
func (s *TransactionServiceImpl) UpdateIncome(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.IncomeInput) (*ledger.Transaction, error) {
	return s.engine.UpdateIncome(ctx, userID, transactionID, in)
}

// UpdateTransfer edits a transfer transaction as delete-then-recreate
func (s *TransactionServiceImpl) UpdateTransfer(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.TransferInput) (*ledger.Transaction, error) {
	return s.engine.UpdateTransfer(ctx, userID, transactionID, in)
}

// UpdateTrade edits a trade transaction as delete-then-recreate
func (s *TransactionServiceImpl) UpdateTrade(ctx context.Context, userID, transactionID uuid.UUID, in bookkeeping.TradeInput) (*ledger.Transaction, error) {
	return s.engine.UpdateTrade(ctx, userID, transactionID, in)
}

// DeleteTransaction removes an economic event and its entry group
func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	return s.engine.DeleteTransaction(ctx, userID, transactionID)
}

// ListTransactions returns the user's headers annotated with kind, newest
// first, plus the total count
func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*ledger.TransactionInfo, int64, error) {
	offset := (page - 1) * perPage

	infos, err := s.transactions.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactions.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return infos, total, nil
}

// GetTransaction returns one header with its kind and full entry audit trail
func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*ledger.TransactionInfo, []*ledger.AuditEntry, error) {
	t, err := s.guard.Transaction(ctx, transactionID, userID)
	if err != nil {
		return nil, nil, err
	}

	kind, err := s.transactions.KindOf(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.entries.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	return &ledger.TransactionInfo{Transaction: *t, Kind: kind}, entries, nil
}
