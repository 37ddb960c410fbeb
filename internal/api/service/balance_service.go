package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// BalanceServiceImpl implements the BalanceService interface
type BalanceServiceImpl struct {
	balances ledger.BalanceRepository
	ledgers  ledger.LedgerRepository
	entries  ledger.EntryRepository
	guard    *bookkeeping.Guard
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	balances ledger.BalanceRepository,
	ledgers ledger.LedgerRepository,
	entries ledger.EntryRepository,
	guard *bookkeeping.Guard,
) BalanceService {
	return &BalanceServiceImpl{
		balances: balances,
		ledgers:  ledgers,
		entries:  entries,
		guard:    guard,
	}
}

// GetBalance returns the holding of one asset in one account; a
// never-touched pair reads as zero
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, userID, accountID, assetID uuid.UUID) (*ledger.Balance, error) {
	if _, err := s.guard.Account(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if _, err := s.guard.Asset(ctx, assetID, userID); err != nil {
		return nil, err
	}
	return s.balances.Get(ctx, accountID, assetID)
}

// ListByAccount returns every holding in one of the user's accounts
func (s *BalanceServiceImpl) ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*ledger.Balance, error) {
	if _, err := s.guard.Account(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.balances.ListByAccount(ctx, accountID)
}

// ListByUser returns every holding across the user's accounts
func (s *BalanceServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Balance, error) {
	return s.balances.ListByUser(ctx, userID)
}

// VerifyBalance recomputes the holding of one (account, asset) pair from
// the signed entries in its asset and liability ledgers and compares it to
// the materialized value. The two can only disagree on a bug or manual
// database surgery.
func (s *BalanceServiceImpl) VerifyBalance(ctx context.Context, userID, accountID, assetID uuid.UUID) (*BalanceCheck, error) {
	cached, err := s.GetBalance(ctx, userID, accountID, assetID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range ledger.Types {
		if !t.Holding() {
			continue
		}
		l, err := s.ledgers.Get(ctx, accountID, assetID, t)
		if err != nil {
			return nil, err
		}
		if l == nil {
			continue
		}
		sum, err := s.entries.SumByLedger(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		total = total.Add(sum)
	}

	recomputed := &ledger.Balance{
		PortfolioAccountID: accountID,
		AssetID:            assetID,
		Amount:             total,
	}

	return &BalanceCheck{
		Cached:     cached,
		Recomputed: recomputed,
		Consistent: cached.Amount.Equal(total),
	}, nil
}
