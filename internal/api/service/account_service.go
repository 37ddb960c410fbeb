package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accounts  account.Repository
	guard     *bookkeeping.Guard
	directory *bookkeeping.Directory
}

// NewAccountService creates a new account service
func NewAccountService(accounts account.Repository, guard *bookkeeping.Guard, directory *bookkeeping.Directory) AccountService {
	return &AccountServiceImpl{
		accounts:  accounts,
		guard:     guard,
		directory: directory,
	}
}

// CreateAccount creates a new portfolio account and eagerly opens its ledgers
// against the user's existing assets
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID uuid.UUID, name string, displayOrder int) (*account.PortfolioAccount, error) {
	acc, err := account.NewPortfolioAccount(userID, name, displayOrder)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	// Best effort: any pair missed here is created lazily on first use.
	s.directory.InitLedgersForAccount(ctx, acc)

	return acc, nil
}

// GetAccount retrieves one of the user's accounts
func (s *AccountServiceImpl) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*account.PortfolioAccount, error) {
	return s.guard.Account(ctx, accountID, userID)
}

// ListAccounts returns all of the user's accounts in display order
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*account.PortfolioAccount, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// UpdateAccount renames or reorders one of the user's accounts
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, name string, displayOrder int) (*account.PortfolioAccount, error) {
	acc, err := s.guard.Account(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if err := acc.Rename(name); err != nil {
		return nil, err
	}
	acc.DisplayOrder = displayOrder

	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// DeleteAccount removes the account; database cascades take its ledgers,
// entries, and balances
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	if _, err := s.guard.Account(ctx, accountID, userID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, accountID)
}
