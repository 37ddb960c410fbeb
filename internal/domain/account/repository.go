package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines portfolio account persistence operations
type Repository interface {
	Create(ctx context.Context, acc *PortfolioAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*PortfolioAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*PortfolioAccount, error)
	Update(ctx context.Context, acc *PortfolioAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing portfolio account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "portfolio account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicateName indicates the user already has an account with this name
type ErrDuplicateName struct {
	Name string
}

func (e ErrDuplicateName) Error() string {
	return "account with this name already exists: " + e.Name
}
