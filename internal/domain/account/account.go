package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName = errors.New("account name cannot be empty")
)

// PortfolioAccount is a named bucket of holdings (a wallet, a brokerage
// account) owned by one user. All bookkeeping is scoped to an account.
type PortfolioAccount struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPortfolioAccount creates a new account for the given user
func NewPortfolioAccount(userID uuid.UUID, name string, displayOrder int) (*PortfolioAccount, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now()
	return &PortfolioAccount{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Rename changes the account's display name
func (a *PortfolioAccount) Rename(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	return nil
}
