// Package postgres provides PostgreSQL implementations of the domain
// repositories. Repositories operate on a Querier so the same code runs
// against the pool or inside a composer's transaction, and they translate
// unique-constraint violations into typed domain errors.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL portfolio account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing atomic operations
// across multiple repository calls.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new portfolio account. A duplicate name for the same user
// is returned as account.ErrDuplicateName.
func (r *AccountRepository) Create(ctx context.Context, acc *account.PortfolioAccount) error {
	query := `
		INSERT INTO portfolio_accounts (id, user_id, name, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.UserID,
		acc.Name,
		acc.DisplayOrder,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err, "portfolio_accounts_user_id_name_key") {
			return account.ErrDuplicateName{Name: acc.Name}
		}
		r.logger.Error("Failed to create portfolio account", "error", err)
		return fmt.Errorf("failed to create portfolio account: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.PortfolioAccount, error) {
	query := `
		SELECT id, user_id, name, display_order, created_at, updated_at
		FROM portfolio_accounts
		WHERE id = $1
	`

	var acc account.PortfolioAccount
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.UserID,
		&acc.Name,
		&acc.DisplayOrder,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get portfolio account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get portfolio account: %w", err)
	}

	return &acc, nil
}

// ListByUser retrieves all portfolio accounts of a user ordered by display order
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.PortfolioAccount, error) {
	query := `
		SELECT id, user_id, name, display_order, created_at, updated_at
		FROM portfolio_accounts
		WHERE user_id = $1
		ORDER BY display_order, name
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list portfolio accounts", "userID", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list portfolio accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.PortfolioAccount
	for rows.Next() {
		var acc account.PortfolioAccount
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.DisplayOrder, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio account: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list portfolio accounts: %w", err)
	}

	return accounts, nil
}

// Update updates an existing portfolio account's name and display order
func (r *AccountRepository) Update(ctx context.Context, acc *account.PortfolioAccount) error {
	query := `
		UPDATE portfolio_accounts
		SET name = $1, display_order = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.DisplayOrder,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err, "portfolio_accounts_user_id_name_key") {
			return account.ErrDuplicateName{Name: acc.Name}
		}
		r.logger.Error("Failed to update portfolio account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update portfolio account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}

	return nil
}

// Delete removes a portfolio account; cascades remove its ledgers, their
// entries, and its balances.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM portfolio_accounts WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete portfolio account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete portfolio account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}
