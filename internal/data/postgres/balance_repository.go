package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// BalanceRepository implements the ledger.BalanceRepository interface for PostgreSQL
type BalanceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.BalanceRepository {
	return &BalanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *BalanceRepository) WithTx(tx pgx.Tx) ledger.BalanceRepository {
	return &BalanceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Get retrieves the balance of one (account, asset) pair. A pair never
// touched by any transaction reads as zero.
func (r *BalanceRepository) Get(ctx context.Context, accountID, assetID uuid.UUID) (*ledger.Balance, error) {
	query := `
		SELECT portfolio_account_id, asset_id, amount, updated_at
		FROM balances
		WHERE portfolio_account_id = $1 AND asset_id = $2
	`

	var b ledger.Balance
	err := r.querier.QueryRow(ctx, query, accountID, assetID).Scan(
		&b.PortfolioAccountID,
		&b.AssetID,
		&b.Amount,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ledger.Balance{
				PortfolioAccountID: accountID,
				AssetID:            assetID,
				Amount:             decimal.Zero,
			}, nil
		}
		r.logger.Error("Failed to get balance", "accountID", accountID.String(), "assetID", assetID.String(), "error", err)
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &b, nil
}

// ListByAccount retrieves all balances of one portfolio account
func (r *BalanceRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Balance, error) {
	query := `
		SELECT portfolio_account_id, asset_id, amount, updated_at
		FROM balances
		WHERE portfolio_account_id = $1
		ORDER BY asset_id
	`

	return r.list(ctx, query, accountID)
}

// ListByUser retrieves all balances across the user's accounts
func (r *BalanceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Balance, error) {
	query := `
		SELECT b.portfolio_account_id, b.asset_id, b.amount, b.updated_at
		FROM balances b
		JOIN portfolio_accounts pa ON pa.id = b.portfolio_account_id
		WHERE pa.user_id = $1
		ORDER BY b.portfolio_account_id, b.asset_id
	`

	return r.list(ctx, query, userID)
}

func (r *BalanceRepository) list(ctx context.Context, query string, arg interface{}) ([]*ledger.Balance, error) {
	rows, err := r.querier.Query(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to list balances", "error", err)
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var balances []*ledger.Balance
	for rows.Next() {
		var b ledger.Balance
		if err := rows.Scan(&b.PortfolioAccountID, &b.AssetID, &b.Amount, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	return balances, nil
}

// ApplyDelta atomically adds the signed delta to the pair's balance,
// creating the row on first touch. Callers must run it inside the same
// transaction as the entries producing the delta so the cache can never
// drift from the entry total.
func (r *BalanceRepository) ApplyDelta(ctx context.Context, accountID, assetID uuid.UUID, delta decimal.Decimal) error {
	query := `
		INSERT INTO balances (portfolio_account_id, asset_id, amount, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (portfolio_account_id, asset_id)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = NOW()
	`

	_, err := r.querier.Exec(ctx, query, accountID, assetID, delta)
	if err != nil {
		r.logger.Error("Failed to apply balance delta", "accountID", accountID.String(), "assetID", assetID.String(), "error", err)
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return nil
}
