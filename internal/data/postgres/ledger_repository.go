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
)

// LedgerRepository implements the ledger.LedgerRepository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.LedgerRepository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.LedgerRepository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Get retrieves the ledger for one (account, asset, type) triple, or nil if
// it has not been created yet.
func (r *LedgerRepository) Get(ctx context.Context, accountID, assetID uuid.UUID, t ledger.Type) (*ledger.Ledger, error) {
	query := `
		SELECT id, portfolio_account_id, asset_id, type
		FROM ledgers
		WHERE portfolio_account_id = $1 AND asset_id = $2 AND type = $3
	`

	var l ledger.Ledger
	err := r.querier.QueryRow(ctx, query, accountID, assetID, t).Scan(
		&l.ID,
		&l.PortfolioAccountID,
		&l.AssetID,
		&l.Type,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get ledger", "accountID", accountID.String(), "assetID", assetID.String(), "type", string(t), "error", err)
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	return &l, nil
}

// Insert stores a new ledger row. A concurrent writer creating the same
// triple first surfaces as ledger.ErrLedgerExists, which the directory
// resolves by re-reading; it is never an operation failure.
func (r *LedgerRepository) Insert(ctx context.Context, l *ledger.Ledger) error {
	query := `
		INSERT INTO ledgers (id, portfolio_account_id, asset_id, type)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query, l.ID, l.PortfolioAccountID, l.AssetID, l.Type)
	if err != nil {
		if persistence.IsUniqueViolation(err, "ledgers_portfolio_account_id_asset_id_type_key") {
			return ledger.ErrLedgerExists{
				PortfolioAccountID: l.PortfolioAccountID,
				AssetID:            l.AssetID,
				Type:               l.Type,
			}
		}
		r.logger.Error("Failed to insert ledger", "error", err)
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	return nil
}
