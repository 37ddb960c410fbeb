package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// EntryRepository implements the ledger.EntryRepository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEntryRepository creates a new PostgreSQL ledger entry repository
func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.EntryRepository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *EntryRepository) WithTx(tx pgx.Tx) ledger.EntryRepository {
	return &EntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Insert stores one signed entry. Entries are immutable: there is no update
// operation, and deletion happens only by cascade from the transaction header.
func (r *EntryRepository) Insert(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, ledger_id, transaction_id, amount)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query, e.ID, e.LedgerID, e.TransactionID, e.Amount)
	if err != nil {
		r.logger.Error("Failed to insert ledger entry", "error", err)
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

// ListByTransaction returns a transaction's entries joined with ledger,
// account, and asset metadata: the full audit trail of one economic event.
func (r *EntryRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*ledger.AuditEntry, error) {
	query := `
		SELECT e.id, e.ledger_id, e.transaction_id, e.amount,
		       l.type, pa.id, pa.name, a.id, a.ticker
		FROM ledger_entries e
		JOIN ledgers l ON l.id = e.ledger_id
		JOIN portfolio_accounts pa ON pa.id = l.portfolio_account_id
		JOIN assets a ON a.id = l.asset_id
		WHERE e.transaction_id = $1
		ORDER BY l.type, a.ticker
	`

	rows, err := r.querier.Query(ctx, query, transactionID)
	if err != nil {
		r.logger.Error("Failed to list entries", "transactionID", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.AuditEntry
	for rows.Next() {
		var e ledger.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.LedgerID, &e.TransactionID, &e.Amount,
			&e.LedgerType, &e.AccountID, &e.AccountName, &e.AssetID, &e.AssetTicker,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// SumByLedger recomputes a ledger's total from its entries. The read path
// uses the materialized balance; this exists for verification.
func (r *EntryRepository) SumByLedger(ctx context.Context, ledgerID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE ledger_id = $1
	`

	var sum decimal.Decimal
	if err := r.querier.QueryRow(ctx, query, ledgerID).Scan(&sum); err != nil {
		r.logger.Error("Failed to sum ledger entries", "ledgerID", ledgerID.String(), "error", err)
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return sum, nil
}
