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

// TransactionRepository implements the ledger.TransactionRepository interface
// for PostgreSQL. It covers transaction headers and the four linking-record
// tables that group their entries.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.TransactionRepository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.TransactionRepository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Insert stores a new transaction header
func (r *TransactionRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, title, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query, t.ID, t.UserID, t.Title, t.Description, t.Date, t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert transaction", "error", err)
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction header by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT id, user_id, title, description, date, created_at
		FROM transactions
		WHERE id = $1
	`

	var t ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Date,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

// kindCase derives the transaction kind from which linking table holds it.
const kindCase = `
	CASE
		WHEN cap.transaction_id IS NOT NULL THEN 'capital'
		WHEN xfer.transaction_id IS NOT NULL THEN 'transfer'
		WHEN trd.transaction_id IS NOT NULL THEN 'trade'
		WHEN inc.transaction_id IS NOT NULL THEN 'income'
	END`

const kindJoins = `
	LEFT JOIN capital_transactions cap ON cap.transaction_id = t.id
	LEFT JOIN account_transfer_transactions xfer ON xfer.transaction_id = t.id
	LEFT JOIN trade_transactions trd ON trd.transaction_id = t.id
	LEFT JOIN income_transactions inc ON inc.transaction_id = t.id`

// ListByUser retrieves the user's transactions annotated with their kind,
// newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.TransactionInfo, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.date, t.created_at, ` + kindCase + `
		FROM transactions t` + kindJoins + `
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "userID", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var infos []*ledger.TransactionInfo
	for rows.Next() {
		var info ledger.TransactionInfo
		if err := rows.Scan(&info.ID, &info.UserID, &info.Title, &info.Description, &info.Date, &info.CreatedAt, &info.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return infos, nil
}

// CountByUser returns the total number of transactions of a user
func (r *TransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "userID", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// Delete removes a transaction header. Foreign-key cascades remove the
// linking record and every entry of the group; ledger rows are untouched.
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// InsertCapitalLink stores the linking record of a capital transaction
func (r *TransactionRepository) InsertCapitalLink(ctx context.Context, l *ledger.CapitalLink) error {
	query := `
		INSERT INTO capital_transactions (transaction_id, asset_entry_id, capital_entry_id, fee_asset_entry_id, fee_income_entry_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query, l.TransactionID, l.AssetEntryID, l.CapitalEntryID, l.FeeAssetEntryID, l.FeeIncomeEntryID)
	if err != nil {
		r.logger.Error("Failed to insert capital link", "error", err)
		return fmt.Errorf("failed to insert capital link: %w", err)
	}

	return nil
}

// InsertTransferLink stores the linking record of an account transfer
func (r *TransactionRepository) InsertTransferLink(ctx context.Context, l *ledger.TransferLink) error {
	query := `
		INSERT INTO account_transfer_transactions (transaction_id, source_asset_entry_id, source_capital_entry_id, target_asset_entry_id, target_capital_entry_id, fee_asset_entry_id, fee_income_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query, l.TransactionID, l.SourceAssetEntryID, l.SourceCapitalEntryID, l.TargetAssetEntryID, l.TargetCapitalEntryID, l.FeeAssetEntryID, l.FeeIncomeEntryID)
	if err != nil {
		r.logger.Error("Failed to insert transfer link", "error", err)
		return fmt.Errorf("failed to insert transfer link: %w", err)
	}

	return nil
}

// InsertTradeLink stores the linking record of a trade
func (r *TransactionRepository) InsertTradeLink(ctx context.Context, l *ledger.TradeLink) error {
	query := `
		INSERT INTO trade_transactions (transaction_id, base_asset_entry_id, base_income_entry_id, quote_asset_entry_id, quote_income_entry_id, fee_asset_entry_id, fee_income_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query, l.TransactionID, l.BaseAssetEntryID, l.BaseIncomeEntryID, l.QuoteAssetEntryID, l.QuoteIncomeEntryID, l.FeeAssetEntryID, l.FeeIncomeEntryID)
	if err != nil {
		r.logger.Error("Failed to insert trade link", "error", err)
		return fmt.Errorf("failed to insert trade link: %w", err)
	}

	return nil
}

// InsertIncomeLink stores the linking record of an income/expense transaction
func (r *TransactionRepository) InsertIncomeLink(ctx context.Context, l *ledger.IncomeLink) error {
	query := `
		INSERT INTO income_transactions (transaction_id, asset_entry_id, income_entry_id)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, query, l.TransactionID, l.AssetEntryID, l.IncomeEntryID)
	if err != nil {
		r.logger.Error("Failed to insert income link", "error", err)
		return fmt.Errorf("failed to insert income link: %w", err)
	}

	return nil
}

// KindOf resolves which linking record a transaction carries
func (r *TransactionRepository) KindOf(ctx context.Context, transactionID uuid.UUID) (ledger.Kind, error) {
	query := `
		SELECT ` + kindCase + `
		FROM transactions t` + kindJoins + `
		WHERE t.id = $1
	`

	var kind *ledger.Kind
	err := r.querier.QueryRow(ctx, query, transactionID).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ledger.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to resolve transaction kind", "id", transactionID.String(), "error", err)
		return "", fmt.Errorf("failed to resolve transaction kind: %w", err)
	}
	if kind == nil {
		return "", fmt.Errorf("transaction %s has no linking record", transactionID)
	}

	return *kind, nil
}
