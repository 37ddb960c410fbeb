package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/panjf2000/ants/v2"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
)

// Directory resolves the ledger row an entry attaches to, creating it on
// first use. Resolution is race-safe without application locks: two
// composers creating the first transaction for a brand-new (account, asset)
// pair both end up with the same row via the table's unique constraint.
//
// The directory performs no ownership checks; callers must have proven that
// account and asset belong to the same user before resolving.
type Directory struct {
	ledgers  ledger.LedgerRepository
	accounts account.Repository
	assets   asset.Repository
	pool     *ants.Pool
	logger   *slog.Logger

	// tx is set when resolution runs inside a composer transaction; inserts
	// then go through a savepoint so a lost creation race does not abort the
	// surrounding transaction.
	tx pgx.Tx
}

// NewDirectory creates a ledger directory. The worker pool bounds the
// fanout of the eager pre-creation batches.
func NewDirectory(
	logger *slog.Logger,
	ledgers ledger.LedgerRepository,
	accounts account.Repository,
	assets asset.Repository,
	pool *ants.Pool,
) *Directory {
	return &Directory{
		ledgers:  ledgers,
		accounts: accounts,
		assets:   assets,
		pool:     pool,
		logger:   logger,
	}
}

// WithTx scopes ledger resolution to a database transaction
func (d *Directory) WithTx(tx pgx.Tx) *Directory {
	return &Directory{
		ledgers:  d.ledgers.WithTx(tx),
		accounts: d.accounts,
		assets:   d.assets,
		pool:     d.pool,
		logger:   d.logger,
		tx:       tx,
	}
}

// Resolve returns the ledger for (account, asset, type), creating it if
// absent: select, insert on miss, and on a lost insert race re-select the
// row the winner created. Every call for the same triple returns the same
// ledger id.
func (d *Directory) Resolve(ctx context.Context, accountID, assetID uuid.UUID, t ledger.Type) (*ledger.Ledger, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid ledger type: %q", t)
	}

	l, err := d.ledgers.Get(ctx, accountID, assetID, t)
	if err != nil {
		return nil, err
	}
	if l != nil {
		return l, nil
	}

	l = &ledger.Ledger{
		ID:                 uuid.New(),
		PortfolioAccountID: accountID,
		AssetID:            assetID,
		Type:               t,
	}
	err = d.insert(ctx, l)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ledger.ErrLedgerExists{}) {
		return nil, err
	}

	// Lost the creation race; the winner's row is the ledger.
	l, err = d.ledgers.Get(ctx, accountID, assetID, t)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("ledger vanished after creation race for account %s, asset %s, type %s", accountID, assetID, t)
	}
	return l, nil
}

// insert writes the ledger row. Inside a composer transaction the insert
// runs in a savepoint (pgx opens one when Begin is called on an open
// transaction): a unique-constraint failure would otherwise leave the whole
// transaction aborted and the race-recovery re-select could not run.
func (d *Directory) insert(ctx context.Context, l *ledger.Ledger) error {
	if d.tx == nil {
		return d.ledgers.Insert(ctx, l)
	}

	sp, err := d.tx.Begin(ctx)
	if err != nil {
		return err
	}
	if err := d.ledgers.WithTx(sp).Insert(ctx, l); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

// InitLedgersForAccount eagerly creates all four ledger kinds for every
// asset the account's owner holds. Best effort: individual failures are
// logged and do not abort the batch, and ledgers that already exist are
// fine.
func (d *Directory) InitLedgersForAccount(ctx context.Context, acc *account.PortfolioAccount) {
	assets, err := d.assets.ListByUser(ctx, acc.UserID)
	if err != nil {
		d.logger.Error("Failed to list assets for ledger init", "accountID", acc.ID.String(), "error", err)
		return
	}

	pairs := make([]pair, 0, len(assets))
	for _, a := range assets {
		pairs = append(pairs, pair{accountID: acc.ID, assetID: a.ID})
	}
	d.initLedgers(ctx, pairs)
}

// InitLedgersForAsset eagerly creates all four ledger kinds for the asset in
// every account of its owner. Best effort, like InitLedgersForAccount.
func (d *Directory) InitLedgersForAsset(ctx context.Context, a *asset.Asset) {
	accounts, err := d.accounts.ListByUser(ctx, a.UserID)
	if err != nil {
		d.logger.Error("Failed to list accounts for ledger init", "assetID", a.ID.String(), "error", err)
		return
	}

	pairs := make([]pair, 0, len(accounts))
	for _, acc := range accounts {
		pairs = append(pairs, pair{accountID: acc.ID, assetID: a.ID})
	}
	d.initLedgers(ctx, pairs)
}

type pair struct {
	accountID uuid.UUID
	assetID   uuid.UUID
}

// initLedgers fans the (pair × kind) resolutions out on the worker pool and
// waits for the batch to finish.
func (d *Directory) initLedgers(ctx context.Context, pairs []pair) {
	var wg sync.WaitGroup
	for _, p := range pairs {
		for _, t := range ledger.Types {
			p, t := p, t
			wg.Add(1)
			task := func() {
				defer wg.Done()
				if _, err := d.Resolve(ctx, p.accountID, p.assetID, t); err != nil {
					d.logger.Warn("Failed to pre-create ledger",
						"accountID", p.accountID.String(),
						"assetID", p.assetID.String(),
						"type", string(t),
						"error", err,
					)
				}
			}
			if err := d.pool.Submit(task); err != nil {
				// Pool unavailable; resolve inline rather than skip.
				task()
			}
		}
	}
	wg.Wait()
}
