package bookkeeping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// engineFixture wires an engine over mocks; the db field stays nil because
// these tests drive the tx-scoped internals directly and the mocks ignore
// their transaction argument.
type engineFixture struct {
	engine       *Engine
	accounts     *MockAccountRepository
	assets       *MockAssetRepository
	ledgers      *MockLedgerRepository
	entries      *MockEntryRepository
	transactions *MockTransactionRepository
	balances     *MockBalanceRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		accounts:     new(MockAccountRepository),
		assets:       new(MockAssetRepository),
		ledgers:      new(MockLedgerRepository),
		entries:      new(MockEntryRepository),
		transactions: new(MockTransactionRepository),
		balances:     new(MockBalanceRepository),
	}
	guard := NewGuard(f.accounts, f.assets, f.transactions)
	directory := newTestDirectory(t, f.ledgers, f.accounts, f.assets)
	f.engine = NewEngine(testLogger(), nil, guard, directory, f.entries, f.transactions, f.balances)
	return f
}

// expectLedgers registers one stable ledger row per kind for the triple
func (f *engineFixture) expectLedgers(ctx context.Context, accountID, assetID uuid.UUID) {
	for _, kind := range ledger.Types {
		l := &ledger.Ledger{ID: uuid.New(), PortfolioAccountID: accountID, AssetID: assetID, Type: kind}
		f.ledgers.On("Get", ctx, accountID, assetID, kind).Return(l, nil)
	}
}

func (f *engineFixture) expectOwnedAccount(ctx context.Context, accountID, userID uuid.UUID) {
	f.accounts.On("GetByID", ctx, accountID).
		Return(&account.PortfolioAccount{ID: accountID, UserID: userID}, nil)
}

func (f *engineFixture) expectOwnedAsset(ctx context.Context, a *asset.Asset) {
	f.assets.On("GetByID", ctx, a.ID).Return(a, nil)
}

func matchDecimal(t *testing.T, s string) interface{} {
	want := dec(t, s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func header(title string) Header {
	return Header{Title: title, Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}
}

func TestEngineRecordCapital(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	accountID := uuid.New()
	usd := testAsset(t, userID, "USD", 2)

	t.Run("books the entry group, balance delta, and link", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, usd.ID)

		var inserted []decimal.Decimal
		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).
			Run(func(args mock.Arguments) {
				inserted = append(inserted, args.Get(1).(*ledger.Entry).Amount)
			}).Return(nil).Times(2)
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "100.00")).Return(nil).Once()

		var link *ledger.CapitalLink
		f.transactions.On("InsertCapitalLink", ctx, mock.AnythingOfType("*ledger.CapitalLink")).
			Run(func(args mock.Arguments) {
				link = args.Get(1).(*ledger.CapitalLink)
			}).Return(nil).Once()

		out, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Initial funding"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "100.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Initial funding", out.Title)
		require.Len(t, inserted, 2)
		assert.True(t, inserted[0].Add(inserted[1]).IsZero())

		require.NotNil(t, link)
		assert.Equal(t, out.ID, link.TransactionID)
		assert.Nil(t, link.FeeAssetEntryID)
		assert.Nil(t, link.FeeIncomeEntryID)
		f.transactions.AssertExpectations(t)
		f.balances.AssertExpectations(t)
	})

	t.Run("fee produces four entries and a net balance hit", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, usd.ID)

		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Times(4)
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "100.00")).Return(nil).Once()
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "-0.50")).Return(nil).Once()

		var link *ledger.CapitalLink
		f.transactions.On("InsertCapitalLink", ctx, mock.AnythingOfType("*ledger.CapitalLink")).
			Run(func(args mock.Arguments) {
				link = args.Get(1).(*ledger.CapitalLink)
			}).Return(nil).Once()

		_, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Funding with wire fee"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "100.00"),
			Fee:       dec(t, "0.50"),
		})

		require.NoError(t, err)
		require.NotNil(t, link)
		assert.NotNil(t, link.FeeAssetEntryID)
		assert.NotNil(t, link.FeeIncomeEntryID)
		f.balances.AssertExpectations(t)
	})

	t.Run("rejects a non-positive amount before any write", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)

		_, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Bad"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "0"),
		})

		assert.ErrorIs(t, err, ErrNonPositiveAmount{})
		f.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects a foreign account before any write", func(t *testing.T) {
		f := newEngineFixture(t)
		f.accounts.On("GetByID", ctx, accountID).
			Return(&account.PortfolioAccount{ID: accountID, UserID: uuid.New()}, nil)

		_, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Forged"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "10.00"),
		})

		assert.ErrorIs(t, err, shared.ErrNotOwned{})
		f.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects an amount beyond the asset precision", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)

		_, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Too precise"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "10.005"),
		})

		assert.ErrorIs(t, err, asset.ErrPrecisionExceeded{})
	})

	t.Run("link failure surfaces so the transaction rolls back", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, usd.ID)

		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Times(2)
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "100.00")).Return(nil).Once()
		f.transactions.On("InsertCapitalLink", ctx, mock.AnythingOfType("*ledger.CapitalLink")).
			Return(assert.AnError).Once()

		_, err := f.engine.recordCapital(ctx, nil, userID, CapitalInput{
			Header:    header("Doomed"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "100.00"),
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestEngineRecordIncome(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	accountID := uuid.New()
	usd := testAsset(t, userID, "USD", 2)

	t.Run("books the entry group, balance delta, and link", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, usd.ID)

		var inserted []decimal.Decimal
		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).
			Run(func(args mock.Arguments) {
				inserted = append(inserted, args.Get(1).(*ledger.Entry).Amount)
			}).Return(nil).Times(2)
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "25.00")).Return(nil).Once()

		var link *ledger.IncomeLink
		f.transactions.On("InsertIncomeLink", ctx, mock.AnythingOfType("*ledger.IncomeLink")).
			Run(func(args mock.Arguments) {
				link = args.Get(1).(*ledger.IncomeLink)
			}).Return(nil).Once()

		out, err := f.engine.recordIncome(ctx, nil, userID, IncomeInput{
			Header:    header("Dividend"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "25.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Dividend", out.Title)
		require.Len(t, inserted, 2)
		assert.True(t, inserted[0].Add(inserted[1]).IsZero())

		require.NotNil(t, link)
		assert.Equal(t, out.ID, link.TransactionID)
		f.transactions.AssertExpectations(t)
		f.balances.AssertExpectations(t)
	})

	t.Run("expense books a negative holding delta", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, usd.ID)

		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Times(2)
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "-12.30")).Return(nil).Once()
		f.transactions.On("InsertIncomeLink", ctx, mock.AnythingOfType("*ledger.IncomeLink")).Return(nil).Once()

		_, err := f.engine.recordIncome(ctx, nil, userID, IncomeInput{
			Header:    header("Groceries"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "-12.30"),
		})

		require.NoError(t, err)
		f.balances.AssertExpectations(t)
	})

	t.Run("rejects a zero amount before any write", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, usd)

		_, err := f.engine.recordIncome(ctx, nil, userID, IncomeInput{
			Header:    header("Nothing"),
			AccountID: accountID,
			AssetID:   usd.ID,
			Amount:    dec(t, "0"),
		})

		assert.ErrorIs(t, err, ErrZeroAmount{})
		f.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects a foreign asset before any write", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		foreign := testAsset(t, uuid.New(), "EUR", 2)
		f.expectOwnedAsset(ctx, foreign)

		_, err := f.engine.recordIncome(ctx, nil, userID, IncomeInput{
			Header:    header("Forged"),
			AccountID: accountID,
			AssetID:   foreign.ID,
			Amount:    dec(t, "10.00"),
		})

		assert.ErrorIs(t, err, shared.ErrNotOwned{})
		f.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestEngineRecordTransfer(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sourceID := uuid.New()
	targetID := uuid.New()
	usd := testAsset(t, userID, "USD", 2)

	t.Run("rejects source equal to target", func(t *testing.T) {
		f := newEngineFixture(t)

		_, err := f.engine.recordTransfer(ctx, nil, userID, TransferInput{
			Header:          header("Self transfer"),
			SourceAccountID: sourceID,
			TargetAccountID: sourceID,
			AssetID:         usd.ID,
			Amount:          dec(t, "10.00"),
		})

		assert.ErrorIs(t, err, ErrInvalidCombination{})
	})

	t.Run("rejects a fee-inclusive fee not smaller than the amount", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, sourceID, userID)
		f.expectOwnedAccount(ctx, targetID, userID)
		f.expectOwnedAsset(ctx, usd)

		_, err := f.engine.recordTransfer(ctx, nil, userID, TransferInput{
			Header:          header("Fee eats everything"),
			SourceAccountID: sourceID,
			TargetAccountID: targetID,
			AssetID:         usd.ID,
			Amount:          dec(t, "1.00"),
			Fee:             dec(t, "1.00"),
			FeeInclusive:    true,
		})

		assert.ErrorIs(t, err, ErrInvalidCombination{})
	})

	t.Run("fee-inclusive transfer books balance deltas on both accounts", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, sourceID, userID)
		f.expectOwnedAccount(ctx, targetID, userID)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, sourceID, usd.ID)
		f.expectLedgers(ctx, targetID, usd.ID)

		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Times(6)
		f.balances.On("ApplyDelta", ctx, sourceID, usd.ID, matchDecimal(t, "-50.00")).Return(nil).Once()
		f.balances.On("ApplyDelta", ctx, targetID, usd.ID, matchDecimal(t, "49.00")).Return(nil).Once()
		f.balances.On("ApplyDelta", ctx, sourceID, usd.ID, matchDecimal(t, "-1.00")).Return(nil).Once()
		f.transactions.On("InsertTransferLink", ctx, mock.AnythingOfType("*ledger.TransferLink")).Return(nil).Once()

		_, err := f.engine.recordTransfer(ctx, nil, userID, TransferInput{
			Header:          header("Move to broker"),
			SourceAccountID: sourceID,
			TargetAccountID: targetID,
			AssetID:         usd.ID,
			Amount:          dec(t, "50.00"),
			Fee:             dec(t, "1.00"),
			FeeInclusive:    true,
		})

		require.NoError(t, err)
		f.balances.AssertExpectations(t)
	})
}

func TestEngineRecordTrade(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	accountID := uuid.New()
	btc := testAsset(t, userID, "BTC", 8)
	usd := testAsset(t, userID, "USD", 2)

	t.Run("rejects base equal to quote", func(t *testing.T) {
		f := newEngineFixture(t)

		_, err := f.engine.recordTrade(ctx, nil, userID, TradeInput{
			Header:       header("Degenerate"),
			AccountID:    accountID,
			BaseAssetID:  btc.ID,
			QuoteAssetID: btc.ID,
			BaseAmount:   dec(t, "1"),
			QuoteAmount:  dec(t, "1"),
			Buy:          true,
		})

		assert.ErrorIs(t, err, ErrInvalidCombination{})
	})

	t.Run("rejects a fee asset outside the pair", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, btc)
		f.expectOwnedAsset(ctx, usd)
		other := uuid.New()

		_, err := f.engine.recordTrade(ctx, nil, userID, TradeInput{
			Header:       header("Weird fee"),
			AccountID:    accountID,
			BaseAssetID:  btc.ID,
			QuoteAssetID: usd.ID,
			BaseAmount:   dec(t, "1"),
			QuoteAmount:  dec(t, "20000"),
			Buy:          true,
			FeeAssetID:   &other,
			Fee:          dec(t, "1.00"),
		})

		assert.ErrorIs(t, err, ErrInvalidCombination{})
	})

	t.Run("rejects a fee without a fee asset", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, btc)
		f.expectOwnedAsset(ctx, usd)

		_, err := f.engine.recordTrade(ctx, nil, userID, TradeInput{
			Header:       header("Orphan fee"),
			AccountID:    accountID,
			BaseAssetID:  btc.ID,
			QuoteAssetID: usd.ID,
			BaseAmount:   dec(t, "1"),
			QuoteAmount:  dec(t, "20000"),
			Buy:          true,
			Fee:          dec(t, "1.00"),
		})

		assert.ErrorIs(t, err, ErrInvalidCombination{})
	})

	t.Run("buy moves base in and quote out of the balances", func(t *testing.T) {
		f := newEngineFixture(t)
		f.expectOwnedAccount(ctx, accountID, userID)
		f.expectOwnedAsset(ctx, btc)
		f.expectOwnedAsset(ctx, usd)
		f.expectLedgers(ctx, accountID, btc.ID)
		f.expectLedgers(ctx, accountID, usd.ID)

		f.transactions.On("Insert", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
		f.entries.On("Insert", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Times(4)
		f.balances.On("ApplyDelta", ctx, accountID, btc.ID, matchDecimal(t, "1")).Return(nil).Once()
		f.balances.On("ApplyDelta", ctx, accountID, usd.ID, matchDecimal(t, "-20000")).Return(nil).Once()
		f.transactions.On("InsertTradeLink", ctx, mock.AnythingOfType("*ledger.TradeLink")).Return(nil).Once()

		_, err := f.engine.recordTrade(ctx, nil, userID, TradeInput{
			Header:       header("Buy a coin"),
			AccountID:    accountID,
			BaseAssetID:  btc.ID,
			QuoteAssetID: usd.ID,
			BaseAmount:   dec(t, "1"),
			QuoteAmount:  dec(t, "20000"),
			Buy:          true,
		})

		require.NoError(t, err)
		f.balances.AssertExpectations(t)
	})
}

func TestEngineDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	transactionID := uuid.New()
	accountID := uuid.New()
	assetID := uuid.New()

	t.Run("reverses holding deltas then deletes the header", func(t *testing.T) {
		f := newEngineFixture(t)
		f.transactions.On("GetByID", ctx, transactionID).
			Return(&ledger.Transaction{ID: transactionID, UserID: userID}, nil).Once()
		f.entries.On("ListByTransaction", ctx, transactionID).Return([]*ledger.AuditEntry{
			{Entry: ledger.Entry{Amount: dec(t, "100.00")}, LedgerType: ledger.TypeAsset, AccountID: accountID, AssetID: assetID},
			{Entry: ledger.Entry{Amount: dec(t, "-100.00")}, LedgerType: ledger.TypeCapital, AccountID: accountID, AssetID: assetID},
		}, nil).Once()
		f.balances.On("ApplyDelta", ctx, accountID, assetID, matchDecimal(t, "-100.00")).Return(nil).Once()
		f.transactions.On("Delete", ctx, transactionID).Return(nil).Once()

		err := f.engine.deleteTransaction(ctx, nil, userID, transactionID)

		require.NoError(t, err)
		// Only the holding-side entry is reversed; the capital mirror never
		// touched the balance.
		f.balances.AssertNumberOfCalls(t, "ApplyDelta", 1)
		f.transactions.AssertExpectations(t)
	})

	t.Run("foreign transaction is rejected without deleting", func(t *testing.T) {
		f := newEngineFixture(t)
		f.transactions.On("GetByID", ctx, transactionID).
			Return(&ledger.Transaction{ID: transactionID, UserID: uuid.New()}, nil).Once()

		err := f.engine.deleteTransaction(ctx, nil, userID, transactionID)

		assert.ErrorIs(t, err, shared.ErrNotOwned{})
		f.transactions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestEngineCheckKindAndDelete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	transactionID := uuid.New()

	t.Run("kind mismatch aborts the edit", func(t *testing.T) {
		f := newEngineFixture(t)
		f.transactions.On("GetByID", ctx, transactionID).
			Return(&ledger.Transaction{ID: transactionID, UserID: userID}, nil).Once()
		f.transactions.On("KindOf", ctx, transactionID).Return(ledger.KindTrade, nil).Once()

		err := f.engine.checkKindAndDelete(ctx, nil, userID, transactionID, ledger.KindCapital)

		assert.ErrorIs(t, err, ErrKindMismatch{})
		f.transactions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("foreign transaction answers not-owned without revealing its kind", func(t *testing.T) {
		f := newEngineFixture(t)
		f.transactions.On("GetByID", ctx, transactionID).
			Return(&ledger.Transaction{ID: transactionID, UserID: uuid.New()}, nil).Once()

		err := f.engine.checkKindAndDelete(ctx, nil, userID, transactionID, ledger.KindTrade)

		assert.ErrorIs(t, err, shared.ErrNotOwned{})
		assert.NotErrorIs(t, err, ErrKindMismatch{})
		f.transactions.AssertNotCalled(t, "KindOf", mock.Anything, mock.Anything)
		f.transactions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("matching kind deletes the old group", func(t *testing.T) {
		f := newEngineFixture(t)
		f.transactions.On("GetByID", ctx, transactionID).
			Return(&ledger.Transaction{ID: transactionID, UserID: userID}, nil).Once()
		f.transactions.On("KindOf", ctx, transactionID).Return(ledger.KindCapital, nil).Once()
		f.entries.On("ListByTransaction", ctx, transactionID).Return([]*ledger.AuditEntry{}, nil).Once()
		f.transactions.On("Delete", ctx, transactionID).Return(nil).Once()

		err := f.engine.checkKindAndDelete(ctx, nil, userID, transactionID, ledger.KindCapital)

		require.NoError(t, err)
		f.transactions.AssertExpectations(t)
	})
}
