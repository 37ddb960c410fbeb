package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/pricing"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.PortfolioAccount) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.PortfolioAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.PortfolioAccount), args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.PortfolioAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.PortfolioAccount), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, acc *account.PortfolioAccount) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*asset.Asset, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) Update(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) GetAccountingCurrency(ctx context.Context, userID uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) SetAccountingCurrency(ctx context.Context, userID, assetID uuid.UUID) error {
	args := m.Called(ctx, userID, assetID)
	return args.Error(0)
}

func (m *MockAssetRepository) WithTx(tx pgx.Tx) asset.Repository {
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Get(ctx context.Context, accountID, assetID uuid.UUID, t ledger.Type) (*ledger.Ledger, error) {
	args := m.Called(ctx, accountID, assetID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) Insert(ctx context.Context, l *ledger.Ledger) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLedgerRepository) WithTx(tx pgx.Tx) ledger.LedgerRepository {
	return m
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ledger.TransactionInfo, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.TransactionInfo), args.Error(1)
}

func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertCapitalLink(ctx context.Context, l *ledger.CapitalLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertTransferLink(ctx context.Context, l *ledger.TransferLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertTradeLink(ctx context.Context, l *ledger.TradeLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertIncomeLink(ctx context.Context, l *ledger.IncomeLink) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockTransactionRepository) KindOf(ctx context.Context, transactionID uuid.UUID) (ledger.Kind, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(ledger.Kind), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) ledger.TransactionRepository {
	return m
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Insert(ctx context.Context, e *ledger.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEntryRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*ledger.AuditEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.AuditEntry), args.Error(1)
}

func (m *MockEntryRepository) SumByLedger(ctx context.Context, ledgerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, ledgerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) WithTx(tx pgx.Tx) ledger.EntryRepository {
	return m
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Get(ctx context.Context, accountID, assetID uuid.UUID) (*ledger.Balance, error) {
	args := m.Called(ctx, accountID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ApplyDelta(ctx context.Context, accountID, assetID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, accountID, assetID, delta)
	return args.Error(0)
}

func (m *MockBalanceRepository) WithTx(tx pgx.Tx) ledger.BalanceRepository {
	return m
}

type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) Upsert(ctx context.Context, p *pricing.Price) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPriceRepository) Get(ctx context.Context, assetID uuid.UUID, date time.Time) (*pricing.Price, error) {
	args := m.Called(ctx, assetID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Price), args.Error(1)
}

func (m *MockPriceRepository) ListByAsset(ctx context.Context, assetID uuid.UUID, limit, offset int) ([]*pricing.Price, error) {
	args := m.Called(ctx, assetID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Price), args.Error(1)
}

func (m *MockPriceRepository) WithTx(tx pgx.Tx) pricing.Repository {
	return m
}

type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) Quote(ctx context.Context, externalTicker string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, externalTicker, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
