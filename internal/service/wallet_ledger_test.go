package service

import (
	"testing"

	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) Create(db *gorm.DB, wallet *entity.Wallet) error {
	args := m.Called(db, wallet)
	return args.Error(0)
}

func (m *mockWalletRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *mockWalletRepo) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *mockWalletRepo) UpdateBalance(db *gorm.DB, wallet *entity.Wallet) error {
	args := m.Called(db, wallet)
	return args.Error(0)
}

type mockWalletTxnRepo struct {
	mock.Mock
}

func (m *mockWalletTxnRepo) Create(db *gorm.DB, txn *entity.WalletTransaction) error {
	args := m.Called(db, txn)
	return args.Error(0)
}

func (m *mockWalletTxnRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.WalletTransaction, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.WalletTransaction), args.Error(1)
}

func newTestLedger(walletRepo *mockWalletRepo, txnRepo *mockWalletTxnRepo) *WalletLedger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewWalletLedger(log, walletRepo, txnRepo)
}

func TestWalletLedgerDebit(t *testing.T) {
	userID := uuid.New()

	t.Run("successful debit snapshots the new balance", func(t *testing.T) {
		// 1. Setup
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		wallet := &entity.Wallet{UserID: userID, Balance: decimal.NewFromInt(1000)}
		walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(wallet, nil)
		walletRepo.On("UpdateBalance", mock.Anything, wallet).Return(nil)
		txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.WalletTransaction")).Return(nil)

		// 2. Execute
		txn, err := ledger.Debit(nil, userID, decimal.NewFromInt(900), "Booking CS-20260314-ABC123", nil)

		// 3. Assert
		assert.NoError(t, err)
		assert.Equal(t, entity.TransactionTypeDebit, txn.Type)
		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(900)))
		assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(100)))
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100)))
		walletRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("debit exceeding balance fails without writes", func(t *testing.T) {
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		wallet := &entity.Wallet{UserID: userID, Balance: decimal.NewFromInt(100)}
		walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(wallet, nil)

		_, err := ledger.Debit(nil, userID, decimal.NewFromInt(900), "Booking CS-20260314-ABC123", nil)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		walletRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
		txnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("debit of the exact balance succeeds", func(t *testing.T) {
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		wallet := &entity.Wallet{UserID: userID, Balance: decimal.NewFromInt(900)}
		walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(wallet, nil)
		walletRepo.On("UpdateBalance", mock.Anything, wallet).Return(nil)
		txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.WalletTransaction")).Return(nil)

		txn, err := ledger.Debit(nil, userID, decimal.NewFromInt(900), "Booking CS-20260314-ABC123", nil)

		assert.NoError(t, err)
		assert.True(t, txn.BalanceAfter.IsZero())
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		_, err := ledger.Debit(nil, userID, decimal.Zero, "noop", nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = ledger.Credit(nil, userID, decimal.NewFromInt(-5), "noop", nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestWalletLedgerCredit(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	walletRepo := new(mockWalletRepo)
	txnRepo := new(mockWalletTxnRepo)
	ledger := newTestLedger(walletRepo, txnRepo)

	wallet := &entity.Wallet{UserID: userID, Balance: decimal.NewFromInt(100)}
	walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(wallet, nil)
	walletRepo.On("UpdateBalance", mock.Anything, wallet).Return(nil)
	txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.WalletTransaction")).Return(nil)

	txn, err := ledger.Credit(nil, userID, decimal.NewFromInt(900), "Refund for cancelled booking", &bookingID)

	assert.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeCredit, txn.Type)
	assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, &bookingID, txn.ReferenceID)
}

func TestWalletLedgerBalance(t *testing.T) {
	userID := uuid.New()

	t.Run("missing wallet reads as zero", func(t *testing.T) {
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		walletRepo.On("FindByUserID", mock.Anything, userID).Return(nil, nil)

		balance, err := ledger.Balance(nil, userID)
		assert.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("existing wallet returns its balance", func(t *testing.T) {
		walletRepo := new(mockWalletRepo)
		txnRepo := new(mockWalletTxnRepo)
		ledger := newTestLedger(walletRepo, txnRepo)

		walletRepo.On("FindByUserID", mock.Anything, userID).Return(&entity.Wallet{Balance: decimal.NewFromInt(250)}, nil)

		balance, err := ledger.Balance(nil, userID)
		assert.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(250)))
	})
}
