package service

import (
	"errors"

	"courtside/internal/domain/entity"
	"courtside/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the current balance
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	// ErrInvalidAmount is returned for zero or negative debit/credit amounts
	ErrInvalidAmount = errors.New("amount must be positive")
)

// WalletLedger maintains per-user balances and the append-only transaction
// log. Methods take the caller's *gorm.DB so debits join the admission
// transaction; the wallet row is locked FOR UPDATE for the whole
// read-compute-append sequence.
type WalletLedger struct {
	log        *logrus.Logger
	walletRepo repository.WalletRepository
	txnRepo    repository.WalletTransactionRepository
}

func NewWalletLedger(
	log *logrus.Logger,
	walletRepo repository.WalletRepository,
	txnRepo repository.WalletTransactionRepository,
) *WalletLedger {
	return &WalletLedger{
		log:        log,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
	}
}

// Balance returns the current balance, zero if the user has no wallet yet
func (l *WalletLedger) Balance(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := l.walletRepo.FindByUserID(db, userID)
	if err != nil {
		l.log.Warnf("Failed to load wallet for user %s: %+v", userID, err)
		return decimal.Zero, err
	}
	if wallet == nil {
		return decimal.Zero, nil
	}
	return wallet.Balance, nil
}

// Debit decreases the balance and appends a debit transaction with the
// post-debit balance snapshot. Fails with ErrInsufficientFunds when the
// balance cannot cover amount.
func (l *WalletLedger) Debit(db *gorm.DB, userID uuid.UUID, amount decimal.Decimal, description string, referenceID *uuid.UUID) (*entity.WalletTransaction, error) {
	return l.apply(db, userID, entity.TransactionTypeDebit, amount, description, referenceID)
}

// Credit increases the balance and appends a credit transaction
func (l *WalletLedger) Credit(db *gorm.DB, userID uuid.UUID, amount decimal.Decimal, description string, referenceID *uuid.UUID) (*entity.WalletTransaction, error) {
	return l.apply(db, userID, entity.TransactionTypeCredit, amount, description, referenceID)
}

// Transactions returns the user's ledger entries, newest first
func (l *WalletLedger) Transactions(db *gorm.DB, userID uuid.UUID) ([]entity.WalletTransaction, error) {
	return l.txnRepo.FindByUserID(db, userID)
}

func (l *WalletLedger) apply(db *gorm.DB, userID uuid.UUID, txnType entity.TransactionType, amount decimal.Decimal, description string, referenceID *uuid.UUID) (*entity.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := l.walletRepo.FindByUserIDForUpdate(db, userID)
	if err != nil {
		l.log.Warnf("Failed to lock wallet for user %s: %+v", userID, err)
		return nil, err
	}

	var newBalance decimal.Decimal
	switch txnType {
	case entity.TransactionTypeDebit:
		if wallet.Balance.LessThan(amount) {
			return nil, ErrInsufficientFunds
		}
		newBalance = wallet.Balance.Sub(amount)
	case entity.TransactionTypeCredit:
		newBalance = wallet.Balance.Add(amount)
	}

	wallet.Balance = newBalance
	if err := l.walletRepo.UpdateBalance(db, wallet); err != nil {
		l.log.Warnf("Failed to update wallet balance for user %s: %+v", userID, err)
		return nil, err
	}

	txn := &entity.WalletTransaction{
		UserID:       userID,
		Type:         txnType,
		Amount:       amount,
		Description:  description,
		ReferenceID:  referenceID,
		BalanceAfter: newBalance,
	}
	if err := l.txnRepo.Create(db, txn); err != nil {
		l.log.Warnf("Failed to append wallet transaction for user %s: %+v", userID, err)
		return nil, err
	}

	return txn, nil
}
