package repository

import (
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletRepository interface {
	Create(db *gorm.DB, wallet *entity.Wallet) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error)
	// FindByUserIDForUpdate locks the wallet row FOR UPDATE so concurrent
	// debits and credits for the same user serialize. Creates a zero-balance
	// wallet if the user has none yet.
	FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error)
	UpdateBalance(db *gorm.DB, wallet *entity.Wallet) error
}

type WalletTransactionRepository interface {
	Create(db *gorm.DB, txn *entity.WalletTransaction) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.WalletTransaction, error)
}
