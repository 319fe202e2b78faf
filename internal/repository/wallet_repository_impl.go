package repository

import (
	"errors"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct{}

func NewWalletRepository() domainRepo.WalletRepository {
	return &walletRepository{}
}

func (r *walletRepository) Create(db *gorm.DB, wallet *entity.Wallet) error {
	return db.Create(wallet).Error
}

func (r *walletRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	var wallet entity.Wallet
	err := db.Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	var wallet entity.Wallet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// First wallet operation for this user. Insert-then-lock so two concurrent
	// creators converge on the same row via the unique user_id index.
	wallet = entity.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error; err != nil {
		return nil, err
	}

	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateBalance(db *gorm.DB, wallet *entity.Wallet) error {
	return db.Model(&entity.Wallet{}).
		Where("id = ?", wallet.ID).
		Update("balance", wallet.Balance).Error
}

type walletTransactionRepository struct{}

func NewWalletTransactionRepository() domainRepo.WalletTransactionRepository {
	return &walletTransactionRepository{}
}

func (r *walletTransactionRepository) Create(db *gorm.DB, txn *entity.WalletTransaction) error {
	return db.Create(txn).Error
}

func (r *walletTransactionRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.WalletTransaction, error) {
	var txns []entity.WalletTransaction
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
