package usecase

import (
	"context"
	"errors"

	"courtside/internal/converter"
	"courtside/internal/delivery/dto"
	"courtside/internal/delivery/http/middleware"
	"courtside/internal/domain/entity"
	"courtside/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

type WalletUsecase interface {
	GetBalance(ctx context.Context) (*dto.WalletResponse, error)
	TopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.WalletResponse, error)
	GetTransactions(ctx context.Context) (*dto.WalletTransactionListResponse, error)
}

type walletUsecase struct {
	db     *gorm.DB
	log    *logrus.Logger
	ledger *service.WalletLedger
	audit  service.AuditService
}

func NewWalletUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ledger *service.WalletLedger,
	audit service.AuditService,
) WalletUsecase {
	return &walletUsecase{
		db:     db,
		log:    log,
		ledger: ledger,
		audit:  audit,
	}
}

func (u *walletUsecase) GetBalance(ctx context.Context) (*dto.WalletResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	balance, err := u.ledger.Balance(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to read wallet balance for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.WalletResponse{
		UserID:  userID,
		Balance: balance.StringFixed(2),
	}, nil
}

func (u *walletUsecase) TopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.WalletResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	txn, err := u.ledger.Credit(tx, userID, amount, "Wallet top-up", nil)
	if err != nil {
		u.log.Warnf("Failed to top up wallet for user %s: %+v", userID, err)
		return nil, err
	}

	if err := u.audit.Record(tx, &userID, entity.AuditActionWalletTopUp, "wallet_transaction", txn.ID.String(), nil, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit top-up for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.WalletResponse{
		UserID:  userID,
		Balance: txn.BalanceAfter.StringFixed(2),
	}, nil
}

func (u *walletUsecase) GetTransactions(ctx context.Context) (*dto.WalletTransactionListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	txns, err := u.ledger.Transactions(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list wallet transactions for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.WalletTransactionListResponse{
		Transactions: converter.WalletTransactionsToResponses(txns),
		Total:        len(txns),
	}, nil
}
