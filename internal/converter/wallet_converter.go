package converter

import (
	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
)

// WalletToResponse converts a Wallet entity to WalletResponse DTO
func WalletToResponse(wallet *entity.Wallet) *dto.WalletResponse {
	if wallet == nil {
		return nil
	}

	return &dto.WalletResponse{
		UserID:  wallet.UserID,
		Balance: wallet.Balance.StringFixed(2),
	}
}

// WalletTransactionsToResponses converts wallet ledger entries to DTOs
func WalletTransactionsToResponses(txns []entity.WalletTransaction) []dto.WalletTransactionResponse {
	responses := make([]dto.WalletTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = dto.WalletTransactionResponse{
			ID:           txn.ID,
			Type:         string(txn.Type),
			Amount:       txn.Amount.StringFixed(2),
			Description:  txn.Description,
			BalanceAfter: txn.BalanceAfter.StringFixed(2),
			CreatedAt:    txn.CreatedAt,
		}
		if txn.ReferenceID != nil {
			responses[i].ReferenceID = txn.ReferenceID.String()
		}
	}
	return responses
}
