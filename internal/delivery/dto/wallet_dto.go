package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type TopUpRequest struct {
	Amount string `json:"amount" validate:"required,money"`
}

// Response DTOs

type WalletResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance string    `json:"balance"`
}

type WalletTransactionResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	Description  string    `json:"description"`
	ReferenceID  string    `json:"reference_id,omitempty"`
	BalanceAfter string    `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

type WalletTransactionListResponse struct {
	Transactions []WalletTransactionResponse `json:"transactions"`
	Total        int                         `json:"total"`
}

// InsufficientBalanceDetail is the structured shortfall surfaced to the client
// so it can offer a top-up or a payment-method switch.
type InsufficientBalanceDetail struct {
	Balance   string `json:"balance"`
	Required  string `json:"required"`
	Shortfall string `json:"shortfall"`
}
