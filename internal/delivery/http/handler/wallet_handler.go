package handler

import (
	"encoding/json"
	"net/http"

	"courtside/internal/delivery/dto"
	"courtside/internal/usecase"
	"courtside/pkg/response"
	"courtside/pkg/validator"
)

type WalletHandler struct {
	walletUsecase usecase.WalletUsecase
	validator     *validator.CustomValidator
}

func NewWalletHandler(walletUsecase usecase.WalletUsecase, validator *validator.CustomValidator) *WalletHandler {
	return &WalletHandler{
		walletUsecase: walletUsecase,
		validator:     validator,
	}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletUsecase.GetBalance(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get wallet balance")
		return
	}

	response.Success(w, http.StatusOK, "Wallet balance retrieved successfully", wallet)
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req dto.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	wallet, err := h.walletUsecase.TopUp(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, "Amount must be a positive number", nil)
		default:
			response.InternalServerError(w, "Failed to top up wallet")
		}
		return
	}

	response.Success(w, http.StatusOK, "Wallet topped up successfully", wallet)
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.walletUsecase.GetTransactions(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get wallet transactions")
		return
	}

	response.Success(w, http.StatusOK, "Wallet transactions retrieved successfully", transactions)
}
