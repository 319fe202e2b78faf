package handler

import (
	"encoding/json"
	"net/http"

	"courtside/internal/delivery/dto"
	"courtside/internal/usecase"
	"courtside/pkg/response"
	"courtside/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CouponHandler struct {
	couponUsecase usecase.CouponUsecase
	validator     *validator.CustomValidator
}

func NewCouponHandler(couponUsecase usecase.CouponUsecase, validator *validator.CustomValidator) *CouponHandler {
	return &CouponHandler{
		couponUsecase: couponUsecase,
		validator:     validator,
	}
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	coupon, err := h.couponUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrCouponCodeExists:
			response.Error(w, http.StatusConflict, "Coupon code already exists", nil)
		case usecase.ErrInvalidCouponWindow, usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create coupon")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Coupon created successfully", coupon)
}

func (h *CouponHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get coupons")
		return
	}

	response.Success(w, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid coupon ID", nil)
		return
	}

	coupon, err := h.couponUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrCouponNotFound:
			response.NotFound(w, "Coupon not found")
		default:
			response.InternalServerError(w, "Failed to get coupon")
		}
		return
	}

	response.Success(w, http.StatusOK, "Coupon retrieved successfully", coupon)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid coupon ID", nil)
		return
	}

	var req dto.UpdateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	coupon, err := h.couponUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrCouponNotFound:
			response.NotFound(w, "Coupon not found")
		case usecase.ErrInvalidCouponWindow, usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update coupon")
		}
		return
	}

	response.Success(w, http.StatusOK, "Coupon updated successfully", coupon)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid coupon ID", nil)
		return
	}

	if err := h.couponUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrCouponNotFound:
			response.NotFound(w, "Coupon not found")
		default:
			response.InternalServerError(w, "Failed to delete coupon")
		}
		return
	}

	response.Success(w, http.StatusOK, "Coupon deleted successfully", nil)
}

func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.couponUsecase.Validate(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, "Amount must be a valid non-negative number", nil)
		default:
			response.InternalServerError(w, "Failed to validate coupon")
		}
		return
	}

	response.Success(w, http.StatusOK, "Coupon validated", result)
}
