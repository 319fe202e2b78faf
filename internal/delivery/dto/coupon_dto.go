package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateCouponRequest struct {
	Code          string     `json:"code" validate:"required,max=50"`
	DiscountType  string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue string     `json:"discount_value" validate:"required,money"`
	MinAmount     string     `json:"min_amount,omitempty" validate:"omitempty,money"`
	MaxDiscount   string     `json:"max_discount,omitempty" validate:"omitempty,money"`
	UsageLimit    int        `json:"usage_limit" validate:"required,min=1"`
	ValidFrom     string     `json:"valid_from" validate:"required"`
	ValidUntil    string     `json:"valid_until" validate:"required"`
	FacilityID    *uuid.UUID `json:"facility_id,omitempty"`
}

type UpdateCouponRequest struct {
	DiscountValue string `json:"discount_value,omitempty" validate:"omitempty,money"`
	MinAmount     string `json:"min_amount,omitempty" validate:"omitempty,money"`
	MaxDiscount   string `json:"max_discount,omitempty" validate:"omitempty,money"`
	UsageLimit    *int   `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	ValidUntil    string `json:"valid_until,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

type ValidateCouponRequest struct {
	Code       string    `json:"code" validate:"required"`
	Amount     string    `json:"amount" validate:"required,money"`
	FacilityID uuid.UUID `json:"facility_id" validate:"required"`
}

// Response DTOs

type CouponResponse struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue string     `json:"discount_value"`
	MinAmount     string     `json:"min_amount"`
	MaxDiscount   string     `json:"max_discount"`
	UsageLimit    int        `json:"usage_limit"`
	UsedCount     int        `json:"used_count"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    time.Time  `json:"valid_until"`
	FacilityID    *uuid.UUID `json:"facility_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CouponListResponse struct {
	Coupons []CouponResponse `json:"coupons"`
	Total   int              `json:"total"`
}

type ValidateCouponResponse struct {
	Code           string `json:"code"`
	Valid          bool   `json:"valid"`
	DiscountAmount string `json:"discount_amount"`
}
