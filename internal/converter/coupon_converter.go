package converter

import (
	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
)

// CouponToResponse converts a Coupon entity to CouponResponse DTO
func CouponToResponse(coupon *entity.Coupon) *dto.CouponResponse {
	if coupon == nil {
		return nil
	}

	return &dto.CouponResponse{
		ID:            coupon.ID,
		Code:          coupon.Code,
		DiscountType:  string(coupon.DiscountType),
		DiscountValue: coupon.DiscountValue.StringFixed(2),
		MinAmount:     coupon.MinAmount.StringFixed(2),
		MaxDiscount:   coupon.MaxDiscount.StringFixed(2),
		UsageLimit:    coupon.UsageLimit,
		UsedCount:     coupon.UsedCount,
		ValidFrom:     coupon.ValidFrom,
		ValidUntil:    coupon.ValidUntil,
		FacilityID:    coupon.FacilityID,
		IsActive:      coupon.IsActive,
		CreatedAt:     coupon.CreatedAt,
		UpdatedAt:     coupon.UpdatedAt,
	}
}

// CouponsToResponses converts a slice of Coupon entities to slice of CouponResponse DTOs
func CouponsToResponses(coupons []entity.Coupon) []dto.CouponResponse {
	responses := make([]dto.CouponResponse, len(coupons))
	for i, coupon := range coupons {
		resp := CouponToResponse(&coupon)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
