package service

import (
	"errors"
	"time"

	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrCouponInvalid is returned when an explicitly supplied coupon cannot be
// applied. Callers must surface it rather than fall back to a zero discount.
var ErrCouponInvalid = errors.New("coupon is invalid, expired, or not applicable")

var (
	// rewardPointValue is the currency value of a single reward point
	rewardPointValue = decimal.NewFromFloat(0.1)
	// rewardDiscountCap caps reward redemption at 10% of the total amount
	rewardDiscountCap = decimal.NewFromFloat(0.1)
	// pointsPerUnit: one point accrued per 10 currency units spent
	pointsPerUnit = decimal.NewFromInt(10)
	oneHundred    = decimal.NewFromInt(100)
)

// Quote is the priced outcome of a booking request before admission
type Quote struct {
	TotalAmount          decimal.Decimal
	DiscountAmount       decimal.Decimal
	FinalAmount          decimal.Decimal
	RewardPointsRedeemed int
}

type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// QuoteBooking computes the payable amount for durationHours on a court priced
// at pricePerHour, applying optional reward-point redemption and coupon.
// A nil coupon means none was requested; a non-nil one that fails validation
// yields ErrCouponInvalid.
func (s *PricingService) QuoteBooking(
	pricePerHour decimal.Decimal,
	durationHours int,
	redeemRewardPoints bool,
	userRewardPoints int,
	coupon *entity.Coupon,
	facilityID uuid.UUID,
	now time.Time,
) (*Quote, error) {
	total := pricePerHour.Mul(decimal.NewFromInt(int64(durationHours)))
	discount := decimal.Zero
	pointsRedeemed := 0

	if redeemRewardPoints && userRewardPoints > 0 {
		// Cap at 10% of total, then convert back to whole points so the
		// deduction and discount remain consistent.
		capPoints := total.Mul(rewardDiscountCap).Div(rewardPointValue).IntPart()
		pointsRedeemed = userRewardPoints
		if int64(pointsRedeemed) > capPoints {
			pointsRedeemed = int(capPoints)
		}
		discount = discount.Add(rewardPointValue.Mul(decimal.NewFromInt(int64(pointsRedeemed))))
	}

	if coupon != nil {
		if err := ValidateCoupon(coupon, total, facilityID, now); err != nil {
			return nil, err
		}
		discount = discount.Add(CouponDiscount(coupon, total))
	}

	final := total.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
		discount = total
	}

	return &Quote{
		TotalAmount:          total,
		DiscountAmount:       discount,
		FinalAmount:          final,
		RewardPointsRedeemed: pointsRedeemed,
	}, nil
}

// RewardPointsEarned accrues one point per 10 currency units actually charged
func RewardPointsEarned(finalAmount decimal.Decimal) int {
	return int(finalAmount.Div(pointsPerUnit).Floor().IntPart())
}

// ValidateCoupon applies the coupon applicability rules: active, inside the
// validity window, order amount at least min_amount, usage limit not reached,
// and facility scope matching. Returns ErrCouponInvalid on any failure.
func ValidateCoupon(coupon *entity.Coupon, amount decimal.Decimal, facilityID uuid.UUID, now time.Time) error {
	if !coupon.IsActive ||
		!coupon.IsWithinWindow(now) ||
		coupon.IsExhausted() ||
		amount.LessThan(coupon.MinAmount) ||
		!coupon.AppliesToFacility(facilityID) {
		return ErrCouponInvalid
	}
	return nil
}

// CouponDiscount computes the discount a valid coupon grants on total,
// honoring max_discount for percentage coupons.
func CouponDiscount(coupon *entity.Coupon, total decimal.Decimal) decimal.Decimal {
	switch coupon.DiscountType {
	case entity.DiscountTypePercentage:
		d := total.Mul(coupon.DiscountValue).Div(oneHundred)
		if coupon.MaxDiscount.IsPositive() && d.GreaterThan(coupon.MaxDiscount) {
			d = coupon.MaxDiscount
		}
		return d
	case entity.DiscountTypeFixed:
		return coupon.DiscountValue
	}
	return decimal.Zero
}
