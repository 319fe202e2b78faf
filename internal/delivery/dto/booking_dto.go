package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	CourtID         uuid.UUID `json:"court_id" validate:"required"`
	BookingDate     string    `json:"booking_date" validate:"required"`
	StartTime       string    `json:"start_time" validate:"required"`
	DurationHours   int       `json:"duration_hours" validate:"required,min=1,max=12"`
	PaymentMethod   string    `json:"payment_method" validate:"required,oneof=wallet stripe upi"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	CouponCode      string    `json:"coupon_code,omitempty"`
	UseRewardPoints bool      `json:"use_reward_points"`
}

type AvailabilityRequest struct {
	CourtID     uuid.UUID `json:"court_id" validate:"required"`
	BookingDate string    `json:"booking_date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
}

// Response DTOs

type BookingResponse struct {
	ID                   uuid.UUID      `json:"id"`
	UserID               uuid.UUID      `json:"user_id"`
	CourtID              uuid.UUID      `json:"court_id"`
	BookingCode          string         `json:"booking_code"`
	BookingDate          string         `json:"booking_date"`
	StartTime            string         `json:"start_time"`
	EndTime              string         `json:"end_time"`
	TotalAmount          string         `json:"total_amount"`
	DiscountAmount       string         `json:"discount_amount"`
	FinalAmount          string         `json:"final_amount"`
	Status               string         `json:"status"`
	PaymentMethod        string         `json:"payment_method"`
	PaymentIntentID      string         `json:"payment_intent_id,omitempty"`
	CouponCode           string         `json:"coupon_code,omitempty"`
	RewardPointsEarned   int            `json:"reward_points_earned"`
	RewardPointsRedeemed int            `json:"reward_points_redeemed"`
	Court                *CourtResponse `json:"court,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

type AvailabilityResponse struct {
	CourtID     uuid.UUID `json:"court_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Available   bool      `json:"available"`
}
