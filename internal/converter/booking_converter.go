package converter

import (
	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                   booking.ID,
		UserID:               booking.UserID,
		CourtID:              booking.CourtID,
		BookingCode:          booking.BookingCode,
		BookingDate:          booking.BookingDate.Format(entity.DateFormat),
		StartTime:            booking.StartTime,
		EndTime:              booking.EndTime,
		TotalAmount:          booking.TotalAmount.StringFixed(2),
		DiscountAmount:       booking.DiscountAmount.StringFixed(2),
		FinalAmount:          booking.FinalAmount.StringFixed(2),
		Status:               string(booking.Status),
		PaymentMethod:        string(booking.PaymentMethod),
		RewardPointsEarned:   booking.RewardPointsEarned,
		RewardPointsRedeemed: booking.RewardPointsRedeemed,
		CreatedAt:            booking.CreatedAt,
		UpdatedAt:            booking.UpdatedAt,
	}

	if booking.PaymentIntentID != nil {
		response.PaymentIntentID = *booking.PaymentIntentID
	}
	if booking.CouponCode != nil {
		response.CouponCode = *booking.CouponCode
	}

	// Include court info if available
	if booking.Court.ID != uuid.Nil {
		response.Court = CourtToResponse(&booking.Court)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := BookingToResponse(&booking)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
