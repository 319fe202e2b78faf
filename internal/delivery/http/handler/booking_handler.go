package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
	"courtside/internal/service"
	"courtside/internal/usecase"
	"courtside/pkg/response"
	"courtside/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	courtID, err := uuid.Parse(r.URL.Query().Get("court_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	req := dto.AvailabilityRequest{
		CourtID:     courtID,
		BookingDate: r.URL.Query().Get("booking_date"),
		StartTime:   r.URL.Query().Get("start_time"),
		EndTime:     r.URL.Query().Get("end_time"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.bookingUsecase.CheckAvailability(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		case usecase.ErrInvalidBookingDate, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeRange:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to check availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", availability)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		var insufficientErr *usecase.InsufficientBalanceError
		if errors.As(err, &insufficientErr) {
			response.Error(w, http.StatusPaymentRequired, "Insufficient wallet balance", dto.InsufficientBalanceDetail{
				Balance:   insufficientErr.Balance.StringFixed(2),
				Required:  insufficientErr.Required.StringFixed(2),
				Shortfall: insufficientErr.Shortfall.StringFixed(2),
			})
			return
		}

		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		case usecase.ErrCourtInactive, usecase.ErrInvalidBookingDate, usecase.ErrInvalidTimeFormat,
			usecase.ErrInvalidTimeRange, usecase.ErrOutsideOperatingHours, usecase.ErrBookingInPast,
			usecase.ErrPaymentReferenceMissing, usecase.ErrRewardPointsUnavailable:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrSlotConflict:
			response.Conflict(w, "Slot is already booked")
		case service.ErrCouponInvalid:
			response.Error(w, http.StatusBadRequest, "Coupon is invalid, expired, or not applicable", nil)
		case service.ErrPaymentNotConfirmed:
			response.Error(w, http.StatusPaymentRequired, "Payment has not been confirmed", nil)
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetOwnerBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, entity.BookingStatusConfirmed, "Booking confirmed successfully")
}

func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, entity.BookingStatusRejected, "Booking rejected successfully")
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, entity.BookingStatusCancelled, "Booking cancelled successfully")
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, target entity.BookingStatus, successMessage string) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.Transition(r.Context(), bookingID, target)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrTransitionNotAllowed:
			response.Forbidden(w, "You are not allowed to perform this action")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Booking status does not permit this action")
		case usecase.ErrCancellationWindowExpired:
			response.Error(w, http.StatusUnprocessableEntity, "Bookings can only be cancelled at least 2 hours before start", nil)
		default:
			response.InternalServerError(w, "Failed to update booking")
		}
		return
	}

	response.Success(w, http.StatusOK, successMessage, booking)
}
