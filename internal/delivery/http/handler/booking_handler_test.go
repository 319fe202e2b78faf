package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
	"courtside/internal/service"
	"courtside/internal/usecase"
	"courtside/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingUsecase struct {
	mock.Mock
}

func (m *mockBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *mockBookingUsecase) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailabilityResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) GetOwnerBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingListResponse), args.Error(1)
}

func (m *mockBookingUsecase) Transition(ctx context.Context, bookingID uuid.UUID, target entity.BookingStatus) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func newBookingTestHandler(uc *mockBookingUsecase) *BookingHandler {
	return NewBookingHandler(uc, validator.NewValidator())
}

func createBookingBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dto.CreateBookingRequest{
		CourtID:       uuid.New(),
		BookingDate:   "2026-09-15",
		StartTime:     "10:00",
		DurationHours: 2,
		PaymentMethod: "wallet",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateBookingStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		usecaseErr error
		wantStatus int
	}{
		{"slot conflict maps to 409", usecase.ErrSlotConflict, http.StatusConflict},
		{"unknown court maps to 404", usecase.ErrCourtNotFound, http.StatusNotFound},
		{"inactive court maps to 400", usecase.ErrCourtInactive, http.StatusBadRequest},
		{"past slot maps to 400", usecase.ErrBookingInPast, http.StatusBadRequest},
		{"outside operating hours maps to 400", usecase.ErrOutsideOperatingHours, http.StatusBadRequest},
		{"missing payment reference maps to 400", usecase.ErrPaymentReferenceMissing, http.StatusBadRequest},
		{"invalid coupon maps to 400", service.ErrCouponInvalid, http.StatusBadRequest},
		{"unconfirmed payment maps to 402", service.ErrPaymentNotConfirmed, http.StatusPaymentRequired},
		{"unexpected failure maps to 500", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// 1. Setup
			uc := new(mockBookingUsecase)
			uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tc.usecaseErr)
			h := newBookingTestHandler(uc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", createBookingBody(t))
			rec := httptest.NewRecorder()

			// 2. Execute
			h.CreateBooking(rec, req)

			// 3. Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCreateBookingInsufficientBalance(t *testing.T) {
	// 1. Setup
	uc := new(mockBookingUsecase)
	uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, &usecase.InsufficientBalanceError{
		Balance:   decimal.RequireFromString("150.00"),
		Required:  decimal.RequireFromString("400.00"),
		Shortfall: decimal.RequireFromString("250.00"),
	})
	h := newBookingTestHandler(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", createBookingBody(t))
	rec := httptest.NewRecorder()

	// 2. Execute
	h.CreateBooking(rec, req)

	// 3. Assert: 402 with the structured shortfall in the error payload
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	var envelope struct {
		Error dto.InsufficientBalanceDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "150.00", envelope.Error.Balance)
	assert.Equal(t, "400.00", envelope.Error.Required)
	assert.Equal(t, "250.00", envelope.Error.Shortfall)
}

func TestCreateBookingValidation(t *testing.T) {
	t.Run("rejects unknown payment method before the usecase runs", func(t *testing.T) {
		// 1. Setup
		uc := new(mockBookingUsecase)
		h := newBookingTestHandler(uc)

		body, err := json.Marshal(dto.CreateBookingRequest{
			CourtID:       uuid.New(),
			BookingDate:   "2026-09-15",
			StartTime:     "10:00",
			DurationHours: 2,
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()

		// 2. Execute
		h.CreateBooking(rec, req)

		// 3. Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := newBookingTestHandler(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()

		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})
}

func TestTransitionStatusMapping(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name       string
		usecaseErr error
		wantStatus int
	}{
		{"forbidden actor maps to 403", usecase.ErrTransitionNotAllowed, http.StatusForbidden},
		{"invalid transition maps to 409", usecase.ErrInvalidTransition, http.StatusConflict},
		{"expired cancellation window maps to 422", usecase.ErrCancellationWindowExpired, http.StatusUnprocessableEntity},
		{"missing booking maps to 404", usecase.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// 1. Setup
			uc := new(mockBookingUsecase)
			uc.On("Transition", mock.Anything, bookingID, entity.BookingStatusCancelled).Return(nil, tc.usecaseErr)
			h := newBookingTestHandler(uc)

			router := mux.NewRouter()
			router.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)

			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/bookings/%s/cancel", bookingID), nil)
			rec := httptest.NewRecorder()

			// 2. Execute
			router.ServeHTTP(rec, req)

			// 3. Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	t.Run("invalid booking id maps to 400", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := newBookingTestHandler(uc)

		router := mux.NewRouter()
		router.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)

		req := httptest.NewRequest(http.MethodPost, "/bookings/not-a-uuid/cancel", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckAvailability(t *testing.T) {
	courtID := uuid.New()

	t.Run("returns the availability payload", func(t *testing.T) {
		// 1. Setup
		uc := new(mockBookingUsecase)
		uc.On("CheckAvailability", mock.Anything, mock.Anything).Return(&dto.AvailabilityResponse{
			CourtID:     courtID,
			BookingDate: "2026-09-15",
			StartTime:   "10:00",
			EndTime:     "12:00",
			Available:   true,
		}, nil)
		h := newBookingTestHandler(uc)

		url := fmt.Sprintf("/availability?court_id=%s&booking_date=2026-09-15&start_time=10:00&end_time=12:00", courtID)
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()

		// 2. Execute
		h.CheckAvailability(rec, req)

		// 3. Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data dto.AvailabilityResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.True(t, envelope.Data.Available)
	})

	t.Run("rejects a missing court id", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := newBookingTestHandler(uc)

		req := httptest.NewRequest(http.MethodGet, "/availability?booking_date=2026-09-15&start_time=10:00&end_time=12:00", nil)
		rec := httptest.NewRecorder()

		h.CheckAvailability(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything)
	})
}
