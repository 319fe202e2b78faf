package handler

import (
	"encoding/json"
	"net/http"

	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
	"courtside/internal/usecase"
	"courtside/pkg/response"
	"courtside/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CourtHandler struct {
	courtUsecase usecase.CourtUsecase
	validator    *validator.CustomValidator
}

func NewCourtHandler(courtUsecase usecase.CourtUsecase, validator *validator.CustomValidator) *CourtHandler {
	return &CourtHandler{
		courtUsecase: courtUsecase,
		validator:    validator,
	}
}

func (h *CourtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	court, err := h.courtUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case usecase.ErrNotFacilityOwner:
			response.Forbidden(w, "You do not own this facility")
		case usecase.ErrInvalidPrice, usecase.ErrInvalidOperatingHours:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create court")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Court created successfully", court)
}

func (h *CourtHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	court, err := h.courtUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		default:
			response.InternalServerError(w, "Failed to get court")
		}
		return
	}

	response.Success(w, http.StatusOK, "Court retrieved successfully", court)
}

func (h *CourtHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := &entity.CourtFilter{
		FacilityID: r.URL.Query().Get("facility_id"),
		SportType:  r.URL.Query().Get("sport_type"),
		City:       r.URL.Query().Get("city"),
	}

	courts, err := h.courtUsecase.Search(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to search courts")
		return
	}

	response.Success(w, http.StatusOK, "Courts retrieved successfully", courts)
}

func (h *CourtHandler) GetDaySchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	bookings, err := h.courtUsecase.GetDaySchedule(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		case usecase.ErrInvalidBookingDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to get court schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Court schedule retrieved successfully", bookings)
}

func (h *CourtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	var req dto.UpdateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	court, err := h.courtUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		case usecase.ErrNotFacilityOwner:
			response.Forbidden(w, "You do not own this facility")
		case usecase.ErrInvalidPrice, usecase.ErrInvalidOperatingHours:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update court")
		}
		return
	}

	response.Success(w, http.StatusOK, "Court updated successfully", court)
}

func (h *CourtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	if err := h.courtUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrCourtNotFound:
			response.NotFound(w, "Court not found")
		case usecase.ErrNotFacilityOwner:
			response.Forbidden(w, "You do not own this facility")
		default:
			response.InternalServerError(w, "Failed to delete court")
		}
		return
	}

	response.Success(w, http.StatusOK, "Court deleted successfully", nil)
}
