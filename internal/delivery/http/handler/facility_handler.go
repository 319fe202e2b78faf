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

type FacilityHandler struct {
	facilityUsecase usecase.FacilityUsecase
	validator       *validator.CustomValidator
}

func NewFacilityHandler(facilityUsecase usecase.FacilityUsecase, validator *validator.CustomValidator) *FacilityHandler {
	return &FacilityHandler{
		facilityUsecase: facilityUsecase,
		validator:       validator,
	}
}

func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	facility, err := h.facilityUsecase.Create(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create facility")
		return
	}

	response.Success(w, http.StatusCreated, "Facility created successfully", facility)
}

func (h *FacilityHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid facility ID", nil)
		return
	}

	facility, err := h.facilityUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		default:
			response.InternalServerError(w, "Failed to get facility")
		}
		return
	}

	response.Success(w, http.StatusOK, "Facility retrieved successfully", facility)
}

func (h *FacilityHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilityUsecase.GetMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get facilities")
		return
	}

	response.Success(w, http.StatusOK, "Facilities retrieved successfully", facilities)
}

func (h *FacilityHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilityUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get facilities")
		return
	}

	response.Success(w, http.StatusOK, "Facilities retrieved successfully", facilities)
}

func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid facility ID", nil)
		return
	}

	var req dto.UpdateFacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	facility, err := h.facilityUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case usecase.ErrNotFacilityOwner:
			response.Forbidden(w, "You do not own this facility")
		default:
			response.InternalServerError(w, "Failed to update facility")
		}
		return
	}

	response.Success(w, http.StatusOK, "Facility updated successfully", facility)
}

func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid facility ID", nil)
		return
	}

	if err := h.facilityUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case usecase.ErrNotFacilityOwner:
			response.Forbidden(w, "You do not own this facility")
		default:
			response.InternalServerError(w, "Failed to delete facility")
		}
		return
	}

	response.Success(w, http.StatusOK, "Facility deleted successfully", nil)
}
