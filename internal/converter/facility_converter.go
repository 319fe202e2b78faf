package converter

import (
	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"
)

// FacilityToResponse converts a Facility entity to FacilityResponse DTO
func FacilityToResponse(facility *entity.Facility) *dto.FacilityResponse {
	if facility == nil {
		return nil
	}

	response := &dto.FacilityResponse{
		ID:          facility.ID,
		OwnerID:     facility.OwnerID,
		Name:        facility.Name,
		Description: facility.Description,
		Address:     facility.Address,
		City:        facility.City,
		IsActive:    facility.IsActive,
		CreatedAt:   facility.CreatedAt,
		UpdatedAt:   facility.UpdatedAt,
	}

	if len(facility.Courts) > 0 {
		response.Courts = CourtsToResponses(facility.Courts)
	}

	return response
}

// FacilitiesToResponses converts a slice of Facility entities to slice of FacilityResponse DTOs
func FacilitiesToResponses(facilities []entity.Facility) []dto.FacilityResponse {
	responses := make([]dto.FacilityResponse, len(facilities))
	for i, facility := range facilities {
		resp := FacilityToResponse(&facility)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
