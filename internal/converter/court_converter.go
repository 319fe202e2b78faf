package converter

import (
	"courtside/internal/delivery/dto"
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
)

// CourtToResponse converts a Court entity to CourtResponse DTO
func CourtToResponse(court *entity.Court) *dto.CourtResponse {
	if court == nil {
		return nil
	}

	response := &dto.CourtResponse{
		ID:                  court.ID,
		FacilityID:          court.FacilityID,
		Name:                court.Name,
		SportType:           court.SportType,
		PricePerHour:        court.PricePerHour.StringFixed(2),
		OperatingHoursStart: court.OperatingHoursStart,
		OperatingHoursEnd:   court.OperatingHoursEnd,
		IsActive:            court.IsActive,
		CreatedAt:           court.CreatedAt,
		UpdatedAt:           court.UpdatedAt,
	}

	// Include facility info if available
	if court.Facility.ID != uuid.Nil {
		response.Facility = FacilityToResponse(&court.Facility)
	}

	return response
}

// CourtsToResponses converts a slice of Court entities to slice of CourtResponse DTOs
func CourtsToResponses(courts []entity.Court) []dto.CourtResponse {
	responses := make([]dto.CourtResponse, len(courts))
	for i, court := range courts {
		resp := CourtToResponse(&court)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
