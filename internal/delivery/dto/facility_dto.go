package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateFacilityRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required,max=100"`
}

type UpdateFacilityRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// Response DTOs

type FacilityResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	IsActive    bool            `json:"is_active"`
	Courts      []CourtResponse `json:"courts,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type FacilityListResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	Total      int                `json:"total"`
}
