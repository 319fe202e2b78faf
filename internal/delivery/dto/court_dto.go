package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateCourtRequest struct {
	FacilityID          uuid.UUID `json:"facility_id" validate:"required"`
	Name                string    `json:"name" validate:"required,max=255"`
	SportType           string    `json:"sport_type" validate:"required,max=50"`
	PricePerHour        string    `json:"price_per_hour" validate:"required,money"`
	OperatingHoursStart string    `json:"operating_hours_start" validate:"required"`
	OperatingHoursEnd   string    `json:"operating_hours_end" validate:"required"`
}

type UpdateCourtRequest struct {
	Name                string  `json:"name,omitempty" validate:"omitempty,max=255"`
	SportType           string  `json:"sport_type,omitempty" validate:"omitempty,max=50"`
	PricePerHour        string  `json:"price_per_hour,omitempty" validate:"omitempty,money"`
	OperatingHoursStart string  `json:"operating_hours_start,omitempty"`
	OperatingHoursEnd   string  `json:"operating_hours_end,omitempty"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

// Response DTOs

type CourtResponse struct {
	ID                  uuid.UUID         `json:"id"`
	FacilityID          uuid.UUID         `json:"facility_id"`
	Name                string            `json:"name"`
	SportType           string            `json:"sport_type"`
	PricePerHour        string            `json:"price_per_hour"`
	OperatingHoursStart string            `json:"operating_hours_start"`
	OperatingHoursEnd   string            `json:"operating_hours_end"`
	IsActive            bool              `json:"is_active"`
	Facility            *FacilityResponse `json:"facility,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type CourtListResponse struct {
	Courts []CourtResponse `json:"courts"`
	Total  int             `json:"total"`
}
