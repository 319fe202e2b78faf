package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Court represents a bookable resource inside a facility
type Court struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"facility_id"`
	Name                string          `gorm:"type:varchar(255);not null" json:"name"`
	SportType           string          `gorm:"type:varchar(50);not null;index" json:"sport_type"`
	PricePerHour        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_hour"`
	OperatingHoursStart string          `gorm:"type:time;not null" json:"operating_hours_start"`
	OperatingHoursEnd   string          `gorm:"type:time;not null" json:"operating_hours_end"`
	IsActive            bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Facility Facility  `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
	Bookings []Booking `gorm:"foreignKey:CourtID" json:"bookings,omitempty"`
}

func (Court) TableName() string {
	return "courts"
}

// WithinOperatingHours reports whether [startMin, endMin) falls inside the
// court's operating window. Minutes are measured since midnight.
func (c *Court) WithinOperatingHours(startMin, endMin int) bool {
	openMin, err := MinutesOfDay(c.OperatingHoursStart)
	if err != nil {
		return false
	}
	closeMin, err := MinutesOfDay(c.OperatingHoursEnd)
	if err != nil {
		return false
	}
	return startMin >= openMin && endMin <= closeMin
}

// CourtFilter holds optional filters for court search
type CourtFilter struct {
	FacilityID string
	SportType  string
	City       string
}
