package entity

import (
	"time"

	"github.com/google/uuid"
)

// Facility represents a sports venue owned by a facility owner
type Facility struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	City        string    `gorm:"type:varchar(100);not null;index" json:"city"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Owner  User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Courts []Court `gorm:"foreignKey:FacilityID" json:"courts,omitempty"`
}

func (Facility) TableName() string {
	return "facilities"
}
