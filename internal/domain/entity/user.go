package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the single identity table for customers, facility owners and admins.
// The role attribute replaces separate customer/CRM user tables.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID       int       `gorm:"not null;index" json:"role_id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:text;not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber  string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	RewardPoints int       `gorm:"not null;default:0" json:"reward_points"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role       Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Facilities []Facility `gorm:"foreignKey:OwnerID" json:"facilities,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

// IsOwner checks if the user holds the facility-owner role
func (u *User) IsOwner() bool {
	return u.RoleID == RoleIDOwner
}
