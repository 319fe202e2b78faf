package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType identifies how a coupon's value is applied
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is a discount rule, optionally scoped to a single facility
type Coupon struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountType  DiscountType    `gorm:"type:discount_type;not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"min_amount"`
	MaxDiscount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"max_discount"`
	UsageLimit    int             `gorm:"not null" json:"usage_limit"`
	UsedCount     int             `gorm:"not null;default:0" json:"used_count"`
	ValidFrom     time.Time       `gorm:"not null" json:"valid_from"`
	ValidUntil    time.Time       `gorm:"not null" json:"valid_until"`
	FacilityID    *uuid.UUID      `gorm:"type:uuid;index" json:"facility_id,omitempty"`
	IsActive      bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Facility *Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// IsWithinWindow checks the validity window at now
func (c *Coupon) IsWithinWindow(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidUntil)
}

// IsExhausted checks if the usage limit has been reached
func (c *Coupon) IsExhausted() bool {
	return c.UsedCount >= c.UsageLimit
}

// AppliesToFacility checks the optional facility scoping
func (c *Coupon) AppliesToFacility(facilityID uuid.UUID) bool {
	return c.FacilityID == nil || *c.FacilityID == facilityID
}
