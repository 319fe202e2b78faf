package repository

import (
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(db *gorm.DB, coupon *entity.Coupon) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Coupon, error)
	FindByCode(db *gorm.DB, code string) (*entity.Coupon, error)
	FindAll(db *gorm.DB) ([]entity.Coupon, error)
	Update(db *gorm.DB, coupon *entity.Coupon) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	// IncrementUsage bumps used_count for the coupon in a single guarded
	// UPDATE. Returns affected rows: 0 means the usage limit was already
	// reached by a concurrent redemption.
	IncrementUsage(db *gorm.DB, id uuid.UUID) (int64, error)
}
