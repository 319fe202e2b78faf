package repository

import (
	"errors"
	"strings"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type couponRepository struct{}

func NewCouponRepository() domainRepo.CouponRepository {
	return &couponRepository{}
}

func (r *couponRepository) Create(db *gorm.DB, coupon *entity.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return db.Create(coupon).Error
}

func (r *couponRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := db.Where("id = ?", id).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByCode(db *gorm.DB, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindAll(db *gorm.DB) ([]entity.Coupon, error) {
	var coupons []entity.Coupon
	err := db.Order("created_at DESC").Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepository) Update(db *gorm.DB, coupon *entity.Coupon) error {
	return db.Omit("Facility").Save(coupon).Error
}

func (r *couponRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Coupon{})
	return result.RowsAffected, result.Error
}

func (r *couponRepository) IncrementUsage(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Coupon{}).
		Where("id = ? AND used_count < usage_limit", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	return result.RowsAffected, result.Error
}
