package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"courtside/internal/converter"
	"courtside/internal/delivery/dto"
	"courtside/internal/delivery/http/middleware"
	"courtside/internal/domain/entity"
	"courtside/internal/domain/repository"
	"courtside/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponCodeExists    = errors.New("coupon code already exists")
	ErrInvalidCouponWindow = errors.New("valid_from must be before valid_until")
)

type CouponUsecase interface {
	Create(ctx context.Context, req *dto.CreateCouponRequest) (*dto.CouponResponse, error)
	GetAll(ctx context.Context) (*dto.CouponListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CouponResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCouponRequest) (*dto.CouponResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Validate is a read-only probe: it reports whether the coupon would
	// apply to a booking of the given amount, without consuming usage.
	Validate(ctx context.Context, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error)
}

type couponUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	couponRepo repository.CouponRepository
	audit      service.AuditService
}

func NewCouponUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	couponRepo repository.CouponRepository,
	audit service.AuditService,
) CouponUsecase {
	return &couponUsecase{
		db:         db,
		log:        log,
		couponRepo: couponRepo,
		audit:      audit,
	}
}

func (u *couponUsecase) Create(ctx context.Context, req *dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, ErrInvalidCouponWindow
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, ErrInvalidCouponWindow
	}
	if !validFrom.Before(validUntil) {
		return nil, ErrInvalidCouponWindow
	}

	discountValue, err := decimal.NewFromString(req.DiscountValue)
	if err != nil || !discountValue.IsPositive() {
		return nil, ErrInvalidAmount
	}
	minAmount := decimal.Zero
	if req.MinAmount != "" {
		if minAmount, err = decimal.NewFromString(req.MinAmount); err != nil {
			return nil, ErrInvalidAmount
		}
	}
	maxDiscount := decimal.Zero
	if req.MaxDiscount != "" {
		if maxDiscount, err = decimal.NewFromString(req.MaxDiscount); err != nil {
			return nil, ErrInvalidAmount
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	coupon := &entity.Coupon{
		Code:          strings.ToUpper(req.Code),
		DiscountType:  entity.DiscountType(req.DiscountType),
		DiscountValue: discountValue,
		MinAmount:     minAmount,
		MaxDiscount:   maxDiscount,
		UsageLimit:    req.UsageLimit,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		FacilityID:    req.FacilityID,
		IsActive:      true,
	}

	if err := u.couponRepo.Create(tx, coupon); err != nil {
		if isDuplicateKeyError(err, "code") {
			return nil, ErrCouponCodeExists
		}
		u.log.Warnf("Failed to create coupon: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCouponCreate, "coupon", coupon.ID.String(), nil, coupon); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CouponToResponse(coupon), nil
}

func (u *couponUsecase) GetAll(ctx context.Context) (*dto.CouponListResponse, error) {
	coupons, err := u.couponRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list coupons: %+v", err)
		return nil, err
	}

	return &dto.CouponListResponse{
		Coupons: converter.CouponsToResponses(coupons),
		Total:   len(coupons),
	}, nil
}

func (u *couponUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CouponResponse, error) {
	coupon, err := u.couponRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find coupon %s: %+v", id, err)
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return converter.CouponToResponse(coupon), nil
}

func (u *couponUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	coupon, err := u.couponRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find coupon %s: %+v", id, err)
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	before := *coupon

	if req.DiscountValue != "" {
		value, err := decimal.NewFromString(req.DiscountValue)
		if err != nil || !value.IsPositive() {
			return nil, ErrInvalidAmount
		}
		coupon.DiscountValue = value
	}
	if req.MinAmount != "" {
		value, err := decimal.NewFromString(req.MinAmount)
		if err != nil {
			return nil, ErrInvalidAmount
		}
		coupon.MinAmount = value
	}
	if req.MaxDiscount != "" {
		value, err := decimal.NewFromString(req.MaxDiscount)
		if err != nil {
			return nil, ErrInvalidAmount
		}
		coupon.MaxDiscount = value
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.ValidUntil != "" {
		validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
		if err != nil || !coupon.ValidFrom.Before(validUntil) {
			return nil, ErrInvalidCouponWindow
		}
		coupon.ValidUntil = validUntil
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.couponRepo.Update(tx, coupon); err != nil {
		u.log.Warnf("Failed to update coupon %s: %+v", id, err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCouponUpdate, "coupon", coupon.ID.String(), &before, coupon); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CouponToResponse(coupon), nil
}

func (u *couponUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	coupon, err := u.couponRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find coupon %s: %+v", id, err)
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.couponRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete coupon %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrCouponNotFound
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCouponDelete, "coupon", coupon.ID.String(), coupon, nil); err != nil {
		return err
	}

	return tx.Commit().Error
}

func (u *couponUsecase) Validate(ctx context.Context, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	coupon, err := u.couponRepo.FindByCode(u.db.WithContext(ctx), req.Code)
	if err != nil {
		u.log.Warnf("Failed to find coupon %s: %+v", req.Code, err)
		return nil, err
	}

	resp := &dto.ValidateCouponResponse{
		Code:           strings.ToUpper(req.Code),
		DiscountAmount: decimal.Zero.StringFixed(2),
	}
	if coupon == nil {
		return resp, nil
	}

	if err := service.ValidateCoupon(coupon, amount, req.FacilityID, time.Now()); err != nil {
		return resp, nil
	}

	resp.Valid = true
	resp.DiscountAmount = service.CouponDiscount(coupon, amount).StringFixed(2)
	return resp, nil
}
