package usecase

import (
	"context"
	"errors"

	"courtside/internal/converter"
	"courtside/internal/delivery/dto"
	"courtside/internal/delivery/http/middleware"
	"courtside/internal/domain/entity"
	"courtside/internal/domain/repository"
	"courtside/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFacilityNotFound = errors.New("facility not found")
	ErrNotFacilityOwner = errors.New("you do not own this facility")
)

type FacilityUsecase interface {
	Create(ctx context.Context, req *dto.CreateFacilityRequest) (*dto.FacilityResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.FacilityResponse, error)
	GetMine(ctx context.Context) (*dto.FacilityListResponse, error)
	GetAll(ctx context.Context) (*dto.FacilityListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFacilityRequest) (*dto.FacilityResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type facilityUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	facilityRepo repository.FacilityRepository
	audit        service.AuditService
}

func NewFacilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	facilityRepo repository.FacilityRepository,
	audit service.AuditService,
) FacilityUsecase {
	return &facilityUsecase{
		db:           db,
		log:          log,
		facilityRepo: facilityRepo,
		audit:        audit,
	}
}

func (u *facilityUsecase) Create(ctx context.Context, req *dto.CreateFacilityRequest) (*dto.FacilityResponse, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	facility := &entity.Facility{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		IsActive:    true,
	}

	if err := u.facilityRepo.Create(tx, facility); err != nil {
		u.log.Warnf("Failed to create facility: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &ownerID, entity.AuditActionFacilityCreate, "facility", facility.ID.String(), nil, facility); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.FacilityToResponse(facility), nil
}

func (u *facilityUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.FacilityResponse, error) {
	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find facility %s: %+v", id, err)
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	return converter.FacilityToResponse(facility), nil
}

func (u *facilityUsecase) GetMine(ctx context.Context) (*dto.FacilityListResponse, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	facilities, err := u.facilityRepo.FindByOwnerID(u.db.WithContext(ctx), ownerID)
	if err != nil {
		u.log.Warnf("Failed to list facilities for owner %s: %+v", ownerID, err)
		return nil, err
	}

	return &dto.FacilityListResponse{
		Facilities: converter.FacilitiesToResponses(facilities),
		Total:      len(facilities),
	}, nil
}

func (u *facilityUsecase) GetAll(ctx context.Context) (*dto.FacilityListResponse, error) {
	facilities, err := u.facilityRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list facilities: %+v", err)
		return nil, err
	}

	return &dto.FacilityListResponse{
		Facilities: converter.FacilitiesToResponses(facilities),
		Total:      len(facilities),
	}, nil
}

func (u *facilityUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFacilityRequest) (*dto.FacilityResponse, error) {
	facility, err := u.ownedFacility(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	before := *facility

	if req.Name != "" {
		facility.Name = req.Name
	}
	if req.Description != "" {
		facility.Description = req.Description
	}
	if req.Address != "" {
		facility.Address = req.Address
	}
	if req.City != "" {
		facility.City = req.City
	}
	if req.IsActive != nil {
		facility.IsActive = *req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.facilityRepo.Update(tx, facility); err != nil {
		u.log.Warnf("Failed to update facility %s: %+v", id, err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionFacilityUpdate, "facility", facility.ID.String(), &before, facility); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.FacilityToResponse(facility), nil
}

func (u *facilityUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	facility, err := u.ownedFacility(ctx, id)
	if err != nil {
		return err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.facilityRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete facility %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrFacilityNotFound
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionFacilityDelete, "facility", facility.ID.String(), facility, nil); err != nil {
		return err
	}

	return tx.Commit().Error
}

// ownedFacility loads the facility and enforces that the actor owns it,
// unless the actor is an admin.
func (u *facilityUsecase) ownedFacility(ctx context.Context, id uuid.UUID) (*entity.Facility, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find facility %s: %+v", id, err)
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}
	if roleID != entity.RoleIDAdmin && facility.OwnerID != actorID {
		return nil, ErrNotFacilityOwner
	}
	return facility, nil
}
