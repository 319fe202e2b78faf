package usecase

import (
	"context"
	"errors"
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
	ErrInvalidPrice          = errors.New("price per hour must be a positive amount")
	ErrInvalidOperatingHours = errors.New("operating hours must be valid times with start before end")
)

type CourtUsecase interface {
	Create(ctx context.Context, req *dto.CreateCourtRequest) (*dto.CourtResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CourtResponse, error)
	Search(ctx context.Context, filter *entity.CourtFilter) (*dto.CourtListResponse, error)
	GetDaySchedule(ctx context.Context, courtID uuid.UUID, date string) (*dto.BookingListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCourtRequest) (*dto.CourtResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type courtUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	courtRepo    repository.CourtRepository
	facilityRepo repository.FacilityRepository
	bookingRepo  repository.BookingRepository
	audit        service.AuditService
}

func NewCourtUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	courtRepo repository.CourtRepository,
	facilityRepo repository.FacilityRepository,
	bookingRepo repository.BookingRepository,
	audit service.AuditService,
) CourtUsecase {
	return &courtUsecase{
		db:           db,
		log:          log,
		courtRepo:    courtRepo,
		facilityRepo: facilityRepo,
		bookingRepo:  bookingRepo,
		audit:        audit,
	}
}

func (u *courtUsecase) Create(ctx context.Context, req *dto.CreateCourtRequest) (*dto.CourtResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), req.FacilityID)
	if err != nil {
		u.log.Warnf("Failed to find facility %s: %+v", req.FacilityID, err)
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}
	if roleID != entity.RoleIDAdmin && facility.OwnerID != actorID {
		return nil, ErrNotFacilityOwner
	}

	price, err := decimal.NewFromString(req.PricePerHour)
	if err != nil || !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if err := validateOperatingHours(req.OperatingHoursStart, req.OperatingHoursEnd); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	court := &entity.Court{
		FacilityID:          facility.ID,
		Name:                req.Name,
		SportType:           req.SportType,
		PricePerHour:        price,
		OperatingHoursStart: req.OperatingHoursStart,
		OperatingHoursEnd:   req.OperatingHoursEnd,
		IsActive:            true,
	}

	if err := u.courtRepo.Create(tx, court); err != nil {
		u.log.Warnf("Failed to create court: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCourtCreate, "court", court.ID.String(), nil, court); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CourtToResponse(court), nil
}

func (u *courtUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CourtResponse, error) {
	court, err := u.courtRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find court %s: %+v", id, err)
		return nil, err
	}
	if court == nil {
		return nil, ErrCourtNotFound
	}

	return converter.CourtToResponse(court), nil
}

func (u *courtUsecase) Search(ctx context.Context, filter *entity.CourtFilter) (*dto.CourtListResponse, error) {
	courts, err := u.courtRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to search courts: %+v", err)
		return nil, err
	}

	return &dto.CourtListResponse{
		Courts: converter.CourtsToResponses(courts),
		Total:  len(courts),
	}, nil
}

// GetDaySchedule lists the active bookings on a court for one date so a
// client can render the free slots.
func (u *courtUsecase) GetDaySchedule(ctx context.Context, courtID uuid.UUID, date string) (*dto.BookingListResponse, error) {
	day, err := time.Parse(entity.DateFormat, date)
	if err != nil {
		return nil, ErrInvalidBookingDate
	}

	court, err := u.courtRepo.FindByID(u.db.WithContext(ctx), courtID)
	if err != nil {
		u.log.Warnf("Failed to find court %s: %+v", courtID, err)
		return nil, err
	}
	if court == nil {
		return nil, ErrCourtNotFound
	}

	bookings, err := u.bookingRepo.FindByCourtAndDate(u.db.WithContext(ctx), courtID, day)
	if err != nil {
		u.log.Warnf("Failed to list bookings for court %s on %s: %+v", courtID, date, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

func (u *courtUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCourtRequest) (*dto.CourtResponse, error) {
	court, err := u.ownedCourt(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	before := *court

	if req.Name != "" {
		court.Name = req.Name
	}
	if req.SportType != "" {
		court.SportType = req.SportType
	}
	if req.PricePerHour != "" {
		price, err := decimal.NewFromString(req.PricePerHour)
		if err != nil || !price.IsPositive() {
			return nil, ErrInvalidPrice
		}
		court.PricePerHour = price
	}
	if req.OperatingHoursStart != "" {
		court.OperatingHoursStart = req.OperatingHoursStart
	}
	if req.OperatingHoursEnd != "" {
		court.OperatingHoursEnd = req.OperatingHoursEnd
	}
	if err := validateOperatingHours(court.OperatingHoursStart, court.OperatingHoursEnd); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.courtRepo.Update(tx, court); err != nil {
		u.log.Warnf("Failed to update court %s: %+v", id, err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCourtUpdate, "court", court.ID.String(), &before, court); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CourtToResponse(court), nil
}

func (u *courtUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	court, err := u.ownedCourt(ctx, id)
	if err != nil {
		return err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.courtRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete court %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrCourtNotFound
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCourtDelete, "court", court.ID.String(), court, nil); err != nil {
		return err
	}

	return tx.Commit().Error
}

// ownedCourt loads the court and enforces facility ownership for non-admins
func (u *courtUsecase) ownedCourt(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	court, err := u.courtRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find court %s: %+v", id, err)
		return nil, err
	}
	if court == nil {
		return nil, ErrCourtNotFound
	}
	if roleID != entity.RoleIDAdmin && court.Facility.OwnerID != actorID {
		return nil, ErrNotFacilityOwner
	}
	return court, nil
}

func validateOperatingHours(start, end string) error {
	startMin, err := entity.MinutesOfDay(start)
	if err != nil {
		return ErrInvalidOperatingHours
	}
	endMin, err := entity.MinutesOfDay(end)
	if err != nil {
		return ErrInvalidOperatingHours
	}
	if startMin >= endMin {
		return ErrInvalidOperatingHours
	}
	return nil
}
