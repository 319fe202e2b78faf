package repository

import (
	"errors"
	"time"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Court.Facility").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("Court.Facility").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByOwnerID(db *gorm.DB, ownerID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("Court.Facility").Preload("User").
		Joins("JOIN courts ON courts.id = bookings.court_id").
		Joins("JOIN facilities ON facilities.id = courts.facility_id").
		Where("facilities.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByCourtAndDate(db *gorm.DB, courtID uuid.UUID, date time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("court_id = ? AND booking_date = ? AND status IN ?", courtID, date, entity.ActiveStatuses).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountOverlapping applies the closed-open interval test in SQL:
// existing.start < requested.end AND existing.end > requested.start.
func (r *bookingRepository) CountOverlapping(db *gorm.DB, courtID uuid.UUID, date time.Time, startTime, endTime string) (int64, error) {
	var count int64
	err := db.Model(&entity.Booking{}).
		Where("court_id = ? AND booking_date = ? AND status IN ?", courtID, date, entity.ActiveStatuses).
		Where("start_time < ?::time AND end_time > ?::time", endTime, startTime).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) CompleteFinished(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("status = ? AND booking_date + end_time < ?", entity.BookingStatusConfirmed, now).
		Update("status", entity.BookingStatusCompleted)
	return result.RowsAffected, result.Error
}
