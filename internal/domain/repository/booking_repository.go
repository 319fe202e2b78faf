package repository

import (
	"time"

	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error)
	FindByOwnerID(db *gorm.DB, ownerID uuid.UUID) ([]entity.Booking, error)
	FindByCourtAndDate(db *gorm.DB, courtID uuid.UUID, date time.Time) ([]entity.Booking, error)
	// CountOverlapping counts pending/confirmed bookings on (courtID, date)
	// whose [start_time, end_time) interval intersects the given one.
	CountOverlapping(db *gorm.DB, courtID uuid.UUID, date time.Time, startTime, endTime string) (int64, error)
	// UpdateStatusGuarded transitions id from one status to another in a single
	// guarded UPDATE. Returns affected rows: 0 means the booking was no longer
	// in the from status.
	UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus) (int64, error)
	// CompleteFinished marks confirmed bookings whose end instant has passed
	// as completed. Returns the number of rows swept.
	CompleteFinished(db *gorm.DB, now time.Time) (int64, error)
}
