package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRejected  BookingStatus = "rejected"
)

// PaymentMethod identifies how a booking is settled
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodUPI    PaymentMethod = "upi"
)

// CancellationNotice is the minimum lead time before the booked start at which
// a confirmed booking may still be cancelled.
const CancellationNotice = 2 * time.Hour

// ActiveStatuses are the statuses that occupy a slot on the court calendar
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Booking represents one reservation of a court for a time window by a user
type Booking struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CourtID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"court_id"`
	BookingCode          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	BookingDate          time.Time       `gorm:"type:date;not null;index" json:"booking_date"`
	StartTime            string          `gorm:"type:time;not null" json:"start_time"`
	EndTime              string          `gorm:"type:time;not null" json:"end_time"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	FinalAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_amount"`
	Status               BookingStatus   `gorm:"type:booking_status;not null;default:'pending';index" json:"status"`
	PaymentMethod        PaymentMethod   `gorm:"type:payment_method;not null" json:"payment_method"`
	PaymentIntentID      *string         `gorm:"type:varchar(255)" json:"payment_intent_id,omitempty"`
	CouponCode           *string         `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	RewardPointsEarned   int             `gorm:"not null;default:0" json:"reward_points_earned"`
	RewardPointsRedeemed int             `gorm:"not null;default:0" json:"reward_points_redeemed"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Court Court `gorm:"foreignKey:CourtID" json:"court,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsConfirmed checks if booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether the booking is in a terminal state
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to target.
// pending -> confirmed | rejected; confirmed -> cancelled | completed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusRejected
	case BookingStatusConfirmed:
		return target == BookingStatusCancelled || target == BookingStatusCompleted
	}
	return false
}

// StartsAt combines BookingDate and StartTime into an absolute instant in loc
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return slotInstant(b.BookingDate, b.StartTime, loc)
}

// EndsAt combines BookingDate and EndTime into an absolute instant in loc
func (b *Booking) EndsAt(loc *time.Location) (time.Time, error) {
	return slotInstant(b.BookingDate, b.EndTime, loc)
}

// CancellableAt reports whether the booking may still be cancelled at now:
// strictly more than CancellationNotice before the booked start.
func (b *Booking) CancellableAt(now time.Time, loc *time.Location) (bool, error) {
	start, err := b.StartsAt(loc)
	if err != nil {
		return false, err
	}
	return now.Before(start.Add(-CancellationNotice)), nil
}

func slotInstant(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	min, err := MinutesOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), min/60, min%60, 0, 0, loc), nil
}
