package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
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
	ErrCourtNotFound             = errors.New("court not found")
	ErrCourtInactive             = errors.New("court is not open for booking")
	ErrInvalidBookingDate        = errors.New("invalid booking date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat         = errors.New("invalid time format, use HH:MM")
	ErrInvalidTimeRange          = errors.New("start time must be before end time within the same day")
	ErrOutsideOperatingHours     = errors.New("requested slot is outside the court's operating hours")
	ErrBookingInPast             = errors.New("cannot book a slot in the past")
	ErrSlotConflict              = errors.New("slot is already booked")
	ErrPaymentReferenceMissing   = errors.New("payment reference is required for this payment method")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrTransitionNotAllowed      = errors.New("you are not allowed to perform this transition")
	ErrInvalidTransition         = errors.New("booking status does not permit this transition")
	ErrCancellationWindowExpired = errors.New("bookings can only be cancelled at least 2 hours before start")
	ErrRewardPointsUnavailable   = errors.New("reward points are no longer available for redemption")
)

// InsufficientBalanceError carries the structured shortfall so the client can
// offer a top-up or a payment-method switch.
type InsufficientBalanceError struct {
	Balance   decimal.Decimal
	Required  decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: have %s, need %s", e.Balance, e.Required)
}

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetOwnerBookings(ctx context.Context) (*dto.BookingListResponse, error)
	Transition(ctx context.Context, bookingID uuid.UUID, target entity.BookingStatus) (*dto.BookingResponse, error)
}

// SlotHolder is the hold surface the admission sequence needs; satisfied by
// service.SlotHoldService.
type SlotHolder interface {
	Acquire(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int) (string, error)
	Release(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int, token string)
}

type bookingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	loc         *time.Location
	bookingRepo repository.BookingRepository
	courtRepo   repository.CourtRepository
	userRepo    repository.UserRepository
	couponRepo  repository.CouponRepository
	pricing     *service.PricingService
	ledger      *service.WalletLedger
	slotHolds   SlotHolder
	verifiers   map[entity.PaymentMethod]service.PaymentVerifier
	audit       service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	bookingRepo repository.BookingRepository,
	courtRepo repository.CourtRepository,
	userRepo repository.UserRepository,
	couponRepo repository.CouponRepository,
	pricing *service.PricingService,
	ledger *service.WalletLedger,
	slotHolds SlotHolder,
	verifiers map[entity.PaymentMethod]service.PaymentVerifier,
	audit service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:          db,
		log:         log,
		loc:         loc,
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		userRepo:    userRepo,
		couponRepo:  couponRepo,
		pricing:     pricing,
		ledger:      ledger,
		slotHolds:   slotHolds,
		verifiers:   verifiers,
		audit:       audit,
	}
}

// slotRequest is a parsed, validated booking window
type slotRequest struct {
	date      time.Time
	startMin  int
	endMin    int
	startTime string
	endTime   string
}

// parseSlot validates the date and start time and derives the end time from
// the requested duration, so start and end can never disagree with it.
func parseSlot(dateStr, startStr string, durationHours int) (*slotRequest, error) {
	date, err := time.Parse(entity.DateFormat, dateStr)
	if err != nil {
		return nil, ErrInvalidBookingDate
	}
	startMin, err := entity.MinutesOfDay(startStr)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	endMin := startMin + durationHours*60
	if durationHours < 1 || endMin > 24*60 {
		return nil, ErrInvalidTimeRange
	}
	return &slotRequest{
		date:      date,
		startMin:  startMin,
		endMin:    endMin,
		startTime: entity.FormatMinutes(startMin),
		endTime:   entity.FormatMinutes(endMin),
	}, nil
}

// parseSlotRange validates an explicit [start, end) window
func parseSlotRange(dateStr, startStr, endStr string) (*slotRequest, error) {
	date, err := time.Parse(entity.DateFormat, dateStr)
	if err != nil {
		return nil, ErrInvalidBookingDate
	}
	startMin, err := entity.MinutesOfDay(startStr)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	endMin, err := entity.MinutesOfDay(endStr)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if startMin >= endMin {
		return nil, ErrInvalidTimeRange
	}
	return &slotRequest{
		date:      date,
		startMin:  startMin,
		endMin:    endMin,
		startTime: entity.FormatMinutes(startMin),
		endTime:   entity.FormatMinutes(endMin),
	}, nil
}

// CheckAvailability is the pure read used by clients before showing a payment
// form. Admission re-checks inside its transaction regardless.
func (u *bookingUsecase) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	slot, err := parseSlotRange(req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	court, err := u.courtRepo.FindByID(u.db.WithContext(ctx), req.CourtID)
	if err != nil {
		u.log.Warnf("Failed to find court %s: %+v", req.CourtID, err)
		return nil, err
	}
	if court == nil {
		return nil, ErrCourtNotFound
	}

	count, err := u.bookingRepo.CountOverlapping(u.db.WithContext(ctx), req.CourtID, slot.date, slot.startTime, slot.endTime)
	if err != nil {
		u.log.Warnf("Failed to count overlapping bookings for court %s: %+v", req.CourtID, err)
		return nil, err
	}

	return &dto.AvailabilityResponse{
		CourtID:     req.CourtID,
		BookingDate: slot.date.Format(entity.DateFormat),
		StartTime:   slot.startTime,
		EndTime:     slot.endTime,
		Available:   count == 0,
	}, nil
}

// CreateBooking is the admission sequence: validate, price, check payment
// preconditions, re-check availability, persist, settle, accrue rewards.
// Payment verification happens before the transaction so no lock is held
// across the processor round trip.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	now := time.Now()

	// Step 1: structural validation
	slot, err := parseSlot(req.BookingDate, req.StartTime, req.DurationHours)
	if err != nil {
		return nil, err
	}

	court, err := u.courtRepo.FindByID(u.db.WithContext(ctx), req.CourtID)
	if err != nil {
		u.log.Warnf("Failed to find court %s: %+v", req.CourtID, err)
		return nil, err
	}
	if court == nil {
		return nil, ErrCourtNotFound
	}
	if !court.IsActive || !court.Facility.IsActive {
		return nil, ErrCourtInactive
	}
	if !court.WithinOperatingHours(slot.startMin, slot.endMin) {
		return nil, ErrOutsideOperatingHours
	}

	startAt := time.Date(slot.date.Year(), slot.date.Month(), slot.date.Day(), slot.startMin/60, slot.startMin%60, 0, 0, u.loc)
	if !startAt.After(now) {
		return nil, ErrBookingInPast
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	// Step 2: pricing. An explicit coupon that does not resolve is an error,
	// never a silent zero discount.
	var coupon *entity.Coupon
	if req.CouponCode != "" {
		coupon, err = u.couponRepo.FindByCode(u.db.WithContext(ctx), req.CouponCode)
		if err != nil {
			u.log.Warnf("Failed to find coupon %s: %+v", req.CouponCode, err)
			return nil, err
		}
		if coupon == nil {
			return nil, service.ErrCouponInvalid
		}
	}

	quote, err := u.pricing.QuoteBooking(court.PricePerHour, req.DurationHours, req.UseRewardPoints, user.RewardPoints, coupon, court.FacilityID, now)
	if err != nil {
		return nil, err
	}

	// Step 3: payment-method preconditions
	method := entity.PaymentMethod(req.PaymentMethod)
	switch method {
	case entity.PaymentMethodWallet:
		balance, err := u.ledger.Balance(u.db.WithContext(ctx), userID)
		if err != nil {
			return nil, err
		}
		if balance.LessThan(quote.FinalAmount) {
			return nil, &InsufficientBalanceError{
				Balance:   balance,
				Required:  quote.FinalAmount,
				Shortfall: quote.FinalAmount.Sub(balance),
			}
		}
	case entity.PaymentMethodStripe, entity.PaymentMethodUPI:
		if req.PaymentIntentID == "" {
			return nil, ErrPaymentReferenceMissing
		}
		if err := u.verifiers[method].Verify(ctx, req.PaymentIntentID, quote.FinalAmount); err != nil {
			return nil, err
		}
	}

	// Fast-path guard: hold the slot in Redis while the transaction runs.
	// The court row lock and the exclusion constraint stay authoritative.
	holdToken, err := u.slotHolds.Acquire(ctx, court.ID, slot.date.Format(entity.DateFormat), slot.startMin, slot.endMin)
	if err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		u.slotHolds.Release(releaseCtx, court.ID, slot.date.Format(entity.DateFormat), slot.startMin, slot.endMin, holdToken)
	}()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Serialize admissions per court, then re-check availability (step 4).
	if _, err := u.courtRepo.FindByIDForUpdate(tx, court.ID); err != nil {
		u.log.Warnf("Failed to lock court %s: %+v", court.ID, err)
		return nil, err
	}
	overlapping, err := u.bookingRepo.CountOverlapping(tx, court.ID, slot.date, slot.startTime, slot.endTime)
	if err != nil {
		u.log.Warnf("Failed to count overlapping bookings for court %s: %+v", court.ID, err)
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrSlotConflict
	}

	// Step 5: persist. Wallet payments that cleared the balance probe commit
	// as confirmed; external payments await owner/admin confirmation.
	status := entity.BookingStatusPending
	if method == entity.PaymentMethodWallet {
		status = entity.BookingStatusConfirmed
	}

	booking := &entity.Booking{
		UserID:               userID,
		CourtID:              court.ID,
		BookingCode:          generateBookingCode(slot.date),
		BookingDate:          slot.date,
		StartTime:            slot.startTime,
		EndTime:              slot.endTime,
		TotalAmount:          quote.TotalAmount,
		DiscountAmount:       quote.DiscountAmount,
		FinalAmount:          quote.FinalAmount,
		Status:               status,
		PaymentMethod:        method,
		RewardPointsEarned:   service.RewardPointsEarned(quote.FinalAmount),
		RewardPointsRedeemed: quote.RewardPointsRedeemed,
	}
	if method != entity.PaymentMethodWallet {
		booking.PaymentIntentID = &req.PaymentIntentID
	}
	if coupon != nil {
		booking.CouponCode = &coupon.Code
	}

	if err := u.bookingRepo.Create(tx, booking); err != nil {
		if isExclusionError(err) {
			return nil, ErrSlotConflict
		}
		u.log.Errorf("Failed to insert booking: %+v", err)
		return nil, err
	}

	// Redeem the coupon inside the admission transaction so used_count moves
	// with the booking, never without it.
	if coupon != nil {
		rows, err := u.couponRepo.IncrementUsage(tx, coupon.ID)
		if err != nil {
			u.log.Warnf("Failed to increment coupon usage %s: %+v", coupon.Code, err)
			return nil, err
		}
		if rows == 0 {
			return nil, service.ErrCouponInvalid
		}
	}

	if quote.RewardPointsRedeemed > 0 {
		rows, err := u.userRepo.AddRewardPoints(tx, userID, -quote.RewardPointsRedeemed)
		if err != nil {
			u.log.Warnf("Failed to redeem reward points for user %s: %+v", userID, err)
			return nil, err
		}
		if rows == 0 {
			return nil, ErrRewardPointsUnavailable
		}
	}

	// Step 6: settle. The debit shares the transaction with the booking row,
	// so a failed debit rolls the booking back.
	if method == entity.PaymentMethodWallet {
		_, err := u.ledger.Debit(tx, userID, quote.FinalAmount, fmt.Sprintf("Booking %s", booking.BookingCode), &booking.ID)
		if err != nil {
			if errors.Is(err, service.ErrInsufficientFunds) {
				balance, balErr := u.ledger.Balance(u.db.WithContext(ctx), userID)
				if balErr != nil {
					balance = decimal.Zero
				}
				return nil, &InsufficientBalanceError{
					Balance:   balance,
					Required:  quote.FinalAmount,
					Shortfall: quote.FinalAmount.Sub(balance),
				}
			}
			u.log.Errorf("Failed to debit wallet for booking %s: %+v", booking.BookingCode, err)
			return nil, err
		}
	}

	// Step 7: accrue reward points on every successful admission
	if booking.RewardPointsEarned > 0 {
		if _, err := u.userRepo.AddRewardPoints(tx, userID, booking.RewardPointsEarned); err != nil {
			u.log.Errorf("Failed to accrue reward points for booking %s: %+v", booking.BookingCode, err)
			return nil, err
		}
	}

	if err := u.audit.Record(tx, &userID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), nil, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isExclusionError(err) {
			return nil, ErrSlotConflict
		}
		u.log.Errorf("Failed to commit booking transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Booking created: id=%s court=%s date=%s slot=%s-%s method=%s status=%s",
		booking.ID, court.ID, slot.date.Format(entity.DateFormat), slot.startTime, slot.endTime, method, booking.Status)

	booking.Court = *court
	return converter.BookingToResponse(booking), nil
}

// GetMyBookings returns all bookings for the logged-in user
func (u *bookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetOwnerBookings returns bookings across all facilities the actor owns
func (u *bookingUsecase) GetOwnerBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByOwnerID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for owner %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// Transition moves a booking through its lifecycle. Re-applying the status a
// booking already has is a no-op success; transitions out of terminal states
// always fail.
func (u *bookingUsecase) Transition(ctx context.Context, bookingID uuid.UUID, target entity.BookingStatus) (*dto.BookingResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	// Single consistent clock read for the whole operation.
	now := time.Now()

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if booking.Status == target {
		return converter.BookingToResponse(booking), nil
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}
	if err := authorizeTransition(booking, target, actorID, roleID); err != nil {
		return nil, err
	}

	if target == entity.BookingStatusCancelled {
		cancellable, err := booking.CancellableAt(now, u.loc)
		if err != nil {
			return nil, err
		}
		if !cancellable {
			return nil, ErrCancellationWindowExpired
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.bookingRepo.UpdateStatusGuarded(tx, bookingID, booking.Status, target)
	if err != nil {
		u.log.Warnf("Failed to transition booking %s to %s: %+v", bookingID, target, err)
		return nil, err
	}
	if rows == 0 {
		// Lost a race with a concurrent transition; re-read to stay idempotent.
		current, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == target {
			return converter.BookingToResponse(current), nil
		}
		return nil, ErrInvalidTransition
	}

	if target == entity.BookingStatusCancelled {
		if err := u.settleCancellation(tx, booking); err != nil {
			return nil, err
		}
	}

	if err := u.audit.Record(tx, &actorID, auditActionFor(target), "booking", booking.ID.String(), string(booking.Status), string(target)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transition for booking %s: %+v", bookingID, err)
		return nil, err
	}

	u.log.Infof("Booking %s: %s -> %s by %s", bookingID, booking.Status, target, actorID)
	booking.Status = target
	return converter.BookingToResponse(booking), nil
}

// settleCancellation refunds wallet-paid bookings and unwinds reward points.
// It runs inside the transition transaction, and only on the single request
// that won the guarded status update, so side effects apply exactly once.
func (u *bookingUsecase) settleCancellation(tx *gorm.DB, booking *entity.Booking) error {
	if booking.PaymentMethod == entity.PaymentMethodWallet && booking.FinalAmount.IsPositive() {
		_, err := u.ledger.Credit(tx, booking.UserID, booking.FinalAmount, fmt.Sprintf("Refund for cancelled booking %s", booking.BookingCode), &booking.ID)
		if err != nil {
			u.log.Errorf("Failed to refund booking %s: %+v", booking.BookingCode, err)
			return err
		}
	}

	// Return redeemed points first; the refund must never be swallowed by
	// the clawback.
	if booking.RewardPointsRedeemed > 0 {
		if _, err := u.userRepo.AddRewardPoints(tx, booking.UserID, booking.RewardPointsRedeemed); err != nil {
			u.log.Warnf("Failed to return redeemed reward points for booking %s: %+v", booking.BookingCode, err)
			return err
		}
	}

	// Claw back the points this booking accrued. If the user already spent
	// some of them the balance floors at zero.
	if booking.RewardPointsEarned > 0 {
		if err := u.userRepo.DeductRewardPointsFloored(tx, booking.UserID, booking.RewardPointsEarned); err != nil {
			u.log.Warnf("Failed to claw back reward points for booking %s: %+v", booking.BookingCode, err)
			return err
		}
	}
	return nil
}

// authorizeTransition enforces who may move a booking to the target status
func authorizeTransition(booking *entity.Booking, target entity.BookingStatus, actorID uuid.UUID, roleID int) error {
	switch target {
	case entity.BookingStatusConfirmed, entity.BookingStatusRejected:
		if roleID == entity.RoleIDAdmin {
			return nil
		}
		if roleID == entity.RoleIDOwner && booking.Court.Facility.OwnerID == actorID {
			return nil
		}
		return ErrTransitionNotAllowed
	case entity.BookingStatusCancelled:
		if roleID == entity.RoleIDAdmin || booking.UserID == actorID {
			return nil
		}
		return ErrTransitionNotAllowed
	case entity.BookingStatusCompleted:
		// Completion is applied by the background sweep, never a user action.
		return ErrTransitionNotAllowed
	}
	return ErrInvalidTransition
}

func auditActionFor(target entity.BookingStatus) string {
	switch target {
	case entity.BookingStatusConfirmed:
		return entity.AuditActionBookingConfirm
	case entity.BookingStatusRejected:
		return entity.AuditActionBookingReject
	case entity.BookingStatusCancelled:
		return entity.AuditActionBookingCancel
	case entity.BookingStatusCompleted:
		return entity.AuditActionBookingComplete
	}
	return "booking.transition"
}

// generateBookingCode generates a unique booking code: CS-YYYYMMDD-XXXXXX
func generateBookingCode(bookingDate time.Time) string {
	dateStr := bookingDate.Format("20060102")
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("CS-%s-%06X", dateStr, randomBytes)
}
