package usecase

import (
	"context"
	"testing"
	"time"

	"courtside/internal/delivery/dto"
	"courtside/internal/delivery/http/middleware"
	"courtside/internal/domain/entity"
	"courtside/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(db *gorm.DB, booking *entity.Booking) error {
	return m.Called(db, booking).Error(0)
}

func (m *mockBookingRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Booking, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByOwnerID(db *gorm.DB, ownerID uuid.UUID) ([]entity.Booking, error) {
	args := m.Called(db, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByCourtAndDate(db *gorm.DB, courtID uuid.UUID, date time.Time) ([]entity.Booking, error) {
	args := m.Called(db, courtID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountOverlapping(db *gorm.DB, courtID uuid.UUID, date time.Time, startTime, endTime string) (int64, error) {
	args := m.Called(db, courtID, date, startTime, endTime)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus) (int64, error) {
	args := m.Called(db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) CompleteFinished(db *gorm.DB, now time.Time) (int64, error) {
	args := m.Called(db, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockCourtRepo struct {
	mock.Mock
}

func (m *mockCourtRepo) Create(db *gorm.DB, court *entity.Court) error {
	return m.Called(db, court).Error(0)
}

func (m *mockCourtRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Court, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Court), args.Error(1)
}

func (m *mockCourtRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Court, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Court), args.Error(1)
}

func (m *mockCourtRepo) FindByFacilityID(db *gorm.DB, facilityID uuid.UUID) ([]entity.Court, error) {
	args := m.Called(db, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Court), args.Error(1)
}

func (m *mockCourtRepo) FindAll(db *gorm.DB, filter *entity.CourtFilter) ([]entity.Court, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Court), args.Error(1)
}

func (m *mockCourtRepo) Update(db *gorm.DB, court *entity.Court) error {
	return m.Called(db, court).Error(0)
}

func (m *mockCourtRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) Update(db *gorm.DB, user *entity.User) error {
	return m.Called(db, user).Error(0)
}

func (m *mockUserRepo) AddRewardPoints(db *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	args := m.Called(db, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) DeductRewardPointsFloored(db *gorm.DB, id uuid.UUID, points int) error {
	return m.Called(db, id, points).Error(0)
}

type mockCouponRepo struct {
	mock.Mock
}

func (m *mockCouponRepo) Create(db *gorm.DB, coupon *entity.Coupon) error {
	return m.Called(db, coupon).Error(0)
}

func (m *mockCouponRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Coupon, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Coupon), args.Error(1)
}

func (m *mockCouponRepo) FindByCode(db *gorm.DB, code string) (*entity.Coupon, error) {
	args := m.Called(db, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Coupon), args.Error(1)
}

func (m *mockCouponRepo) FindAll(db *gorm.DB) ([]entity.Coupon, error) {
	args := m.Called(db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Coupon), args.Error(1)
}

func (m *mockCouponRepo) Update(db *gorm.DB, coupon *entity.Coupon) error {
	return m.Called(db, coupon).Error(0)
}

func (m *mockCouponRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCouponRepo) IncrementUsage(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockFlowWalletRepo struct {
	mock.Mock
}

func (m *mockFlowWalletRepo) Create(db *gorm.DB, wallet *entity.Wallet) error {
	return m.Called(db, wallet).Error(0)
}

func (m *mockFlowWalletRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *mockFlowWalletRepo) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.Wallet, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *mockFlowWalletRepo) UpdateBalance(db *gorm.DB, wallet *entity.Wallet) error {
	return m.Called(db, wallet).Error(0)
}

type mockFlowWalletTxnRepo struct {
	mock.Mock
}

func (m *mockFlowWalletTxnRepo) Create(db *gorm.DB, txn *entity.WalletTransaction) error {
	return m.Called(db, txn).Error(0)
}

func (m *mockFlowWalletTxnRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.WalletTransaction, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.WalletTransaction), args.Error(1)
}

type stubSlotHolder struct {
	acquireErr error
	released   bool
}

func (s *stubSlotHolder) Acquire(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int) (string, error) {
	if s.acquireErr != nil {
		return "", s.acquireErr
	}
	return "hold-token", nil
}

func (s *stubSlotHolder) Release(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int, token string) {
	s.released = true
}

type stubAudit struct{}

func (stubAudit) Record(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, before, after interface{}) error {
	return nil
}

// bookingFlowFixture wires the usecase onto mocked repositories and a
// sqlmock-backed connection, so transaction boundaries are observable while no
// real SQL runs.
type bookingFlowFixture struct {
	sqlMock     sqlmock.Sqlmock
	bookingRepo *mockBookingRepo
	courtRepo   *mockCourtRepo
	userRepo    *mockUserRepo
	couponRepo  *mockCouponRepo
	walletRepo  *mockFlowWalletRepo
	txnRepo     *mockFlowWalletTxnRepo
	holds       *stubSlotHolder
	uc          BookingUsecase
}

func newBookingFlowFixture(t *testing.T) *bookingFlowFixture {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &bookingFlowFixture{
		sqlMock:     sqlMock,
		bookingRepo: new(mockBookingRepo),
		courtRepo:   new(mockCourtRepo),
		userRepo:    new(mockUserRepo),
		couponRepo:  new(mockCouponRepo),
		walletRepo:  new(mockFlowWalletRepo),
		txnRepo:     new(mockFlowWalletTxnRepo),
		holds:       &stubSlotHolder{},
	}
	f.uc = NewBookingUsecase(
		db, log, time.UTC,
		f.bookingRepo, f.courtRepo, f.userRepo, f.couponRepo,
		service.NewPricingService(),
		service.NewWalletLedger(log, f.walletRepo, f.txnRepo),
		f.holds,
		map[entity.PaymentMethod]service.PaymentVerifier{},
		stubAudit{},
	)
	return f
}

func authedCtx(userID uuid.UUID, roleID int) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.RoleIDKey, roleID)
}

func activeCourt(courtID, facilityID, ownerID uuid.UUID, pricePerHour string) *entity.Court {
	return &entity.Court{
		ID:           courtID,
		FacilityID:   facilityID,
		Name:         "Center Court",
		SportType:    "badminton",
		PricePerHour: decimal.RequireFromString(pricePerHour),
		// Operating hours as they scan back from TIME columns.
		OperatingHoursStart: "08:00:00",
		OperatingHoursEnd:   "22:00:00",
		IsActive:            true,
		Facility:            entity.Facility{ID: facilityID, OwnerID: ownerID, IsActive: true},
	}
}

func walletBookingRequest(courtID uuid.UUID) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		CourtID:       courtID,
		BookingDate:   time.Now().AddDate(0, 0, 7).Format(entity.DateFormat),
		StartTime:     "10:00",
		DurationHours: 2,
		PaymentMethod: "wallet",
	}
}

func TestCreateBookingWalletFlow(t *testing.T) {
	userID := uuid.New()
	courtID := uuid.New()
	facilityID := uuid.New()
	ownerID := uuid.New()

	t.Run("successful admission commits booking, coupon and debit together", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		court := activeCourt(courtID, facilityID, ownerID, "500.00")
		coupon := &entity.Coupon{
			ID:            uuid.New(),
			Code:          "SAVE10",
			DiscountType:  entity.DiscountTypePercentage,
			DiscountValue: decimal.RequireFromString("10"),
			UsageLimit:    100,
			UsedCount:     1,
			ValidFrom:     time.Now().Add(-time.Hour),
			ValidUntil:    time.Now().Add(30 * 24 * time.Hour),
			IsActive:      true,
		}

		f.courtRepo.On("FindByID", mock.Anything, courtID).Return(court, nil)
		f.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
		f.couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("2000.00")}, nil)

		f.sqlMock.ExpectBegin()
		f.courtRepo.On("FindByIDForUpdate", mock.Anything, courtID).Return(court, nil)
		f.bookingRepo.On("CountOverlapping", mock.Anything, courtID, mock.Anything, "10:00", "12:00").
			Return(int64(0), nil)
		f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.couponRepo.On("IncrementUsage", mock.Anything, coupon.ID).Return(int64(1), nil).Once()
		f.walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("2000.00")}, nil)
		var debited *entity.Wallet
		f.walletRepo.On("UpdateBalance", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { debited = args.Get(1).(*entity.Wallet) }).
			Return(nil)
		f.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("AddRewardPoints", mock.Anything, userID, 90).Return(int64(1), nil)
		f.sqlMock.ExpectCommit()

		req := walletBookingRequest(courtID)
		req.CouponCode = "SAVE10"

		// 2. Execute
		resp, err := f.uc.CreateBooking(authedCtx(userID, entity.RoleIDCustomer), req)

		// 3. Assert
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "1000.00", resp.TotalAmount)
		assert.Equal(t, "100.00", resp.DiscountAmount)
		assert.Equal(t, "900.00", resp.FinalAmount)
		assert.Equal(t, "SAVE10", resp.CouponCode)
		assert.Equal(t, 90, resp.RewardPointsEarned)

		require.NotNil(t, debited)
		assert.Equal(t, "1100.00", debited.Balance.StringFixed(2))

		assert.True(t, f.holds.released)
		f.couponRepo.AssertNumberOfCalls(t, "IncrementUsage", 1)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("debit losing a race rolls the booking row back", func(t *testing.T) {
		// 1. Setup: the pre-transaction probe sees enough balance, but by the
		// time the wallet row is locked a concurrent debit has drained it.
		f := newBookingFlowFixture(t)
		court := activeCourt(courtID, facilityID, ownerID, "450.00")

		f.courtRepo.On("FindByID", mock.Anything, courtID).Return(court, nil)
		f.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("950.00")}, nil).Once()

		f.sqlMock.ExpectBegin()
		f.courtRepo.On("FindByIDForUpdate", mock.Anything, courtID).Return(court, nil)
		f.bookingRepo.On("CountOverlapping", mock.Anything, courtID, mock.Anything, "10:00", "12:00").
			Return(int64(0), nil)
		f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("100.00")}, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("100.00")}, nil).Once()
		f.sqlMock.ExpectRollback()

		// 2. Execute
		_, err := f.uc.CreateBooking(authedCtx(userID, entity.RoleIDCustomer), walletBookingRequest(courtID))

		// 3. Assert: the insert happened but the transaction rolled back, so
		// no booking survives a failed debit.
		var insufficientErr *InsufficientBalanceError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, "100.00", insufficientErr.Balance.StringFixed(2))
		assert.Equal(t, "900.00", insufficientErr.Required.StringFixed(2))
		assert.Equal(t, "800.00", insufficientErr.Shortfall.StringFixed(2))

		f.bookingRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
		f.walletRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
		f.txnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.True(t, f.holds.released)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap detected inside the transaction aborts before insert", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		court := activeCourt(courtID, facilityID, ownerID, "500.00")

		f.courtRepo.On("FindByID", mock.Anything, courtID).Return(court, nil)
		f.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("2000.00")}, nil)

		f.sqlMock.ExpectBegin()
		f.courtRepo.On("FindByIDForUpdate", mock.Anything, courtID).Return(court, nil)
		f.bookingRepo.On("CountOverlapping", mock.Anything, courtID, mock.Anything, "10:00", "12:00").
			Return(int64(1), nil)
		f.sqlMock.ExpectRollback()

		// 2. Execute
		_, err := f.uc.CreateBooking(authedCtx(userID, entity.RoleIDCustomer), walletBookingRequest(courtID))

		// 3. Assert
		assert.ErrorIs(t, err, ErrSlotConflict)
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.True(t, f.holds.released)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("coupon exhausted by a concurrent redemption rolls everything back", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		court := activeCourt(courtID, facilityID, ownerID, "500.00")
		coupon := &entity.Coupon{
			ID:            uuid.New(),
			Code:          "LASTONE",
			DiscountType:  entity.DiscountTypeFixed,
			DiscountValue: decimal.RequireFromString("50.00"),
			UsageLimit:    10,
			UsedCount:     9,
			ValidFrom:     time.Now().Add(-time.Hour),
			ValidUntil:    time.Now().Add(30 * 24 * time.Hour),
			IsActive:      true,
		}

		f.courtRepo.On("FindByID", mock.Anything, courtID).Return(court, nil)
		f.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
		f.couponRepo.On("FindByCode", mock.Anything, "LASTONE").Return(coupon, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("2000.00")}, nil)

		f.sqlMock.ExpectBegin()
		f.courtRepo.On("FindByIDForUpdate", mock.Anything, courtID).Return(court, nil)
		f.bookingRepo.On("CountOverlapping", mock.Anything, courtID, mock.Anything, "10:00", "12:00").
			Return(int64(0), nil)
		f.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.couponRepo.On("IncrementUsage", mock.Anything, coupon.ID).Return(int64(0), nil).Once()
		f.sqlMock.ExpectRollback()

		req := walletBookingRequest(courtID)
		req.CouponCode = "LASTONE"

		// 2. Execute
		_, err := f.uc.CreateBooking(authedCtx(userID, entity.RoleIDCustomer), req)

		// 3. Assert: used_count never moves without its booking, and the
		// booking never survives a failed redemption.
		assert.ErrorIs(t, err, service.ErrCouponInvalid)
		f.walletRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("contended slot hold fails before any transaction", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		court := activeCourt(courtID, facilityID, ownerID, "500.00")
		f.holds.acquireErr = service.ErrSlotHeld

		f.courtRepo.On("FindByID", mock.Anything, courtID).Return(court, nil)
		f.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
		f.walletRepo.On("FindByUserID", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("2000.00")}, nil)

		// 2. Execute
		_, err := f.uc.CreateBooking(authedCtx(userID, entity.RoleIDCustomer), walletBookingRequest(courtID))

		// 3. Assert: no transaction was ever opened.
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestTransitionFlow(t *testing.T) {
	userID := uuid.New()
	ownerID := uuid.New()
	bookingID := uuid.New()

	confirmedBooking := func() *entity.Booking {
		return &entity.Booking{
			ID:            bookingID,
			UserID:        userID,
			BookingCode:   "CS-20261001-ABCDEF",
			BookingDate:   time.Now().AddDate(0, 0, 2),
			StartTime:     "18:00:00",
			EndTime:       "20:00:00",
			FinalAmount:   decimal.RequireFromString("900.00"),
			Status:        entity.BookingStatusConfirmed,
			PaymentMethod: entity.PaymentMethodWallet,
			Court: entity.Court{
				ID:       uuid.New(),
				Facility: entity.Facility{ID: uuid.New(), OwnerID: ownerID},
			},
			RewardPointsEarned:   90,
			RewardPointsRedeemed: 50,
		}
	}

	t.Run("re-applying the current status is a no-op success", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		f.bookingRepo.On("FindByID", mock.Anything, bookingID).Return(confirmedBooking(), nil)

		// 2. Execute
		resp, err := f.uc.Transition(authedCtx(ownerID, entity.RoleIDOwner), bookingID, entity.BookingStatusConfirmed)

		// 3. Assert: no guarded update, no transaction.
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatusGuarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("cancellation refunds the wallet and unwinds reward points once", func(t *testing.T) {
		// 1. Setup
		f := newBookingFlowFixture(t)
		f.bookingRepo.On("FindByID", mock.Anything, bookingID).Return(confirmedBooking(), nil)

		f.sqlMock.ExpectBegin()
		f.bookingRepo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			entity.BookingStatusConfirmed, entity.BookingStatusCancelled).Return(int64(1), nil)
		f.walletRepo.On("FindByUserIDForUpdate", mock.Anything, userID).
			Return(&entity.Wallet{UserID: userID, Balance: decimal.RequireFromString("100.00")}, nil)
		f.walletRepo.On("UpdateBalance", mock.Anything, mock.Anything).Return(nil)
		var refund *entity.WalletTransaction
		f.txnRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { refund = args.Get(1).(*entity.WalletTransaction) }).
			Return(nil)
		f.userRepo.On("AddRewardPoints", mock.Anything, userID, 50).Return(int64(1), nil).Once()
		f.userRepo.On("DeductRewardPointsFloored", mock.Anything, userID, 90).Return(nil).Once()
		f.sqlMock.ExpectCommit()

		// 2. Execute
		resp, err := f.uc.Transition(authedCtx(userID, entity.RoleIDCustomer), bookingID, entity.BookingStatusCancelled)

		// 3. Assert
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)

		require.NotNil(t, refund)
		assert.Equal(t, entity.TransactionTypeCredit, refund.Type)
		assert.Equal(t, "900.00", refund.Amount.StringFixed(2))
		assert.Equal(t, "1000.00", refund.BalanceAfter.StringFixed(2))

		// The redeemed-point refund and the earned-point clawback are
		// independent adjustments.
		f.userRepo.AssertCalled(t, "AddRewardPoints", mock.Anything, userID, 50)
		f.userRepo.AssertCalled(t, "DeductRewardPointsFloored", mock.Anything, userID, 90)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("losing the guarded update to the same target stays idempotent", func(t *testing.T) {
		// 1. Setup: a concurrent request cancelled the booking between the
		// read and the guarded update.
		f := newBookingFlowFixture(t)
		already := confirmedBooking()
		already.Status = entity.BookingStatusCancelled

		f.bookingRepo.On("FindByID", mock.Anything, bookingID).Return(confirmedBooking(), nil).Once()
		f.sqlMock.ExpectBegin()
		f.bookingRepo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			entity.BookingStatusConfirmed, entity.BookingStatusCancelled).Return(int64(0), nil)
		f.bookingRepo.On("FindByID", mock.Anything, bookingID).Return(already, nil).Once()
		f.sqlMock.ExpectRollback()

		// 2. Execute
		resp, err := f.uc.Transition(authedCtx(userID, entity.RoleIDCustomer), bookingID, entity.BookingStatusCancelled)

		// 3. Assert: success without re-running the cancellation side effects.
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		f.walletRepo.AssertNotCalled(t, "FindByUserIDForUpdate", mock.Anything, mock.Anything)
		f.userRepo.AssertNotCalled(t, "AddRewardPoints", mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}
