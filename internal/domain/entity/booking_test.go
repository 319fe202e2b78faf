package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCancelled, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusRejected, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusRejected, BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
}

func TestBookingCancellableAt(t *testing.T) {
	booking := &Booking{
		BookingDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     "20:00",
	}

	t.Run("well before the window closes", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
		ok, err := booking.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("one minute before the cutoff", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 15, 59, 0, 0, time.UTC)
		ok, err := booking.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("exactly at the cutoff", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)
		ok, err := booking.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("one minute past the cutoff", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 16, 1, 0, 0, time.UTC)
		ok, err := booking.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("after the booking started", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
		ok, err := booking.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed start time", func(t *testing.T) {
		bad := &Booking{BookingDate: booking.BookingDate, StartTime: "25:99"}
		_, err := bad.CancellableAt(time.Now(), time.UTC)
		assert.Error(t, err)
	})

	t.Run("start time loaded from a time column", func(t *testing.T) {
		// Persisted bookings scan StartTime back as "HH:MM:SS".
		loaded := &Booking{BookingDate: booking.BookingDate, StartTime: "18:00:00"}

		now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
		ok, err := loaded.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.True(t, ok)

		now = time.Date(2026, 3, 14, 16, 30, 0, 0, time.UTC)
		ok, err = loaded.CancellableAt(now, time.UTC)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBookingSlotInstantsUseLocation(t *testing.T) {
	booking := &Booking{
		BookingDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:30",
		EndTime:     "11:30:00",
	}

	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	start, err := booking.StartsAt(loc)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 30, 0, 0, loc), start)

	end, err := booking.EndsAt(loc)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 11, 30, 0, 0, loc), end)

	assert.Equal(t, 2*time.Hour, end.Sub(start))
}
