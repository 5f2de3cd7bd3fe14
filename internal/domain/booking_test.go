package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	h := time.Hour

	testCases := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"identical intervals", base, base.Add(2 * h), base, base.Add(2 * h), true},
		{"partial overlap from before", base.Add(-h), base.Add(h), base, base.Add(2 * h), true},
		{"contained interval", base.Add(30 * time.Minute), base.Add(h), base, base.Add(2 * h), true},
		{"touching boundary does not overlap", base, base.Add(2 * h), base.Add(2 * h), base.Add(4 * h), false},
		{"touching boundary reversed", base.Add(2 * h), base.Add(4 * h), base, base.Add(2 * h), false},
		{"disjoint", base, base.Add(h), base.Add(3 * h), base.Add(4 * h), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestBookingStatusCanTransition(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransition(BookingStatusConfirmed))
	assert.True(t, BookingStatusPending.CanTransition(BookingStatusCancelled))
	assert.True(t, BookingStatusPending.CanTransition(BookingStatusExpired))
	assert.True(t, BookingStatusConfirmed.CanTransition(BookingStatusCancelled))
	assert.True(t, BookingStatusConfirmed.CanTransition(BookingStatusNoShow))

	assert.False(t, BookingStatusPending.CanTransition(BookingStatusNoShow))
	assert.False(t, BookingStatusConfirmed.CanTransition(BookingStatusExpired))
	assert.False(t, BookingStatusCancelled.CanTransition(BookingStatusConfirmed))
	assert.False(t, BookingStatusExpired.CanTransition(BookingStatusConfirmed))
	assert.False(t, BookingStatusNoShow.CanTransition(BookingStatusCancelled))
}

func TestBookingStatusHoldsTable(t *testing.T) {
	assert.True(t, BookingStatusPending.HoldsTable())
	assert.True(t, BookingStatusConfirmed.HoldsTable())
	assert.False(t, BookingStatusCancelled.HoldsTable())
	assert.False(t, BookingStatusExpired.HoldsTable())
	assert.False(t, BookingStatusNoShow.HoldsTable())
}

func TestMinuteOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)

	// 18:30 UTC in summer is 20:30 in Berlin.
	instant := time.Date(2026, 7, 10, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 20*60+30, MinuteOfDay(instant, loc))
	assert.Equal(t, 18*60+30, MinuteOfDay(instant, time.UTC))
}
