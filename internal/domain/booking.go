package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusNoShow    BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking occupies exactly one table for the half-open interval
// [StartsAt, EndsAt). Price fields are snapshots taken at create/update
// time and do not change when slot or seating configuration changes later.
type Booking struct {
	ID              int64
	Ref             string
	UserID          int64
	PartySize       int
	StartsAt        time.Time
	EndsAt          time.Time
	OccasionID      *int64
	TableID         int64
	SeatingTypeID   int64
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	BasePriceCents  int64
	TotalPriceCents int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active bookings hold their table; cancelled/expired/no-show ones do not.
func (s BookingStatus) HoldsTable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransition reports whether a status change is allowed:
// pending -> confirmed/cancelled/expired, confirmed -> cancelled/no_show.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled || to == BookingStatusExpired
	case BookingStatusConfirmed:
		return to == BookingStatusCancelled || to == BookingStatusNoShow
	default:
		return false
	}
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching boundaries (aEnd == bStart) do not overlap, so a booking may
// start exactly when another ends.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
