// Package pricing resolves the per-guest price tier for a booking time and
// applies the seating multiplier. All money is integer cents; the multiplier
// is stored in hundredths, so the only rounding point is the final division.
package pricing

import (
	"context"
	"time"

	"tablebooking/internal/domain"
)

// SlotSource supplies the configured time slots. Implementations serve a
// read-only snapshot (typically the redis-backed venue service), never
// shared mutable state.
type SlotSource interface {
	TimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
}

type Engine struct {
	slots SlotSource
	loc   *time.Location
}

func NewEngine(slots SlotSource, venueLocation *time.Location) *Engine {
	return &Engine{slots: slots, loc: venueLocation}
}

// Quote computes the price snapshot for a booking: the matched slot's base
// price per guest and the rounded total.
func (e *Engine) Quote(ctx context.Context, partySize int, startsAt time.Time, st domain.SeatingType) (baseCents, totalCents int64, err error) {
	slots, err := e.slots.TimeSlots(ctx)
	if err != nil {
		return 0, 0, err
	}
	return Calculate(partySize, startsAt, st, slots, e.loc)
}

// Calculate is the pure pricing rule:
//
//	total = round(slot.base_price_per_guest * party_size * multiplier)
//
// The matching slot is the single active one whose [start, end) time-of-day
// range contains startsAt in loc. Zero matches is a user-facing rejection,
// more than one is a configuration defect.
func Calculate(partySize int, startsAt time.Time, st domain.SeatingType, slots []domain.TimeSlot, loc *time.Location) (baseCents, totalCents int64, err error) {
	if partySize <= 0 {
		return 0, 0, domain.ErrInvalidPartySize
	}

	minute := domain.MinuteOfDay(startsAt, loc)
	var matched *domain.TimeSlot
	for i := range slots {
		s := slots[i]
		if !s.IsActive || !s.Contains(minute) {
			continue
		}
		if matched != nil {
			return 0, 0, domain.ErrAmbiguousTimeSlots
		}
		matched = &s
	}
	if matched == nil {
		return 0, 0, domain.ErrNoMatchingTimeSlot
	}

	baseCents = matched.BasePriceCents
	totalCents = roundHundredths(baseCents * int64(partySize) * st.PriceMultiplierPct)
	return baseCents, totalCents, nil
}

// roundHundredths divides by 100 rounding half up. The product of cents and
// a multiplier in hundredths is hundredths of a cent.
func roundHundredths(v int64) int64 {
	if v < 0 {
		return -roundHundredths(-v)
	}
	return (v + 50) / 100
}
