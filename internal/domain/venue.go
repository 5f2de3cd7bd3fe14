package domain

import "time"

// SeatingType is read-mostly reference data. PriceMultiplierPct is the
// price multiplier in hundredths: 100 means x1.00, 150 means x1.50.
type SeatingType struct {
	ID                 int64
	Name               string
	Capacity           int
	IsAccessible       bool
	PriceMultiplierPct int64
	LocationNote       string
	IsActive           bool
}

type Table struct {
	ID            int64
	TableNumber   string
	SeatingTypeID int64
	Capacity      int
	IsActive      bool
}

// TimeSlot covers the time-of-day range [StartMinute, EndMinute), minutes
// from midnight in the venue timezone. EndMinute must be strictly greater
// than StartMinute; active slots must not overlap (detected at price
// resolution, not at write time).
type TimeSlot struct {
	ID             int64
	StartMinute    int
	EndMinute      int
	Label          string
	BasePriceCents int64
	IsActive       bool
}

// Contains reports whether the slot covers the given time-of-day.
func (s TimeSlot) Contains(minuteOfDay int) bool {
	return minuteOfDay >= s.StartMinute && minuteOfDay < s.EndMinute
}

// MinuteOfDay converts an instant to minutes from midnight in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

type Occasion struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
}
