// Package availability assigns tables to booking requests. The resolver
// scans committed bookings for interval conflicts and picks the tightest
// fitting free table. On its own it is just a read; the booking coordinator
// runs it through a transaction-bound Store so the scan and the insert are
// atomic with respect to concurrent requests.
package availability

import (
	"context"
	"sort"
	"time"

	"tablebooking/internal/domain"
)

// Store is the read model the resolver works against. Implementations must
// return committed state only; EligibleTables may ignore the capacity and
// activity filters since the resolver applies them again.
type Store interface {
	EligibleTables(ctx context.Context, seatingTypeID int64, minCapacity int) ([]domain.Table, error)
	// BookingsInWindow returns bookings that still hold a table and whose
	// [starts_at, ends_at) interval intersects [from, to).
	BookingsInWindow(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}

type Query struct {
	StartsAt      time.Time
	PartySize     int
	SeatingTypeID int64
	// ExcludeBookingID names a booking whose own table assignment must not
	// count as a conflict. Set on updates so an unchanged booking can be
	// resubmitted; zero means no exclusion.
	ExcludeBookingID int64
}

type Resolver struct {
	store    Store
	duration time.Duration
}

func NewResolver(store Store, slotDuration time.Duration) *Resolver {
	return &Resolver{store: store, duration: slotDuration}
}

// SlotDuration is the fixed interval length every booking occupies.
func (r *Resolver) SlotDuration() time.Duration {
	return r.duration
}

// Find resolves against the resolver's own store. Use for availability
// checks outside a booking transaction.
func (r *Resolver) Find(ctx context.Context, q Query) (*domain.Table, error) {
	return r.FindIn(ctx, r.store, q)
}

// FindIn resolves against the given store view and returns the free table
// with the smallest sufficient capacity, ties broken by table number.
// Returns domain.ErrNoTableAvailable when nothing fits.
func (r *Resolver) FindIn(ctx context.Context, store Store, q Query) (*domain.Table, error) {
	if q.PartySize <= 0 {
		return nil, domain.ErrInvalidPartySize
	}

	start := q.StartsAt
	end := start.Add(r.duration)

	bookings, err := store.BookingsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	busy := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if b.ID == q.ExcludeBookingID && q.ExcludeBookingID != 0 {
			continue
		}
		if !b.Status.HoldsTable() {
			continue
		}
		if domain.Overlaps(b.StartsAt, b.EndsAt, start, end) {
			busy[b.TableID] = struct{}{}
		}
	}

	tables, err := store.EligibleTables(ctx, q.SeatingTypeID, q.PartySize)
	if err != nil {
		return nil, err
	}

	candidates := tables[:0]
	for _, t := range tables {
		if !t.IsActive || t.SeatingTypeID != q.SeatingTypeID || t.Capacity < q.PartySize {
			continue
		}
		if _, taken := busy[t.ID]; taken {
			continue
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoTableAvailable
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Capacity != candidates[j].Capacity {
			return candidates[i].Capacity < candidates[j].Capacity
		}
		return candidates[i].TableNumber < candidates[j].TableNumber
	})

	picked := candidates[0]
	return &picked, nil
}
