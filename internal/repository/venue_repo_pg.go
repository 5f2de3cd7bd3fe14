package repository

import (
	"context"
	"time"

	"tablebooking/internal/domain"
	"tablebooking/internal/service/availability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// queries can run pooled or inside a booking transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// VenueView is the slice of venue data the booking transaction needs:
// the resolver's read model plus seating-type lookup for pricing.
type VenueView interface {
	availability.Store
	SeatingTypeByID(ctx context.Context, id int64) (*domain.SeatingType, error)
}

type VenueRepository interface {
	VenueView
	Tables(ctx context.Context) ([]domain.Table, error)
	SeatingTypes(ctx context.Context) ([]domain.SeatingType, error)
	TimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
	DeleteTable(ctx context.Context, id int64) error
}

type PGVenueRepository struct {
	q querier
}

func NewVenueRepository(db *pgxpool.Pool) *PGVenueRepository {
	return &PGVenueRepository{q: db}
}

// WithTx returns a view of the same repository bound to tx. Used by the
// booking repository so resolution reads share the booking transaction.
func (r *PGVenueRepository) WithTx(tx pgx.Tx) *PGVenueRepository {
	return &PGVenueRepository{q: tx}
}

func (r *PGVenueRepository) EligibleTables(ctx context.Context, seatingTypeID int64, minCapacity int) ([]domain.Table, error) {
	rows, err := r.q.Query(ctx, `SELECT id, table_number, seating_type_id, capacity, is_active
		FROM tables
		WHERE seating_type_id=$1 AND capacity >= $2 AND is_active
		ORDER BY capacity, table_number`, seatingTypeID, minCapacity)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.SeatingTypeID, &t.Capacity, &t.IsActive); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, mapPGError(rows.Err())
}

// BookingsInWindow applies the half-open overlap predicate literally:
// a stored interval intersects [from, to) iff starts_at < to AND ends_at > from.
// Only rows that still hold their table are returned.
func (r *PGVenueRepository) BookingsInWindow(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.q.Query(ctx, `SELECT id, table_id, starts_at, ends_at, status
		FROM bookings
		WHERE starts_at < $2 AND ends_at > $1 AND status IN ('pending', 'confirmed')`, from, to)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.TableID, &b.StartsAt, &b.EndsAt, &b.Status); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, mapPGError(rows.Err())
}

func (r *PGVenueRepository) SeatingTypeByID(ctx context.Context, id int64) (*domain.SeatingType, error) {
	row := r.q.QueryRow(ctx, `SELECT id, name, capacity, is_accessible, price_multiplier_pct, location_note, is_active
		FROM seating_types WHERE id=$1`, id)
	var st domain.SeatingType
	if err := row.Scan(&st.ID, &st.Name, &st.Capacity, &st.IsAccessible, &st.PriceMultiplierPct, &st.LocationNote, &st.IsActive); err != nil {
		return nil, mapPGError(err)
	}
	return &st, nil
}

func (r *PGVenueRepository) Tables(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.q.Query(ctx, `SELECT id, table_number, seating_type_id, capacity, is_active
		FROM tables ORDER BY table_number`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	tables := make([]domain.Table, 0)
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.SeatingTypeID, &t.Capacity, &t.IsActive); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, mapPGError(rows.Err())
}

func (r *PGVenueRepository) SeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, capacity, is_accessible, price_multiplier_pct, location_note, is_active
		FROM seating_types ORDER BY name`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	types := make([]domain.SeatingType, 0)
	for rows.Next() {
		var st domain.SeatingType
		if err := rows.Scan(&st.ID, &st.Name, &st.Capacity, &st.IsAccessible, &st.PriceMultiplierPct, &st.LocationNote, &st.IsActive); err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return types, mapPGError(rows.Err())
}

func (r *PGVenueRepository) TimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	rows, err := r.q.Query(ctx, `SELECT id, start_minute, end_minute, label, base_price_cents, is_active
		FROM time_slots ORDER BY start_minute`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	slots := make([]domain.TimeSlot, 0)
	for rows.Next() {
		var s domain.TimeSlot
		if err := rows.Scan(&s.ID, &s.StartMinute, &s.EndMinute, &s.Label, &s.BasePriceCents, &s.IsActive); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, mapPGError(rows.Err())
}

// DeleteTable removes a table that no booking references. The FK on
// bookings.table_id is RESTRICT, so a referenced table surfaces as
// domain.ErrTableInUse instead of orphaning active bookings.
func (r *PGVenueRepository) DeleteTable(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tables WHERE id=$1`, id)
	if err != nil {
		return mapPGError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ VenueRepository = (*PGVenueRepository)(nil)
