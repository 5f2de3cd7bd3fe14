package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablebooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignFunc runs inside the booking transaction. It must resolve a table,
// compute the price snapshot and fill the corresponding fields on the
// booking being written, or return an error to roll the transaction back.
type AssignFunc func(ctx context.Context, view VenueView) error

type BookingRepository interface {
	// CreateAtomic runs assign and the INSERT as one serializable
	// transaction: the conflict scan inside assign and the write cannot be
	// interleaved with another booking transaction. Serialization failures
	// and exclusion-constraint hits surface as domain.ErrConflictRetryable.
	CreateAtomic(ctx context.Context, b *domain.Booking, assign AssignFunc) error
	// UpdateAtomic re-resolves and re-prices an existing booking with the
	// same all-or-nothing guarantee. Only pending/confirmed bookings may
	// be edited.
	UpdateAtomic(ctx context.Context, b *domain.Booking, assign AssignFunc) error
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	// UpdateStatus transitions ref from one of the given statuses to the
	// target as a conditional write; a booking in any other status yields
	// domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, ref string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error)
	// ExpirePendingBefore expires every pending booking whose start time
	// has passed and returns the affected rows.
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db      *pgxpool.Pool
	venue   *PGVenueRepository
	timeout time.Duration
}

func NewBookingRepository(db *pgxpool.Pool, venue *PGVenueRepository, storeTimeout time.Duration) *PGBookingRepository {
	return &PGBookingRepository{db: db, venue: venue, timeout: storeTimeout}
}

const bookingColumns = `id, ref, user_id, party_size, starts_at, ends_at, occasion_id, table_id, seating_type_id,
	status, payment_status, base_price_cents, total_price_cents, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Ref, &b.UserID, &b.PartySize, &b.StartsAt, &b.EndsAt, &b.OccasionID,
		&b.TableID, &b.SeatingTypeID, &b.Status, &b.PaymentStatus,
		&b.BasePriceCents, &b.TotalPriceCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) begin(ctx context.Context) (pgx.Tx, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		cancel()
		return nil, nil, nil, mapPGError(err)
	}
	// Bound every statement too, so a lock wait inside the transaction
	// cannot outlive the caller deadline by much.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", r.timeout.Milliseconds())); err != nil {
		_ = tx.Rollback(ctx)
		cancel()
		return nil, nil, nil, mapPGError(err)
	}
	return tx, ctx, cancel, nil
}

func (r *PGBookingRepository) CreateAtomic(ctx context.Context, b *domain.Booking, assign AssignFunc) error {
	tx, ctx, cancel, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	defer tx.Rollback(ctx)

	if err := assign(ctx, r.venue.WithTx(tx)); err != nil {
		return err
	}

	row := tx.QueryRow(ctx, `INSERT INTO bookings
		(ref, user_id, party_size, starts_at, ends_at, occasion_id, table_id, seating_type_id,
		 status, payment_status, base_price_cents, total_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		b.Ref, b.UserID, b.PartySize, b.StartsAt, b.EndsAt, b.OccasionID, b.TableID, b.SeatingTypeID,
		b.Status, b.PaymentStatus, b.BasePriceCents, b.TotalPriceCents)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapPGError(err)
	}

	return mapPGError(tx.Commit(ctx))
}

func (r *PGBookingRepository) UpdateAtomic(ctx context.Context, b *domain.Booking, assign AssignFunc) error {
	tx, ctx, cancel, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	defer tx.Rollback(ctx)

	if err := assign(ctx, r.venue.WithTx(tx)); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `UPDATE bookings
		SET party_size=$2, starts_at=$3, ends_at=$4, occasion_id=$5, table_id=$6, seating_type_id=$7,
		    base_price_cents=$8, total_price_cents=$9, updated_at=now()
		WHERE id=$1 AND status IN ('pending', 'confirmed')`,
		b.ID, b.PartySize, b.StartsAt, b.EndsAt, b.OccasionID, b.TableID, b.SeatingTypeID,
		b.BasePriceCents, b.TotalPriceCents)
	if err != nil {
		return mapPGError(err)
	}
	if cmd.RowsAffected() == 0 {
		var status domain.BookingStatus
		if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, b.ID).Scan(&status); err != nil {
			return mapPGError(err)
		}
		return fmt.Errorf("%w: cannot edit %s booking", domain.ErrInvalidTransition, status)
	}

	return mapPGError(tx.Commit(ctx))
}

func (r *PGBookingRepository) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ref=$1`, ref))
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY starts_at DESC`, userID)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, mapPGError(rows.Err())
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, ref string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE ref=$2 AND status = ANY($3)
		RETURNING `+bookingColumns, to, ref, allowed))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// Distinguish a missing booking from a disallowed transition.
	var status domain.BookingStatus
	if scanErr := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE ref=$1`, ref).Scan(&status); scanErr != nil {
		return nil, mapPGError(scanErr)
	}
	return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, status, to)
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status='expired', updated_at=now()
		WHERE status='pending' AND starts_at <= $1
		RETURNING `+bookingColumns, deadline)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, mapPGError(rows.Err())
}

var _ BookingRepository = (*PGBookingRepository)(nil)
