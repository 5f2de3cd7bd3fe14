package repository

import (
	"context"
	"time"

	"tablebooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	// RecordPaid upserts the booking's payment as paid and flips the
	// booking to paid (confirming it when still pending) in one
	// transaction. Returns the updated booking.
	RecordPaid(ctx context.Context, p *domain.Payment) (*domain.Booking, error)
	// MarkRefunded moves a paid booking and its payment to refunded.
	MarkRefunded(ctx context.Context, bookingID int64) error
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PGPaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) RecordPaid(ctx context.Context, p *domain.Payment) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapPGError(err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	p.Status = domain.PaymentStatusPaid
	p.PaidAt = &now
	// One payment per booking: a second paid notification updates in place.
	row := tx.QueryRow(ctx, `INSERT INTO payments
		(booking_id, user_id, amount_cents, method, status, transaction_id, currency, paid_at, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (booking_id) DO UPDATE
		SET status=EXCLUDED.status, transaction_id=EXCLUDED.transaction_id,
		    paid_at=EXCLUDED.paid_at, verified=EXCLUDED.verified, updated_at=now()
		RETURNING id, created_at, updated_at`,
		p.BookingID, p.UserID, p.AmountCents, p.Method, p.Status, p.TransactionID, p.Currency, p.PaidAt, p.Verified)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapPGError(err)
	}

	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings
		SET payment_status='paid',
		    status = CASE WHEN status = 'pending' THEN 'confirmed' ELSE status END,
		    updated_at=now()
		WHERE id=$1
		RETURNING `+bookingColumns, p.BookingID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPGError(err)
	}
	return b, nil
}

func (r *PGPaymentRepository) MarkRefunded(ctx context.Context, bookingID int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapPGError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE payments SET status='refunded', updated_at=now()
		WHERE booking_id=$1 AND status='paid'`, bookingID); err != nil {
		return mapPGError(err)
	}
	cmd, err := tx.Exec(ctx, `UPDATE bookings SET payment_status='refunded', updated_at=now()
		WHERE id=$1 AND payment_status='paid'`, bookingID)
	if err != nil {
		return mapPGError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return mapPGError(tx.Commit(ctx))
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
