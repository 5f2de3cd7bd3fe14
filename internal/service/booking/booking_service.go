package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tablebooking/internal/domain"
	"tablebooking/internal/kafka"
	"tablebooking/internal/repository"
	"tablebooking/internal/service/availability"

	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, ref string, input UpdateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, ref string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	CheckAvailability(ctx context.Context, partySize int, startsAt time.Time, seatingTypeID int64) (*domain.Table, error)
	ConfirmBooking(ctx context.Context, ref string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, ref string) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, ref string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
	HandlePaymentPaid(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error)
}

// TableResolver is implemented by availability.Resolver.
type TableResolver interface {
	Find(ctx context.Context, q availability.Query) (*domain.Table, error)
	FindIn(ctx context.Context, store availability.Store, q availability.Query) (*domain.Table, error)
	SlotDuration() time.Duration
}

// Pricer is implemented by pricing.Engine.
type Pricer interface {
	Quote(ctx context.Context, partySize int, startsAt time.Time, st domain.SeatingType) (baseCents, totalCents int64, err error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService coordinates validate -> resolve -> price -> persist. The
// resolve and persist steps run inside one repository transaction; on a
// detected race the whole sequence is retried a bounded number of times.
type BookingService struct {
	bookings repository.BookingRepository
	payments repository.PaymentRepository
	resolver TableResolver
	pricer   Pricer
	producer Producer
	topic    string
	retries  int
	now      func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	resolver TableResolver,
	pricer Pricer,
	producer Producer,
	eventsTopic string,
	createRetries int,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		payments: payments,
		resolver: resolver,
		pricer:   pricer,
		producer: producer,
		topic:    eventsTopic,
		retries:  createRetries,
		now:      time.Now,
	}
	if service.retries < 1 {
		service.retries = 1
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type CreateBookingInput struct {
	UserID        int64     `json:"user_id"`
	PartySize     int       `json:"party_size"`
	StartsAt      time.Time `json:"starts_at"`
	SeatingTypeID int64     `json:"seating_type_id"`
	OccasionID    *int64    `json:"occasion_id"`
}

type UpdateBookingInput struct {
	PartySize     int       `json:"party_size"`
	StartsAt      time.Time `json:"starts_at"`
	SeatingTypeID int64     `json:"seating_type_id"`
	OccasionID    *int64    `json:"occasion_id"`
}

func (s *BookingService) validate(partySize int, startsAt time.Time, seatingTypeID int64) error {
	if startsAt.IsZero() {
		return domain.MissingField("starts_at")
	}
	if seatingTypeID == 0 {
		return domain.MissingField("seating_type_id")
	}
	if partySize == 0 {
		return domain.MissingField("party_size")
	}
	if partySize < 0 {
		return domain.ErrInvalidPartySize
	}
	if !startsAt.After(s.now()) {
		return domain.ErrPastBookingTime
	}
	return nil
}

// assign runs inside the booking transaction: resolve a table through the
// tx-bound view, re-check capacity, price with the resolved table's own
// seating type and fill the snapshot fields.
func (s *BookingService) assign(b *domain.Booking, excludeBookingID int64) repository.AssignFunc {
	return func(ctx context.Context, view repository.VenueView) error {
		table, err := s.resolver.FindIn(ctx, view, availability.Query{
			StartsAt:         b.StartsAt,
			PartySize:        b.PartySize,
			SeatingTypeID:    b.SeatingTypeID,
			ExcludeBookingID: excludeBookingID,
		})
		if err != nil {
			return err
		}
		// Unreachable given the resolver's filter, but an invariant break
		// here must fail the transaction, not produce an overbooked table.
		if table.Capacity < b.PartySize {
			return fmt.Errorf("%w: table %s seats %d, party of %d",
				domain.ErrInternalInconsistency, table.TableNumber, table.Capacity, b.PartySize)
		}

		st, err := view.SeatingTypeByID(ctx, table.SeatingTypeID)
		if err != nil {
			return err
		}
		base, total, err := s.pricer.Quote(ctx, b.PartySize, b.StartsAt, *st)
		if err != nil {
			return err
		}

		b.TableID = table.ID
		b.SeatingTypeID = table.SeatingTypeID
		b.BasePriceCents = base
		b.TotalPriceCents = total
		return nil
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validate(input.PartySize, input.StartsAt, input.SeatingTypeID); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		Ref:           uuid.NewString(),
		UserID:        input.UserID,
		PartySize:     input.PartySize,
		StartsAt:      input.StartsAt,
		EndsAt:        input.StartsAt.Add(s.resolver.SlotDuration()),
		OccasionID:    input.OccasionID,
		SeatingTypeID: input.SeatingTypeID,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	if err := s.withRetry(func() error {
		return s.bookings.CreateAtomic(ctx, b, s.assign(b, 0))
	}); err != nil {
		if errors.Is(err, domain.ErrInternalInconsistency) {
			log.Printf("FATAL invariant break creating booking %s: %v", b.Ref, err)
		}
		return nil, err
	}

	s.publish(ctx, "booking_created", b)
	return b, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, ref string, input UpdateBookingInput) (*domain.Booking, error) {
	if err := s.validate(input.PartySize, input.StartsAt, input.SeatingTypeID); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	b.PartySize = input.PartySize
	b.StartsAt = input.StartsAt
	b.EndsAt = input.StartsAt.Add(s.resolver.SlotDuration())
	b.SeatingTypeID = input.SeatingTypeID
	b.OccasionID = input.OccasionID

	// The booking's own current assignment must not count as a conflict,
	// otherwise resubmitting an unchanged booking could never succeed.
	if err := s.withRetry(func() error {
		return s.bookings.UpdateAtomic(ctx, b, s.assign(b, b.ID))
	}); err != nil {
		if errors.Is(err, domain.ErrInternalInconsistency) {
			log.Printf("FATAL invariant break updating booking %s: %v", b.Ref, err)
		}
		return nil, err
	}

	s.publish(ctx, "booking_updated", b)
	return b, nil
}

func (s *BookingService) withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = op()
		if !errors.Is(err, domain.ErrConflictRetryable) {
			return err
		}
	}
	return err
}

func (s *BookingService) GetBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	return s.bookings.GetByRef(ctx, ref)
}

func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) CheckAvailability(ctx context.Context, partySize int, startsAt time.Time, seatingTypeID int64) (*domain.Table, error) {
	return s.resolver.Find(ctx, availability.Query{
		StartsAt:      startsAt,
		PartySize:     partySize,
		SeatingTypeID: seatingTypeID,
	})
}

func (s *BookingService) ConfirmBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	updated, err := s.bookings.UpdateStatus(ctx, ref,
		[]domain.BookingStatus{domain.BookingStatusPending}, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_confirmed", updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	current, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, ref,
		[]domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed},
		domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if updated.PaymentStatus == domain.PaymentStatusPaid {
		if err := s.payments.MarkRefunded(ctx, updated.ID); err != nil {
			log.Printf("refund for booking %s failed: %v", ref, err)
		} else {
			updated.PaymentStatus = domain.PaymentStatusRefunded
		}
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) MarkNoShow(ctx context.Context, ref string) (*domain.Booking, error) {
	updated, err := s.bookings.UpdateStatus(ctx, ref,
		[]domain.BookingStatus{domain.BookingStatusConfirmed}, domain.BookingStatusNoShow)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_no_show", updated)
	return updated, nil
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, "booking_expired", &expired[i])
	}
	return expired, nil
}

// HandlePaymentPaid applies an externally settled payment: the booking is
// marked paid and, when still pending, confirmed in the same transaction.
func (s *BookingService) HandlePaymentPaid(ctx context.Context, event kafka.PaymentEvent) (*domain.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, event.BookingRef)
	if err != nil {
		return nil, err
	}

	updated, err := s.payments.RecordPaid(ctx, &domain.Payment{
		BookingID:     b.ID,
		UserID:        b.UserID,
		AmountCents:   event.AmountCents,
		Method:        domain.PaymentMethod(event.Method),
		TransactionID: event.TransactionID,
		Currency:      event.Currency,
		Verified:      event.Verified,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_paid", updated)
	return updated, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		Ref:        b.Ref,
		UserID:     b.UserID,
		TableID:    b.TableID,
		PartySize:  b.PartySize,
		StartsAt:   b.StartsAt,
		Status:     string(b.Status),
		TotalCents: b.TotalPriceCents,
	}
	if err := s.producer.Publish(ctx, s.topic, b.Ref, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, b.Ref, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
