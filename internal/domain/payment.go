package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodStripe    PaymentMethod = "stripe"
	PaymentMethodPayPal    PaymentMethod = "paypal"
	PaymentMethodLocalBank PaymentMethod = "local_bank"
)

// Payment is one-to-one with a booking and is deleted with it.
type Payment struct {
	ID            int64
	BookingID     int64
	UserID        int64
	AmountCents   int64
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	Currency      string
	PaidAt        *time.Time
	Verified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
