// Sentinel errors shared by services, repositories and handlers. Handlers
// translate these into HTTP statuses; everything else wraps them with %w.
package domain

import (
	"errors"
	"fmt"
)

// Input rejections, recoverable by the caller.
var (
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidPartySize = errors.New("party size must be positive")
	ErrPastBookingTime  = errors.New("booking time is in the past")
)

// Resolution and pricing failures.
var (
	// ErrNoTableAvailable: no active table of the requested seating type
	// with sufficient capacity is free for the requested interval.
	ErrNoTableAvailable   = errors.New("no table available")
	ErrNoMatchingTimeSlot = errors.New("time is not within any booking slot")
	// ErrAmbiguousTimeSlots signals overlapping active time slots, a
	// configuration defect that needs operator attention, not a user error.
	ErrAmbiguousTimeSlots = errors.New("overlapping time slots configured")
)

var (
	// ErrConflictRetryable: a concurrency control mechanism (serialization
	// failure, exclusion constraint, lock or statement timeout) detected a
	// race. The whole operation may be retried.
	ErrConflictRetryable = errors.New("conflicting concurrent update, retry")
	// ErrInternalInconsistency: an invariant between resolver and
	// coordinator broke. Fatal-and-logged, never retried.
	ErrInternalInconsistency = errors.New("internal consistency violation")
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTableInUse        = errors.New("table is referenced by bookings")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// MissingField wraps ErrMissingField with the offending field name.
func MissingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
