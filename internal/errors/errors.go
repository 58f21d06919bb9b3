package errors

import "errors"

// Reservation and settlement failures surfaced to callers. Handlers map
// these onto HTTP statuses; everything else is treated as an internal error.
var (
	ErrInvalidInterval     = errors.New("start time must be before end time")
	ErrPastInterval        = errors.New("cannot book for past dates or times")
	ErrResourceUnavailable = errors.New("station is not available for booking")
	ErrMembershipExpired   = errors.New("membership card has expired, renew to continue booking")
	ErrBookingConflict     = errors.New("station is already booked for the selected time slot")
	ErrInsufficientFunds   = errors.New("insufficient account balance")
	ErrDeadlinePassed      = errors.New("tournament registration deadline has passed")
	ErrEventFull           = errors.New("tournament has reached its maximum participants")
	ErrRegistrationClosed  = errors.New("tournament registration is not open")
	ErrAlreadyRegistered   = errors.New("customer is already registered for this tournament")
	ErrMembershipExists    = errors.New("customer already holds a membership card")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrNotFound            = errors.New("record not found")
	ErrContended           = errors.New("resource is contended, retry the operation")
	ErrStoreUnavailable    = errors.New("record store is unavailable")

	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")
)
