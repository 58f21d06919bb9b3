package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"arcadia/internal/clock"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/messaging"
	"arcadia/internal/metrics"
	"arcadia/internal/models"
	"arcadia/internal/pricing"
	"arcadia/internal/repository"
	"arcadia/internal/timeslot"
)

// BookingService owns the reservation path: precondition checks, conflict
// detection and atomic settlement. Reservations for the same station and
// date are serialized through a keyed lock so the conflict check and the
// insert act as one step.
type BookingService struct {
	bookings    repository.BookingStore
	customers   repository.CustomerStore
	stations    repository.StationStore
	memberships repository.MembershipStore
	nats        *messaging.NATSClient
	clock       clock.Clock
	cfg         BookingConfig
	slotLocks   *keyedMutex
}

func NewBookingService(
	bookings repository.BookingStore,
	customers repository.CustomerStore,
	stations repository.StationStore,
	memberships repository.MembershipStore,
	nats *messaging.NATSClient,
	clk clock.Clock,
	cfg BookingConfig,
) *BookingService {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 500 * time.Millisecond
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 50 * time.Millisecond
	}

	return &BookingService{
		bookings:    bookings,
		customers:   customers,
		stations:    stations,
		memberships: memberships,
		nats:        nats,
		clock:       clk,
		cfg:         cfg,
		slotLocks:   newKeyedMutex(),
	}
}

// Reserve books a station slot and settles the payment. Preconditions are
// checked in a fixed order so a request failing several of them always
// reports the same error: interval validity, past slot, station status,
// membership expiry, slot conflict, funds.
func (s *BookingService) Reserve(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.ErrInvalidInterval
	}
	start, err := timeslot.ParseTime(req.StartTime)
	if err != nil {
		return nil, apperrors.ErrInvalidInterval
	}
	end, err := timeslot.ParseTime(req.EndTime)
	if err != nil {
		return nil, apperrors.ErrInvalidInterval
	}
	if start >= end {
		return nil, apperrors.ErrInvalidInterval
	}

	now := s.clock.Now()
	if timeslot.InPast(date, start, now) {
		return nil, apperrors.ErrPastInterval
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	station, err := s.stations.GetByID(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, fmt.Errorf("station %d: %w", req.StationID, apperrors.ErrNotFound)
	}
	if station.Status == models.StationMaintenance {
		return nil, apperrors.ErrResourceUnavailable
	}

	card, err := s.memberships.GetByCustomer(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	if card != nil && card.IsActive && card.IsExpired(now) {
		return nil, apperrors.ErrMembershipExpired
	}

	hours, total := pricing.BookingPrice(station.HourlyRate, start, end, card, now)

	booking := &models.Booking{
		CustomerID: customer.CustomerID,
		StationID:  station.StationID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Hours:      hours,
		Amount:     total,
		Status:     models.BookingConfirmed,
	}

	key := fmt.Sprintf("station:%d:%s", station.StationID, date.Format(timeslot.DateLayout))

	var lastErr error
	for attempt := 0; attempt < s.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.cfg.RetryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		release, err := s.slotLocks.Acquire(ctx, key, s.cfg.LockTimeout)
		if err != nil {
			lastErr = err
			if errors.Is(err, apperrors.ErrContended) {
				continue
			}
			return nil, err
		}

		booking, err := s.reserveLocked(ctx, booking)
		release()
		return booking, err
	}

	return nil, lastErr
}

// reserveLocked runs with the slot lock held: the conflict probe and the
// settlement cannot interleave with another reservation for the same key.
func (s *BookingService) reserveLocked(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	conflict, err := s.bookings.HasConflict(ctx, booking.StationID, booking.Date, booking.StartTime, booking.EndTime, 0)
	if err != nil {
		// Fail closed: an unreadable schedule is treated as occupied
		// rather than risking a double booking.
		slog.Error("Conflict check failed, denying reservation",
			"station_id", booking.StationID, "error", err)
		metrics.BookingConflicts.Inc()
		return nil, fmt.Errorf("%w: %s", apperrors.ErrBookingConflict, "schedule unavailable")
	}
	if conflict {
		metrics.BookingConflicts.Inc()
		return nil, apperrors.ErrBookingConflict
	}

	payment, err := s.bookings.CreateSettled(ctx, booking, newReference())
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	slog.Info("Booking settled",
		"booking_id", booking.BookingID,
		"customer_id", booking.CustomerID,
		"station_id", booking.StationID,
		"amount", booking.Amount,
		"reference", payment.ReferenceID)

	s.publish(models.EventBookingConfirmed, &models.BookingConfirmedEvent{
		BookingID:  booking.BookingID,
		CustomerID: booking.CustomerID,
		StationID:  booking.StationID,
		Date:       booking.Date.Format(timeslot.DateLayout),
		StartTime:  booking.StartTime.String(),
		EndTime:    booking.EndTime.String(),
		Amount:     booking.Amount,
		Timestamp:  s.clock.Now(),
	})

	return booking, nil
}

// IsSlotAvailable probes for conflicts without reserving. Store failures
// report the slot as unavailable.
func (s *BookingService) IsSlotAvailable(ctx context.Context, stationID int64, dateStr, startStr, endStr string) (bool, error) {
	date, err := timeslot.ParseDate(dateStr)
	if err != nil {
		return false, apperrors.ErrInvalidInterval
	}
	start, err := timeslot.ParseTime(startStr)
	if err != nil {
		return false, apperrors.ErrInvalidInterval
	}
	end, err := timeslot.ParseTime(endStr)
	if err != nil {
		return false, apperrors.ErrInvalidInterval
	}
	if start >= end {
		return false, apperrors.ErrInvalidInterval
	}

	conflict, err := s.bookings.HasConflict(ctx, stationID, date, start, end, 0)
	if err != nil {
		slog.Error("Conflict check failed, reporting slot unavailable",
			"station_id", stationID, "error", err)
		return false, nil
	}

	return !conflict, nil
}

// Cancel releases the slot and refunds the payment. Cancelling an already
// inactive booking is a no-op and returns the booking unchanged.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, refund, err := s.bookings.CancelWithRefund(ctx, bookingID, newReference())
	if err != nil {
		return nil, err
	}

	if refund == nil {
		return booking, nil
	}

	metrics.BookingsCancelled.Inc()
	slog.Info("Booking cancelled",
		"booking_id", booking.BookingID,
		"customer_id", booking.CustomerID,
		"refunded", refund.Amount,
		"reference", refund.ReferenceID)

	s.publish(models.EventBookingCancelled, &models.BookingCancelledEvent{
		BookingID:  booking.BookingID,
		CustomerID: booking.CustomerID,
		StationID:  booking.StationID,
		Refunded:   refund.Amount,
		Reason:     "customer_request",
		Timestamp:  s.clock.Now(),
	})

	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	return booking, nil
}

func (s *BookingService) ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// ListUpcomingByCustomer returns the customer's active bookings whose slot
// has not ended yet.
func (s *BookingService) ListUpcomingByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	return s.bookings.ListUpcomingByCustomer(ctx, customerID, s.clock.Now())
}

func (s *BookingService) ListByStationDate(ctx context.Context, stationID int64, dateStr string) ([]models.Booking, error) {
	date, err := timeslot.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.ErrInvalidInterval
	}
	return s.bookings.ListByStationDate(ctx, stationID, date)
}

// publish is fire-and-forget: settlements never roll back on a failed
// event.
func (s *BookingService) publish(subject string, payload interface{}) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		slog.Error("Failed to publish event", "subject", subject, "error", err)
	}
}
