package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"arcadia/internal/database"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/timeslot"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// HasConflict probes for any active booking overlapping the half-open
// [start, end) slot. The comparison mirrors timeslot.Overlaps: touching
// endpoints are not a conflict.
func (r *BookingRepository) HasConflict(ctx context.Context, stationID int64, date time.Time, start, end timeslot.TimeOfDay, excludeID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE station_id = $1
			  AND booking_date = $2
			  AND status IN ('PENDING', 'CONFIRMED', 'ONGOING')
			  AND start_time < $4
			  AND $3 < end_time
			  AND ($5 = 0 OR booking_id <> $5)
		)`

	err := r.db.QueryRowContext(ctx, query, stationID, date, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CreateSettled performs the payment and the reservation as one unit: debit
// the balance only if it covers the amount, then insert the booking and its
// ledger record. Either everything lands or nothing does.
func (r *BookingRepository) CreateSettled(ctx context.Context, booking *models.Booking, reference string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer tx.Rollback()

	debit := `
		UPDATE customers
		SET balance = balance - $1, updated_at = NOW()
		WHERE customer_id = $2 AND balance >= $1`

	res, err := tx.ExecContext(ctx, debit, booking.Amount, booking.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("debit customer %d: %w", booking.CustomerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.ErrInsufficientFunds
	}

	insertBooking := `
		INSERT INTO bookings (customer_id, station_id, booking_date, start_time, end_time,
		                      duration_hours, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertBooking,
		booking.CustomerID,
		booking.StationID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Hours,
		booking.Amount,
		booking.Status,
	).Scan(&booking.BookingID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	description := fmt.Sprintf("Booking #%d payment", booking.BookingID)
	payment := &models.Transaction{
		CustomerID:  booking.CustomerID,
		Type:        models.TxnBookingPayment,
		Amount:      booking.Amount.Neg(),
		Method:      models.PayAccountBalance,
		ReferenceID: reference,
		Description: &description,
	}

	if err := insertTransaction(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return payment, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT booking_id, customer_id, station_id, booking_date, start_time, end_time,
		       duration_hours, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE booking_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.BookingID,
		&booking.CustomerID,
		&booking.StationID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Hours,
		&booking.Amount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	query := `
		SELECT booking_id, customer_id, station_id, booking_date, start_time, end_time,
		       duration_hours, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE customer_id = $1
		ORDER BY booking_date DESC, start_time DESC`

	return r.queryBookings(ctx, query, customerID)
}

// ListUpcomingByCustomer returns the customer's active bookings whose slot
// has not ended yet.
func (r *BookingRepository) ListUpcomingByCustomer(ctx context.Context, customerID int64, now time.Time) ([]models.Booking, error) {
	query := `
		SELECT booking_id, customer_id, station_id, booking_date, start_time, end_time,
		       duration_hours, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE customer_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'ONGOING')
		  AND (booking_date > $2 OR (booking_date = $2 AND end_time > $3))
		ORDER BY booking_date, start_time`

	return r.queryBookings(ctx, query, customerID, dateOf(now), timeslot.FromClock(now))
}

func (r *BookingRepository) ListByStationDate(ctx context.Context, stationID int64, date time.Time) ([]models.Booking, error) {
	query := `
		SELECT booking_id, customer_id, station_id, booking_date, start_time, end_time,
		       duration_hours, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE station_id = $1 AND booking_date = $2
		ORDER BY start_time`

	return r.queryBookings(ctx, query, stationID, date)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	var bookings []models.Booking

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.BookingID,
			&booking.CustomerID,
			&booking.StationID,
			&booking.Date,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Hours,
			&booking.Amount,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// CancelWithRefund cancels and refunds in one transaction. Cancelling a
// booking that is already cancelled or finished is a no-op and returns a nil
// refund.
func (r *BookingRepository) CancelWithRefund(ctx context.Context, id int64, reference string) (*models.Booking, *models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	booking := &models.Booking{}
	query := `
		SELECT booking_id, customer_id, station_id, booking_date, start_time, end_time,
		       duration_hours, total_amount, status, created_at, updated_at
		FROM bookings
		WHERE booking_id = $1
		FOR UPDATE`

	err = tx.QueryRowContext(ctx, query, id).Scan(
		&booking.BookingID,
		&booking.CustomerID,
		&booking.StationID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Hours,
		&booking.Amount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if !booking.IsActive() {
		return booking, nil, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE booking_id = $2`,
		models.BookingCancelled, id)
	if err != nil {
		return nil, nil, err
	}
	booking.Status = models.BookingCancelled

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET balance = balance + $1, updated_at = NOW() WHERE customer_id = $2`,
		booking.Amount, booking.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("refund customer %d: %w", booking.CustomerID, err)
	}

	description := fmt.Sprintf("Booking #%d refund", booking.BookingID)
	refund := &models.Transaction{
		CustomerID:  booking.CustomerID,
		Type:        models.TxnRefund,
		Amount:      booking.Amount,
		Method:      models.PayAccountBalance,
		ReferenceID: reference,
		Description: &description,
	}

	if err := insertTransaction(ctx, tx, refund); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return booking, refund, nil
}

// StartDue moves confirmed bookings whose slot has begun to ONGOING and
// marks their stations occupied.
func (r *BookingRepository) StartDue(ctx context.Context, now time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		UPDATE bookings
		SET status = 'ONGOING', updated_at = NOW()
		WHERE status = 'CONFIRMED'
		  AND booking_date = $1
		  AND start_time <= $2
		  AND end_time > $2
		RETURNING station_id`

	stationIDs, err := collectIDs(tx.QueryContext(ctx, query, dateOf(now), timeslot.FromClock(now)))
	if err != nil {
		return 0, err
	}

	if len(stationIDs) > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE stations SET status = 'OCCUPIED', updated_at = NOW()
			 WHERE station_id = ANY($1) AND status = 'AVAILABLE'`,
			pq.Array(stationIDs))
		if err != nil {
			return 0, err
		}
	}

	return int64(len(stationIDs)), tx.Commit()
}

// CompleteDue finishes ongoing bookings whose slot has ended, frees stations
// without another ongoing booking and credits the played hours.
func (r *BookingRepository) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		UPDATE bookings
		SET status = 'COMPLETED', updated_at = NOW()
		WHERE status = 'ONGOING'
		  AND (booking_date < $1 OR (booking_date = $1 AND end_time <= $2))
		RETURNING station_id, customer_id, duration_hours`

	rows, err := tx.QueryContext(ctx, query, dateOf(now), timeslot.FromClock(now))
	if err != nil {
		return 0, err
	}

	type completed struct {
		stationID  int64
		customerID int64
		hours      float64
	}
	var done []completed
	for rows.Next() {
		var c completed
		if err := rows.Scan(&c.stationID, &c.customerID, &c.hours); err != nil {
			rows.Close()
			return 0, err
		}
		done = append(done, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(done) > 0 {
		stationIDs := make([]int64, 0, len(done))
		for _, c := range done {
			stationIDs = append(stationIDs, c.stationID)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE stations s SET status = 'AVAILABLE', updated_at = NOW()
			 WHERE s.station_id = ANY($1)
			   AND s.status = 'OCCUPIED'
			   AND NOT EXISTS (
			       SELECT 1 FROM bookings b
			       WHERE b.station_id = s.station_id AND b.status = 'ONGOING'
			   )`,
			pq.Array(stationIDs))
		if err != nil {
			return 0, err
		}

		// Credit the exact duration, fractional hours included.
		for _, c := range done {
			_, err = tx.ExecContext(ctx,
				`UPDATE customers SET hours_played = hours_played + $1, updated_at = NOW()
				 WHERE customer_id = $2`,
				c.hours, c.customerID)
			if err != nil {
				return 0, err
			}
		}
	}

	return int64(len(done)), tx.Commit()
}

// ExpireNoShows marks pending bookings whose slot has fully passed. The
// payment is forfeited, so no refund row is written.
func (r *BookingRepository) ExpireNoShows(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'NO_SHOW', updated_at = NOW()
		WHERE status = 'PENDING'
		  AND (booking_date < $1 OR (booking_date = $1 AND end_time <= $2))`

	res, err := r.db.ExecContext(ctx, query, dateOf(now), timeslot.FromClock(now))
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func collectIDs(rows *sql.Rows, err error) ([]int64, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
