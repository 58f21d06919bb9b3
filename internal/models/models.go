package models

import (
	"github.com/shopspring/decimal"

	"arcadia/internal/timeslot"
)

// CreateCustomerRequest - payload for registering a customer
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	UserID    *int64  `json:"user_id,omitempty"`
}

// CreateStationRequest - payload for registering a gaming station
type CreateStationRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	Specifications *string         `json:"specifications,omitempty"`
	Location       *string         `json:"location,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourly_rate" binding:"required"`
}

// UpdateStatusRequest - payload for flipping a station or tournament status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateBookingRequest - payload for reserving a station slot
type CreateBookingRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required"`
	StationID  int64  `json:"station_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

// CancelBookingRequest - payload for cancelling a booking
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// AvailabilityResponse - result of a slot availability probe
type AvailabilityResponse struct {
	StationID int64  `json:"station_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// DepositRequest - payload for adding funds to a customer balance. The
// customer id comes from the URL path.
type DepositRequest struct {
	CustomerID int64           `json:"-"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required"`
}

// CreateGameRequest - payload for adding a game to the catalog
type CreateGameRequest struct {
	Title       string  `json:"title" binding:"required"`
	Genre       *string `json:"genre,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	MinAge      int     `json:"min_age"`
	Multiplayer bool    `json:"multiplayer"`
}

// CreateTournamentRequest - payload for scheduling a tournament
type CreateTournamentRequest struct {
	Name            string          `json:"name" binding:"required"`
	GameID          int64           `json:"game_id" binding:"required"`
	StartDate       string          `json:"start_date" binding:"required"`
	EndDate         string          `json:"end_date" binding:"required"`
	Deadline        string          `json:"registration_deadline" binding:"required"`
	EntryFee        decimal.Decimal `json:"entry_fee"`
	PrizePool       decimal.Decimal `json:"prize_pool"`
	MaxParticipants int             `json:"max_participants" binding:"required"`
}

// RegisterTournamentRequest - payload for joining a tournament. The
// tournament id comes from the URL path.
type RegisterTournamentRequest struct {
	TournamentID int64   `json:"-"`
	CustomerID   int64   `json:"customer_id" binding:"required"`
	TeamName     *string `json:"team_name,omitempty"`
}

// IssueMembershipRequest - payload for issuing a membership card. The
// customer id comes from the URL path.
type IssueMembershipRequest struct {
	CustomerID int64  `json:"-"`
	Tier       string `json:"tier" binding:"required"`
	Years      int    `json:"years"`
	Method     string `json:"method"`
}

// BookingResponse mirrors a persisted booking on the wire
type BookingResponse struct {
	BookingID  int64              `json:"booking_id"`
	CustomerID int64              `json:"customer_id"`
	StationID  int64              `json:"station_id"`
	Date       string             `json:"date"`
	StartTime  timeslot.TimeOfDay `json:"start_time"`
	EndTime    timeslot.TimeOfDay `json:"end_time"`
	Hours      decimal.Decimal    `json:"hours"`
	Amount     decimal.Decimal    `json:"amount"`
	Status     string             `json:"status"`
}

// NewBookingResponse converts a Booking entity to its wire form.
func NewBookingResponse(b *Booking) *BookingResponse {
	return &BookingResponse{
		BookingID:  b.BookingID,
		CustomerID: b.CustomerID,
		StationID:  b.StationID,
		Date:       b.Date.Format(timeslot.DateLayout),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Hours:      b.Hours,
		Amount:     b.Amount,
		Status:     b.Status,
	}
}

// BalanceResponse reports a customer's balance after a ledger operation
type BalanceResponse struct {
	CustomerID  int64           `json:"customer_id"`
	Balance     decimal.Decimal `json:"balance"`
	Transaction *Transaction    `json:"transaction,omitempty"`
}
