package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NATS event subjects. Publishing is fire-and-forget: a failed publish is
// logged and never rolls back a committed settlement.
const (
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingCancelled     = "booking.cancelled"
	EventTournamentRegistered = "tournament.registered"
	EventBalanceDeposited     = "balance.deposited"
	EventMembershipIssued     = "membership.issued"
)

// BookingConfirmedEvent is published after a reservation settles
type BookingConfirmedEvent struct {
	BookingID  int64           `json:"booking_id"`
	CustomerID int64           `json:"customer_id"`
	StationID  int64           `json:"station_id"`
	Date       string          `json:"date"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// BookingCancelledEvent is published after a cancellation commits
type BookingCancelledEvent struct {
	BookingID  int64           `json:"booking_id"`
	CustomerID int64           `json:"customer_id"`
	StationID  int64           `json:"station_id"`
	Refunded   decimal.Decimal `json:"refunded"`
	Reason     string          `json:"reason"`
	Timestamp  time.Time       `json:"timestamp"`
}

// TournamentRegisteredEvent is published after a registration settles
type TournamentRegisteredEvent struct {
	TournamentID int64           `json:"tournament_id"`
	CustomerID   int64           `json:"customer_id"`
	TeamName     *string         `json:"team_name"`
	EntryFee     decimal.Decimal `json:"entry_fee"`
	Timestamp    time.Time       `json:"timestamp"`
}

// BalanceDepositedEvent is published after a deposit commits
type BalanceDepositedEvent struct {
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Timestamp  time.Time       `json:"timestamp"`
}

// MembershipIssuedEvent is published after a membership card is issued
type MembershipIssuedEvent struct {
	CustomerID int64     `json:"customer_id"`
	Tier       string    `json:"tier"`
	ExpiryDate string    `json:"expiry_date"`
	Timestamp  time.Time `json:"timestamp"`
}
