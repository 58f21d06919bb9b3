package models

import (
	"time"

	"github.com/shopspring/decimal"

	"arcadia/internal/timeslot"
)

// Booking statuses. PENDING, CONFIRMED and ONGOING occupy a time slot;
// the rest do not participate in conflict checks.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingOngoing   = "ONGOING"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
	BookingNoShow    = "NO_SHOW"
)

// ActiveBookingStatuses lists the statuses that hold a slot.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed, BookingOngoing}

// Station statuses
const (
	StationAvailable   = "AVAILABLE"
	StationOccupied    = "OCCUPIED"
	StationMaintenance = "MAINTENANCE"
)

// Station types
const (
	StationPC        = "PC"
	StationConsole   = "CONSOLE"
	StationVR        = "VR"
	StationRacingSim = "RACING_SIM"
)

// Membership tiers, ordered by discount percentage
const (
	TierBronze   = "BRONZE"
	TierSilver   = "SILVER"
	TierGold     = "GOLD"
	TierPlatinum = "PLATINUM"
)

// Transaction types
const (
	TxnDeposit        = "DEPOSIT"
	TxnBookingPayment = "BOOKING_PAYMENT"
	TxnTournamentFee  = "TOURNAMENT_FEE"
	TxnRefund         = "REFUND"
	TxnMembershipFee  = "MEMBERSHIP_FEE"
)

// Payment methods
const (
	PayCash           = "CASH"
	PayCard           = "CARD"
	PayMobileMoney    = "MOBILE_MONEY"
	PayAccountBalance = "ACCOUNT_BALANCE"
)

// Tournament statuses
const (
	TournamentUpcoming         = "UPCOMING"
	TournamentRegistrationOpen = "REGISTRATION_OPEN"
	TournamentOngoing          = "ONGOING"
	TournamentCompleted        = "COMPLETED"
	TournamentCancelled        = "CANCELLED"
)

// User represents an authenticated account in the system
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}

// Customer owns a monetary balance and optionally one membership card
type Customer struct {
	CustomerID  int64           `json:"customer_id" db:"customer_id"`
	UserID      *int64          `json:"user_id" db:"user_id"`
	FirstName   string          `json:"first_name" db:"first_name"`
	LastName    string          `json:"last_name" db:"last_name"`
	Phone       *string         `json:"phone" db:"phone"`
	Balance     decimal.Decimal `json:"balance" db:"balance"`
	HoursPlayed decimal.Decimal `json:"hours_played" db:"hours_played"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// GamingStation is a bookable physical resource
type GamingStation struct {
	StationID      int64           `json:"station_id" db:"station_id"`
	Name           string          `json:"name" db:"name"`
	Type           string          `json:"type" db:"type"`
	Specifications *string         `json:"specifications" db:"specifications"`
	Location       *string         `json:"location" db:"location"`
	HourlyRate     decimal.Decimal `json:"hourly_rate" db:"hourly_rate"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Game is a catalog entry; tournaments reference one game
type Game struct {
	GameID      int64     `json:"game_id" db:"game_id"`
	Title       string    `json:"title" db:"title"`
	Genre       *string   `json:"genre" db:"genre"`
	Publisher   *string   `json:"publisher" db:"publisher"`
	ReleaseYear *int      `json:"release_year" db:"release_year"`
	MinAge      int       `json:"min_age" db:"min_age"`
	Multiplayer bool      `json:"multiplayer" db:"multiplayer"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Booking is a claim on one station by one customer over [start, end) on a
// calendar date
type Booking struct {
	BookingID  int64              `json:"booking_id" db:"booking_id"`
	CustomerID int64              `json:"customer_id" db:"customer_id"`
	StationID  int64              `json:"station_id" db:"station_id"`
	Date       time.Time          `json:"date" db:"booking_date"`
	StartTime  timeslot.TimeOfDay `json:"start_time" db:"start_time"`
	EndTime    timeslot.TimeOfDay `json:"end_time" db:"end_time"`
	Hours      decimal.Decimal    `json:"hours" db:"duration_hours"`
	Amount     decimal.Decimal    `json:"amount" db:"total_amount"`
	Status     string             `json:"status" db:"status"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the booking currently occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed || b.Status == BookingOngoing
}

// MembershipCard grants a discount tier to exactly one customer
type MembershipCard struct {
	CardID     int64     `json:"card_id" db:"card_id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	CardNumber string    `json:"card_number" db:"card_number"`
	Tier       string    `json:"tier" db:"tier"`
	IssueDate  time.Time `json:"issue_date" db:"issue_date"`
	ExpiryDate time.Time `json:"expiry_date" db:"expiry_date"`
	Points     int       `json:"points" db:"points"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the card's expiry date has passed.
func (m *MembershipCard) IsExpired(now time.Time) bool {
	expiry := time.Date(m.ExpiryDate.Year(), m.ExpiryDate.Month(), m.ExpiryDate.Day(), 23, 59, 59, 0, time.UTC)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(expiry)
}

// IsValid reports whether the card earns its discount: active and not expired.
func (m *MembershipCard) IsValid(now time.Time) bool {
	return m.IsActive && !m.IsExpired(now)
}

// Transaction is an immutable, signed financial record. Debits are negative,
// credits positive; a customer's balance always equals the sum of its
// transaction amounts.
type Transaction struct {
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	CustomerID    int64           `json:"customer_id" db:"customer_id"`
	Type          string          `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        string          `json:"method" db:"method"`
	ReferenceID   string          `json:"reference_id" db:"reference_id"`
	Description   *string         `json:"description" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// IsDebit reports whether the record reduced the balance.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// Tournament is a capacity-bounded registrable event
type Tournament struct {
	TournamentID    int64           `json:"tournament_id" db:"tournament_id"`
	Name            string          `json:"name" db:"name"`
	GameID          int64           `json:"game_id" db:"game_id"`
	StartDate       time.Time       `json:"start_date" db:"start_date"`
	EndDate         time.Time       `json:"end_date" db:"end_date"`
	Deadline        time.Time       `json:"registration_deadline" db:"registration_deadline"`
	EntryFee        decimal.Decimal `json:"entry_fee" db:"entry_fee"`
	PrizePool       decimal.Decimal `json:"prize_pool" db:"prize_pool"`
	MaxParticipants int             `json:"max_participants" db:"max_participants"`
	Participants    int             `json:"current_participants" db:"current_participants"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsFull reports whether the participant cap has been reached.
func (t *Tournament) IsFull() bool {
	return t.Participants >= t.MaxParticipants
}

// TournamentParticipant links a customer to a tournament
type TournamentParticipant struct {
	ParticipantID int64     `json:"participant_id" db:"participant_id"`
	TournamentID  int64     `json:"tournament_id" db:"tournament_id"`
	CustomerID    int64     `json:"customer_id" db:"customer_id"`
	TeamName      *string   `json:"team_name" db:"team_name"`
	RegisteredAt  time.Time `json:"registered_at" db:"registered_at"`
}

// Notification is a persisted message for a customer, written by the
// consumers service when it processes published events
type Notification struct {
	NotificationID int64     `json:"notification_id" db:"notification_id"`
	CustomerID     int64     `json:"customer_id" db:"customer_id"`
	Kind           string    `json:"kind" db:"kind"`
	Message        string    `json:"message" db:"message"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	SentAt         time.Time `json:"sent_at" db:"sent_at"`
}
