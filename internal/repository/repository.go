package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"arcadia/internal/database"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/search"
	"arcadia/internal/timeslot"
)

// Store interfaces decouple the service layer from Postgres so that the
// settlement paths can be tested against in-memory implementations.

type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	SearchByName(ctx context.Context, name string) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int64) error
}

type StationStore interface {
	Create(ctx context.Context, station *models.GamingStation) error
	GetByID(ctx context.Context, id int64) (*models.GamingStation, error)
	List(ctx context.Context) ([]models.GamingStation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type GameStore interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	SearchByTitle(ctx context.Context, title string) ([]models.Game, error)
}

type BookingStore interface {
	// HasConflict reports whether any active booking on the station's date
	// overlaps the half-open [start, end) slot. excludeID skips one booking
	// and may be 0.
	HasConflict(ctx context.Context, stationID int64, date time.Time, start, end timeslot.TimeOfDay, excludeID int64) (bool, error)

	// CreateSettled atomically debits the customer's balance and inserts
	// the booking row plus its payment transaction. Returns
	// sql ErrNoRows-free semantics: a failed balance condition surfaces as
	// errors.ErrInsufficientFunds.
	CreateSettled(ctx context.Context, booking *models.Booking, reference string) (*models.Transaction, error)

	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error)
	ListUpcomingByCustomer(ctx context.Context, customerID int64, now time.Time) ([]models.Booking, error)
	ListByStationDate(ctx context.Context, stationID int64, date time.Time) ([]models.Booking, error)

	// CancelWithRefund flips the booking to CANCELLED and credits the paid
	// amount back in the same transaction. Returns the refund record, or
	// nil when the booking was already inactive.
	CancelWithRefund(ctx context.Context, id int64, reference string) (*models.Booking, *models.Transaction, error)

	// Lifecycle sweeps run from the consumers binary.
	StartDue(ctx context.Context, now time.Time) (int64, error)
	CompleteDue(ctx context.Context, now time.Time) (int64, error)
	ExpireNoShows(ctx context.Context, now time.Time) (int64, error)
}

type MembershipStore interface {
	// IssueSettled inserts the card and records the fee transaction,
	// debiting the balance when method is ACCOUNT_BALANCE.
	IssueSettled(ctx context.Context, card *models.MembershipCard, fee decimal.Decimal, method, reference string) (*models.Transaction, error)
	GetByCustomer(ctx context.Context, customerID int64) (*models.MembershipCard, error)
	// RenewSettled pushes the expiry and settles the renewal fee through
	// the same guarded-debit path as IssueSettled.
	RenewSettled(ctx context.Context, card *models.MembershipCard, newExpiry time.Time, fee decimal.Decimal, method, reference string) (*models.Transaction, error)
	Deactivate(ctx context.Context, cardID int64) error
}

type LedgerStore interface {
	// Deposit credits the balance and records the transaction atomically.
	Deposit(ctx context.Context, customerID int64, amount decimal.Decimal, method, reference string) (*models.Transaction, error)
	GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error)
	SumByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
}

type TournamentStore interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int64) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int64, status string) error

	// RegisterSettled claims a capacity slot with a guarded increment that
	// also rechecks the registration window, debits the entry fee and
	// inserts the participant row, all in one transaction. A lost capacity
	// race surfaces as errors.ErrEventFull, a closed window as
	// errors.ErrRegistrationClosed.
	RegisterSettled(ctx context.Context, p *models.TournamentParticipant, fee decimal.Decimal, reference string) (*models.Transaction, error)
	IsRegistered(ctx context.Context, tournamentID, customerID int64) (bool, error)
	ListParticipants(ctx context.Context, tournamentID int64) ([]models.TournamentParticipant, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error)
	ListUnreadByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error)
	UpdateLastLoggedIn(ctx context.Context, id int64) error
}

type Repositories struct {
	Customers     CustomerStore
	Stations      StationStore
	Games         GameStore
	Bookings      BookingStore
	Memberships   MembershipStore
	Ledger        LedgerStore
	Tournaments   TournamentStore
	Notifications NotificationStore
	Users         UserStore

	StationIndex *StationSearchRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Customers:     NewCustomerRepository(db),
		Stations:      NewStationRepository(db),
		Games:         NewGameRepository(db),
		Bookings:      NewBookingRepository(db),
		Memberships:   NewMembershipRepository(db),
		Ledger:        NewLedgerRepository(db),
		Tournaments:   NewTournamentRepository(db),
		Notifications: NewNotificationRepository(db),
		Users:         NewUserRepository(db),
	}
}

// wrapStoreErr tags connection-level failures so callers can map them to a
// 503 instead of a generic 500. Other errors pass through unchanged.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if database.IsConnectionFailure(err) {
		return fmt.Errorf("%v: %w", err, apperrors.ErrStoreUnavailable)
	}
	return err
}

func NewRepositoriesWithElasticsearch(db *database.DB, es *search.ElasticsearchClient) *Repositories {
	repos := NewRepositories(db)
	if es != nil {
		repos.StationIndex = NewStationSearchRepository(es)
	}
	return repos
}
