package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"arcadia/internal/cache"
	"arcadia/internal/clock"
	"arcadia/internal/messaging"
	"arcadia/internal/repository"
)

// BookingConfig tunes the per-slot lock and the retry loop around it.
type BookingConfig struct {
	LockTimeout   time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

type Services struct {
	Customers     *CustomerService
	Stations      *StationService
	Games         *GameService
	Bookings      *BookingService
	Ledger        *LedgerService
	Tournaments   *TournamentService
	Memberships   *MembershipService
	Notifications *NotificationService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient, clk clock.Clock, cfg BookingConfig) *Services {
	if clk == nil {
		clk = clock.System()
	}

	return &Services{
		Customers:     NewCustomerService(repos.Customers),
		Stations:      NewStationService(repos.Stations, repos.Bookings, repos.StationIndex, valkeyClient),
		Games:         NewGameService(repos.Games),
		Bookings:      NewBookingService(repos.Bookings, repos.Customers, repos.Stations, repos.Memberships, natsClient, clk, cfg),
		Ledger:        NewLedgerService(repos.Ledger, repos.Customers, natsClient),
		Tournaments:   NewTournamentService(repos.Tournaments, repos.Games, repos.Customers, natsClient, clk),
		Memberships:   NewMembershipService(repos.Memberships, repos.Customers, natsClient, clk),
		Notifications: NewNotificationService(repos.Notifications, repos.Customers),
	}
}

// newReference mints a ledger reference id. Uniqueness is enforced by the
// transactions table.
func newReference() string {
	return fmt.Sprintf("TXN-%s", uuid.New().String())
}
