package consumers

import (
	"context"
	"log/slog"

	"github.com/nats-io/stan.go"

	"arcadia/internal/clock"
	"arcadia/internal/config"
	"arcadia/internal/database"
	"arcadia/internal/messaging"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

// ConsumerService is the background worker binary: it subscribes to the
// published events and runs the lifecycle sweeper.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
	sweeper  *SweeperJob
	cancel   context.CancelFunc
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: NewHandlers(repos),
		sweeper:  NewSweeperJob(repos.Bookings, clock.System(), cfg.SweepInterval),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subscriptions := []struct {
		subject string
		handler func(*stan.Msg)
	}{
		{models.EventBookingConfirmed, cs.handlers.HandleBookingConfirmed},
		{models.EventBookingCancelled, cs.handlers.HandleBookingCancelled},
		{models.EventTournamentRegistered, cs.handlers.HandleTournamentRegistered},
		{models.EventBalanceDeposited, cs.handlers.HandleBalanceDeposited},
		{models.EventMembershipIssued, cs.handlers.HandleMembershipIssued},
	}

	for _, sub := range subscriptions {
		if _, err := cs.nats.SubscribeQueue(sub.subject, "consumers", sub.handler); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cs.cancel = cancel
	cs.sweeper.Start(ctx)

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.cancel != nil {
		cs.cancel()
	}
	if cs.sweeper != nil {
		cs.sweeper.Stop()
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
