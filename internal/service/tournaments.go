package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arcadia/internal/clock"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/messaging"
	"arcadia/internal/metrics"
	"arcadia/internal/models"
	"arcadia/internal/repository"
	"arcadia/internal/timeslot"
)

// TournamentService manages capacity-bounded events. The participant cap is
// enforced by the store's guarded increment, so concurrent registrations
// for the last slot cannot both succeed.
type TournamentService struct {
	tournaments repository.TournamentStore
	games       repository.GameStore
	customers   repository.CustomerStore
	nats        *messaging.NATSClient
	clock       clock.Clock
}

func NewTournamentService(
	tournaments repository.TournamentStore,
	games repository.GameStore,
	customers repository.CustomerStore,
	nats *messaging.NATSClient,
	clk clock.Clock,
) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		games:       games,
		customers:   customers,
		nats:        nats,
		clock:       clk,
	}
}

func (s *TournamentService) Create(ctx context.Context, req *models.CreateTournamentRequest) (*models.Tournament, error) {
	startDate, err := timeslot.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := timeslot.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	deadline, err := timeslot.ParseDate(req.Deadline)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) || deadline.After(startDate) {
		return nil, fmt.Errorf("tournament dates are inconsistent")
	}
	if req.MaxParticipants <= 0 {
		return nil, fmt.Errorf("max_participants must be positive")
	}
	if req.EntryFee.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	game, err := s.games.GetByID(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", req.GameID, apperrors.ErrNotFound)
	}

	tournament := &models.Tournament{
		Name:            req.Name,
		GameID:          req.GameID,
		StartDate:       startDate,
		EndDate:         endDate,
		Deadline:        deadline,
		EntryFee:        req.EntryFee,
		PrizePool:       req.PrizePool,
		MaxParticipants: req.MaxParticipants,
		Status:          models.TournamentRegistrationOpen,
	}

	if err := s.tournaments.Create(ctx, tournament); err != nil {
		return nil, err
	}

	slog.Info("Tournament created",
		"tournament_id", tournament.TournamentID,
		"name", tournament.Name,
		"max_participants", tournament.MaxParticipants)

	return tournament, nil
}

// Register joins a customer to a tournament and settles the entry fee.
// Checks run in order: tournament exists, registration open, deadline,
// capacity, duplicate, funds. The store recheck of capacity is the
// authoritative one.
func (s *TournamentService) Register(ctx context.Context, req *models.RegisterTournamentRequest) (*models.TournamentParticipant, error) {
	tournament, err := s.tournaments.GetByID(ctx, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament == nil {
		return nil, fmt.Errorf("tournament %d: %w", req.TournamentID, apperrors.ErrNotFound)
	}

	if tournament.Status != models.TournamentRegistrationOpen {
		return nil, apperrors.ErrRegistrationClosed
	}

	now := s.clock.Now()
	if now.After(endOfDay(tournament.Deadline)) {
		return nil, apperrors.ErrDeadlinePassed
	}

	if tournament.IsFull() {
		return nil, apperrors.ErrEventFull
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	registered, err := s.tournaments.IsRegistered(ctx, req.TournamentID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperrors.ErrAlreadyRegistered
	}

	participant := &models.TournamentParticipant{
		TournamentID: req.TournamentID,
		CustomerID:   req.CustomerID,
		TeamName:     req.TeamName,
	}

	payment, err := s.tournaments.RegisterSettled(ctx, participant, tournament.EntryFee, newReference())
	if err != nil {
		return nil, err
	}

	metrics.TournamentRegistrations.Inc()
	logFields := []any{
		"tournament_id", participant.TournamentID,
		"customer_id", participant.CustomerID,
	}
	if payment != nil {
		logFields = append(logFields, "reference", payment.ReferenceID)
	}
	slog.Info("Tournament registration settled", logFields...)

	if s.nats != nil {
		err := s.nats.Publish(models.EventTournamentRegistered, &models.TournamentRegisteredEvent{
			TournamentID: participant.TournamentID,
			CustomerID:   participant.CustomerID,
			TeamName:     participant.TeamName,
			EntryFee:     tournament.EntryFee,
			Timestamp:    now,
		})
		if err != nil {
			slog.Error("Failed to publish event", "subject", models.EventTournamentRegistered, "error", err)
		}
	}

	return participant, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id int64) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament == nil {
		return nil, fmt.Errorf("tournament %d: %w", id, apperrors.ErrNotFound)
	}
	return tournament, nil
}

func (s *TournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	return s.tournaments.List(ctx)
}

// ListUpcoming returns tournaments that have not started yet.
func (s *TournamentService) ListUpcoming(ctx context.Context) ([]models.Tournament, error) {
	return s.tournaments.ListUpcoming(ctx, s.clock.Now())
}

func (s *TournamentService) ListParticipants(ctx context.Context, tournamentID int64) ([]models.TournamentParticipant, error) {
	return s.tournaments.ListParticipants(ctx, tournamentID)
}

func (s *TournamentService) UpdateStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case models.TournamentUpcoming, models.TournamentRegistrationOpen,
		models.TournamentOngoing, models.TournamentCompleted, models.TournamentCancelled:
	default:
		return fmt.Errorf("unknown tournament status %q", status)
	}
	return s.tournaments.UpdateStatus(ctx, id, status)
}

// endOfDay pins a date-only deadline to its last instant, so registration
// stays open through the deadline day.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}
