package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"arcadia/internal/database"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
)

type TournamentRepository struct {
	db *database.DB
}

func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, game_id, start_date, end_date, registration_deadline,
		                         entry_fee, prize_pool, max_participants, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING tournament_id, current_participants, created_at, updated_at`

	if t.Status == "" {
		t.Status = models.TournamentRegistrationOpen
	}

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.GameID,
		t.StartDate,
		t.EndDate,
		t.Deadline,
		t.EntryFee,
		t.PrizePool,
		t.MaxParticipants,
		t.Status,
	).Scan(&t.TournamentID, &t.Participants, &t.CreatedAt, &t.UpdatedAt)

	return err
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (*models.Tournament, error) {
	t := &models.Tournament{}
	query := `
		SELECT tournament_id, name, game_id, start_date, end_date, registration_deadline,
		       entry_fee, prize_pool, max_participants, current_participants, status,
		       created_at, updated_at
		FROM tournaments
		WHERE tournament_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.TournamentID,
		&t.Name,
		&t.GameID,
		&t.StartDate,
		&t.EndDate,
		&t.Deadline,
		&t.EntryFee,
		&t.PrizePool,
		&t.MaxParticipants,
		&t.Participants,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return t, err
}

func (r *TournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	query := `
		SELECT tournament_id, name, game_id, start_date, end_date, registration_deadline,
		       entry_fee, prize_pool, max_participants, current_participants, status,
		       created_at, updated_at
		FROM tournaments
		ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Tournament
		err := rows.Scan(
			&t.TournamentID,
			&t.Name,
			&t.GameID,
			&t.StartDate,
			&t.EndDate,
			&t.Deadline,
			&t.EntryFee,
			&t.PrizePool,
			&t.MaxParticipants,
			&t.Participants,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}

	return tournaments, rows.Err()
}

// ListUpcoming returns tournaments that have not started yet.
func (r *TournamentRepository) ListUpcoming(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	query := `
		SELECT tournament_id, name, game_id, start_date, end_date, registration_deadline,
		       entry_fee, prize_pool, max_participants, current_participants, status,
		       created_at, updated_at
		FROM tournaments
		WHERE start_date >= $1 AND status <> 'CANCELLED'
		ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Tournament
		err := rows.Scan(
			&t.TournamentID,
			&t.Name,
			&t.GameID,
			&t.StartDate,
			&t.EndDate,
			&t.Deadline,
			&t.EntryFee,
			&t.PrizePool,
			&t.MaxParticipants,
			&t.Participants,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}

	return tournaments, rows.Err()
}

func (r *TournamentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE tournaments SET status = $1, updated_at = NOW() WHERE tournament_id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// RegisterSettled claims one capacity slot, charges the entry fee and
// records the participant, all or nothing. The guarded increment makes
// concurrent registrations for the last slot race safely: exactly one
// UPDATE matches.
func (r *TournamentRepository) RegisterSettled(ctx context.Context, p *models.TournamentParticipant, fee decimal.Decimal, reference string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer tx.Rollback()

	// The status predicate closes the window on registrations racing an
	// admin status flip.
	claim := `
		UPDATE tournaments
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE tournament_id = $1
		  AND status = 'REGISTRATION_OPEN'
		  AND current_participants < max_participants`

	res, err := tx.ExecContext(ctx, claim, p.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("claim tournament slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM tournaments WHERE tournament_id = $1`,
			p.TournamentID).Scan(&status)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if status != "" && status != models.TournamentRegistrationOpen {
			return nil, apperrors.ErrRegistrationClosed
		}
		return nil, apperrors.ErrEventFull
	}

	var payment *models.Transaction
	if fee.IsPositive() {
		debit := `
			UPDATE customers
			SET balance = balance - $1, updated_at = NOW()
			WHERE customer_id = $2 AND balance >= $1`

		res, err := tx.ExecContext(ctx, debit, fee, p.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("debit entry fee: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, apperrors.ErrInsufficientFunds
		}

		description := fmt.Sprintf("Tournament #%d entry fee", p.TournamentID)
		payment = &models.Transaction{
			CustomerID:  p.CustomerID,
			Type:        models.TxnTournamentFee,
			Amount:      fee.Neg(),
			Method:      models.PayAccountBalance,
			ReferenceID: reference,
			Description: &description,
		}
		if err := insertTransaction(ctx, tx, payment); err != nil {
			return nil, err
		}
	}

	insert := `
		INSERT INTO tournament_participants (tournament_id, customer_id, team_name)
		VALUES ($1, $2, $3)
		RETURNING participant_id, registered_at`

	err = tx.QueryRowContext(ctx, insert, p.TournamentID, p.CustomerID, p.TeamName).
		Scan(&p.ParticipantID, &p.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return payment, nil
}

func (r *TournamentRepository) IsRegistered(ctx context.Context, tournamentID, customerID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tournament_participants
			WHERE tournament_id = $1 AND customer_id = $2
		)`

	err := r.db.QueryRowContext(ctx, query, tournamentID, customerID).Scan(&exists)
	return exists, err
}

func (r *TournamentRepository) ListParticipants(ctx context.Context, tournamentID int64) ([]models.TournamentParticipant, error) {
	var participants []models.TournamentParticipant
	query := `
		SELECT participant_id, tournament_id, customer_id, team_name, registered_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY registered_at`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.TournamentParticipant
		err := rows.Scan(
			&p.ParticipantID,
			&p.TournamentID,
			&p.CustomerID,
			&p.TeamName,
			&p.RegisteredAt,
		)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}
