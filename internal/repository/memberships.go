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

type MembershipRepository struct {
	db *database.DB
}

func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// IssueSettled inserts the card and records the fee. Paying from the account
// balance uses the same guarded debit as bookings; external methods only
// append the ledger row.
func (r *MembershipRepository) IssueSettled(ctx context.Context, card *models.MembershipCard, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer tx.Rollback()

	if method == models.PayAccountBalance && fee.IsPositive() {
		debit := `
			UPDATE customers
			SET balance = balance - $1, updated_at = NOW()
			WHERE customer_id = $2 AND balance >= $1`

		res, err := tx.ExecContext(ctx, debit, fee, card.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("debit membership fee: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, apperrors.ErrInsufficientFunds
		}
	}

	insert := `
		INSERT INTO membership_cards (customer_id, card_number, tier, issue_date, expiry_date, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING card_id, points, is_active, created_at`

	err = tx.QueryRowContext(ctx, insert,
		card.CustomerID,
		card.CardNumber,
		card.Tier,
		card.IssueDate,
		card.ExpiryDate,
	).Scan(&card.CardID, &card.Points, &card.IsActive, &card.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert membership card: %w", err)
	}

	var payment *models.Transaction
	if fee.IsPositive() {
		amount := fee
		if method == models.PayAccountBalance {
			amount = fee.Neg()
		}
		description := fmt.Sprintf("%s membership fee", card.Tier)
		payment = &models.Transaction{
			CustomerID:  card.CustomerID,
			Type:        models.TxnMembershipFee,
			Amount:      amount,
			Method:      method,
			ReferenceID: reference,
			Description: &description,
		}
		if err := insertTransaction(ctx, tx, payment); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return payment, nil
}

func (r *MembershipRepository) GetByCustomer(ctx context.Context, customerID int64) (*models.MembershipCard, error) {
	card := &models.MembershipCard{}
	query := `
		SELECT card_id, customer_id, card_number, tier, issue_date, expiry_date,
		       points, is_active, created_at
		FROM membership_cards
		WHERE customer_id = $1`

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&card.CardID,
		&card.CustomerID,
		&card.CardNumber,
		&card.Tier,
		&card.IssueDate,
		&card.ExpiryDate,
		&card.Points,
		&card.IsActive,
		&card.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return card, err
}

// RenewSettled pushes the expiry and settles the renewal fee in the same
// transaction, mirroring IssueSettled's debit rules.
func (r *MembershipRepository) RenewSettled(ctx context.Context, card *models.MembershipCard, newExpiry time.Time, fee decimal.Decimal, method, reference string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer tx.Rollback()

	if method == models.PayAccountBalance && fee.IsPositive() {
		debit := `
			UPDATE customers
			SET balance = balance - $1, updated_at = NOW()
			WHERE customer_id = $2 AND balance >= $1`

		res, err := tx.ExecContext(ctx, debit, fee, card.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("debit renewal fee: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, apperrors.ErrInsufficientFunds
		}
	}

	update := `UPDATE membership_cards SET expiry_date = $1, is_active = TRUE WHERE card_id = $2`
	if _, err := tx.ExecContext(ctx, update, newExpiry, card.CardID); err != nil {
		return nil, fmt.Errorf("renew membership card: %w", err)
	}

	var payment *models.Transaction
	if fee.IsPositive() {
		amount := fee
		if method == models.PayAccountBalance {
			amount = fee.Neg()
		}
		description := fmt.Sprintf("%s membership renewal", card.Tier)
		payment = &models.Transaction{
			CustomerID:  card.CustomerID,
			Type:        models.TxnMembershipFee,
			Amount:      amount,
			Method:      method,
			ReferenceID: reference,
			Description: &description,
		}
		if err := insertTransaction(ctx, tx, payment); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return payment, nil
}

func (r *MembershipRepository) Deactivate(ctx context.Context, cardID int64) error {
	query := `UPDATE membership_cards SET is_active = FALSE WHERE card_id = $1`
	_, err := r.db.ExecContext(ctx, query, cardID)
	return err
}
