package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"arcadia/internal/database"
	"arcadia/internal/models"
)

type LedgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// insertTransaction writes one immutable ledger row inside the caller's
// transaction. Debits carry negative amounts, credits positive ones.
func insertTransaction(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (customer_id, type, amount, method, reference_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id, created_at`

	err := tx.QueryRowContext(ctx, query,
		t.CustomerID,
		t.Type,
		t.Amount,
		t.Method,
		t.ReferenceID,
		t.Description,
	).Scan(&t.TransactionID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", t.ReferenceID, err)
	}

	return nil
}

func (r *LedgerRepository) Deposit(ctx context.Context, customerID int64, amount decimal.Decimal, method, reference string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET balance = balance + $1, updated_at = NOW() WHERE customer_id = $2`,
		amount, customerID)
	if err != nil {
		return nil, fmt.Errorf("credit customer %d: %w", customerID, err)
	}

	description := "Balance deposit"
	deposit := &models.Transaction{
		CustomerID:  customerID,
		Type:        models.TxnDeposit,
		Amount:      amount,
		Method:      method,
		ReferenceID: reference,
		Description: &description,
	}

	if err := insertTransaction(ctx, tx, deposit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return deposit, nil
}

func (r *LedgerRepository) GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT balance FROM customers WHERE customer_id = $1`

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// SumByCustomer totals the signed amounts of every balance-moving row:
// deposits plus anything paid from the account balance. Fees settled in
// cash or by card are revenue records and do not touch the balance. For a
// consistent store the sum always equals the customer's balance.
func (r *LedgerRepository) SumByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE customer_id = $1
		  AND (type = 'DEPOSIT' OR method = 'ACCOUNT_BALANCE')`

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

func (r *LedgerRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Transaction, error) {
	var transactions []models.Transaction
	query := `
		SELECT transaction_id, customer_id, type, amount, method, reference_id, description, created_at
		FROM transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.CustomerID,
			&t.Type,
			&t.Amount,
			&t.Method,
			&t.ReferenceID,
			&t.Description,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func (r *LedgerRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `
		SELECT transaction_id, customer_id, type, amount, method, reference_id, description, created_at
		FROM transactions
		WHERE reference_id = $1`

	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&t.TransactionID,
		&t.CustomerID,
		&t.Type,
		&t.Amount,
		&t.Method,
		&t.ReferenceID,
		&t.Description,
		&t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return t, err
}
