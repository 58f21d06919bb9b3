package repository

import (
	"context"
	"database/sql"
	"fmt"

	"arcadia/internal/database"
	"arcadia/internal/models"
)

type CustomerRepository struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (user_id, first_name, last_name, phone, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING customer_id, balance, hours_played, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		customer.UserID,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		customer.Balance,
	).Scan(&customer.CustomerID, &customer.Balance, &customer.HoursPlayed, &customer.CreatedAt, &customer.UpdatedAt)

	return err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT customer_id, user_id, first_name, last_name, phone, balance,
		       hours_played, created_at, updated_at
		FROM customers
		WHERE customer_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.CustomerID,
		&customer.UserID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.Balance,
		&customer.HoursPlayed,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return customer, err
}

func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	query := `
		SELECT customer_id, user_id, first_name, last_name, phone, balance,
		       hours_played, created_at, updated_at
		FROM customers
		ORDER BY customer_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(
			&customer.CustomerID,
			&customer.UserID,
			&customer.FirstName,
			&customer.LastName,
			&customer.Phone,
			&customer.Balance,
			&customer.HoursPlayed,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// SearchByName matches the pattern against first and last name, and against
// the two concatenated, so "ana akh" finds "Dana Akhmetova".
func (r *CustomerRepository) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	var customers []models.Customer
	query := `
		SELECT customer_id, user_id, first_name, last_name, phone, balance,
		       hours_played, created_at, updated_at
		FROM customers
		WHERE first_name ILIKE $1
		   OR last_name ILIKE $1
		   OR (first_name || ' ' || last_name) ILIKE $1
		ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(
			&customer.CustomerID,
			&customer.UserID,
			&customer.FirstName,
			&customer.LastName,
			&customer.Phone,
			&customer.Balance,
			&customer.HoursPlayed,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
		WHERE customer_id = $4`

	_, err := r.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		customer.CustomerID,
	)

	return err
}

// Delete removes the customer and every dependent row. Children go first so
// the foreign keys never block the delete.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM notifications WHERE customer_id = $1`,
		`DELETE FROM tournament_participants WHERE customer_id = $1`,
		`DELETE FROM bookings WHERE customer_id = $1`,
		`DELETE FROM transactions WHERE customer_id = $1`,
		`DELETE FROM membership_cards WHERE customer_id = $1`,
		`DELETE FROM customers WHERE customer_id = $1`,
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			return fmt.Errorf("cascade delete customer %d: %w", id, err)
		}
	}

	return tx.Commit()
}
