package repository

import (
	"context"
	"database/sql"

	"arcadia/internal/database"
	"arcadia/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING user_id, registered_at, last_logged_in`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.IsActive,
	).Scan(&user.UserID, &user.RegisteredAt, &user.LastLoggedIn)

	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT user_id, email, password_hash, is_active, registered_at, last_logged_in
		FROM users
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.RegisteredAt,
		&user.LastLoggedIn,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) GetByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT user_id, email, password_hash, is_active, registered_at, last_logged_in
		FROM users
		WHERE email = $1 AND password_hash = $2 AND is_active = TRUE`

	err := r.db.QueryRowContext(ctx, query, email, passwordHash).Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.RegisteredAt,
		&user.LastLoggedIn,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) UpdateLastLoggedIn(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_logged_in = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
