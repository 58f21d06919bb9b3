package repository

import (
	"context"
	"fmt"

	"arcadia/internal/database"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (customer_id, kind, message)
		VALUES ($1, $2, $3)
		RETURNING notification_id, is_read, sent_at`

	err := r.db.QueryRowContext(ctx, query, n.CustomerID, n.Kind, n.Message).
		Scan(&n.NotificationID, &n.IsRead, &n.SentAt)

	return err
}

func (r *NotificationRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
		SELECT notification_id, customer_id, kind, message, is_read, sent_at
		FROM notifications
		WHERE customer_id = $1
		ORDER BY sent_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.NotificationID,
			&n.CustomerID,
			&n.Kind,
			&n.Message,
			&n.IsRead,
			&n.SentAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) ListUnreadByCustomer(ctx context.Context, customerID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
		SELECT notification_id, customer_id, kind, message, is_read, sent_at
		FROM notifications
		WHERE customer_id = $1 AND is_read = FALSE
		ORDER BY sent_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.NotificationID,
			&n.CustomerID,
			&n.Kind,
			&n.Message,
			&n.IsRead,
			&n.SentAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}
