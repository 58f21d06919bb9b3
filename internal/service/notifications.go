package service

import (
	"context"
	"fmt"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

// NotificationService exposes the notification feed the consumer workers
// write into.
type NotificationService struct {
	notifications repository.NotificationStore
	customers     repository.CustomerStore
}

func NewNotificationService(notifications repository.NotificationStore, customers repository.CustomerStore) *NotificationService {
	return &NotificationService{notifications: notifications, customers: customers}
}

// List returns a customer's notifications, newest first. With unreadOnly
// set, already-read entries are filtered out.
func (s *NotificationService) List(ctx context.Context, customerID int64, unreadOnly bool) ([]models.Notification, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, apperrors.ErrNotFound)
	}

	if unreadOnly {
		return s.notifications.ListUnreadByCustomer(ctx, customerID)
	}
	return s.notifications.ListByCustomer(ctx, customerID)
}

// MarkRead flags a single notification as read. Marking an already-read
// notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.notifications.MarkRead(ctx, id)
}
