package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
)

func TestNotificationListAndUnreadFilter(t *testing.T) {
	m := newMemStore()
	customer := m.addCustomer(0)
	store := notificationStore{m}
	svc := NewNotificationService(store, m)
	ctx := context.Background()

	first := &models.Notification{
		CustomerID: customer.CustomerID,
		Kind:       models.EventBookingConfirmed,
		Message:    "Booking confirmed for station 1",
	}
	require.NoError(t, store.Create(ctx, first))

	second := &models.Notification{
		CustomerID: customer.CustomerID,
		Kind:       models.EventTournamentRegistered,
		Message:    "Registered for Winter Cup",
	}
	require.NoError(t, store.Create(ctx, second))

	all, err := svc.List(ctx, customer.CustomerID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.MarkRead(ctx, first.NotificationID))

	unread, err := svc.List(ctx, customer.CustomerID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.NotificationID, unread[0].NotificationID)

	// Marking twice is harmless.
	require.NoError(t, svc.MarkRead(ctx, first.NotificationID))
}

func TestNotificationListUnknownCustomer(t *testing.T) {
	m := newMemStore()
	svc := NewNotificationService(notificationStore{m}, m)

	_, err := svc.List(context.Background(), 99, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	m := newMemStore()
	svc := NewNotificationService(notificationStore{m}, m)

	err := svc.MarkRead(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
