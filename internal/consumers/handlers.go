package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/stan.go"

	"arcadia/internal/models"
	"arcadia/internal/repository"
)

// Handlers turns published events into customer notifications. Unmarshal
// failures are acked so a poison message is never redelivered forever.
type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		m.Ack()
		return
	}

	msg := fmt.Sprintf("Booking #%d confirmed for station %d on %s, %s-%s",
		event.BookingID, event.StationID, event.Date, event.StartTime, event.EndTime)
	h.notify(event.CustomerID, models.EventBookingConfirmed, msg)
	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		m.Ack()
		return
	}

	msg := fmt.Sprintf("Booking #%d cancelled, %s refunded to your balance",
		event.BookingID, event.Refunded.StringFixed(2))
	h.notify(event.CustomerID, models.EventBookingCancelled, msg)
	m.Ack()
}

func (h *Handlers) HandleTournamentRegistered(m *stan.Msg) {
	var event models.TournamentRegisteredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal tournament registered event", "error", err)
		m.Ack()
		return
	}

	msg := fmt.Sprintf("Registration for tournament #%d confirmed", event.TournamentID)
	if event.EntryFee.IsPositive() {
		msg += fmt.Sprintf(", entry fee %s charged", event.EntryFee.StringFixed(2))
	}
	h.notify(event.CustomerID, models.EventTournamentRegistered, msg)
	m.Ack()
}

func (h *Handlers) HandleBalanceDeposited(m *stan.Msg) {
	var event models.BalanceDepositedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal balance deposited event", "error", err)
		m.Ack()
		return
	}

	msg := fmt.Sprintf("Deposit of %s received via %s", event.Amount.StringFixed(2), event.Method)
	h.notify(event.CustomerID, models.EventBalanceDeposited, msg)
	m.Ack()
}

func (h *Handlers) HandleMembershipIssued(m *stan.Msg) {
	var event models.MembershipIssuedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal membership issued event", "error", err)
		m.Ack()
		return
	}

	msg := fmt.Sprintf("Your %s membership is active until %s", event.Tier, event.ExpiryDate)
	h.notify(event.CustomerID, models.EventMembershipIssued, msg)
	m.Ack()
}

func (h *Handlers) notify(customerID int64, kind, message string) {
	n := &models.Notification{
		CustomerID: customerID,
		Kind:       kind,
		Message:    message,
	}
	if err := h.repos.Notifications.Create(context.Background(), n); err != nil {
		slog.Error("Failed to store notification", "customer_id", customerID, "kind", kind, "error", err)
		return
	}
	slog.Info("Notification stored", "customer_id", customerID, "kind", kind)
}
