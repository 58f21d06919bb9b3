package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arcadia/internal/clock"
	apperrors "arcadia/internal/errors"
	"arcadia/internal/messaging"
	"arcadia/internal/models"
	"arcadia/internal/repository"
	"arcadia/internal/timeslot"
)

// Annual membership fees per tier.
var membershipFees = map[string]decimal.Decimal{
	models.TierBronze:   decimal.NewFromInt(2500),
	models.TierSilver:   decimal.NewFromInt(5000),
	models.TierGold:     decimal.NewFromInt(7500),
	models.TierPlatinum: decimal.NewFromInt(10000),
}

type MembershipService struct {
	memberships repository.MembershipStore
	customers   repository.CustomerStore
	nats        *messaging.NATSClient
	clock       clock.Clock
}

func NewMembershipService(
	memberships repository.MembershipStore,
	customers repository.CustomerStore,
	nats *messaging.NATSClient,
	clk clock.Clock,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		customers:   customers,
		nats:        nats,
		clock:       clk,
	}
}

// Issue creates a membership card and settles its fee. A customer holds at
// most one card.
func (s *MembershipService) Issue(ctx context.Context, req *models.IssueMembershipRequest) (*models.MembershipCard, error) {
	fee, ok := membershipFees[req.Tier]
	if !ok {
		return nil, fmt.Errorf("unknown membership tier %q", req.Tier)
	}

	years := req.Years
	if years <= 0 {
		years = 1
	}

	method := req.Method
	if method == "" {
		method = models.PayAccountBalance
	}
	if !validPaymentMethod(method) {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	existing, err := s.memberships.GetByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrMembershipExists
	}

	now := s.clock.Now()
	card := &models.MembershipCard{
		CustomerID: req.CustomerID,
		CardNumber: newCardNumber(),
		Tier:       req.Tier,
		IssueDate:  now,
		ExpiryDate: now.AddDate(years, 0, 0),
	}

	total := fee.Mul(decimal.NewFromInt(int64(years)))
	payment, err := s.memberships.IssueSettled(ctx, card, total, method, newReference())
	if err != nil {
		return nil, err
	}

	logFields := []any{
		"card_id", card.CardID,
		"customer_id", card.CustomerID,
		"tier", card.Tier,
		"expiry_date", card.ExpiryDate.Format(timeslot.DateLayout),
	}
	if payment != nil {
		logFields = append(logFields, "reference", payment.ReferenceID)
	}
	slog.Info("Membership issued", logFields...)

	if s.nats != nil {
		err := s.nats.Publish(models.EventMembershipIssued, &models.MembershipIssuedEvent{
			CustomerID: card.CustomerID,
			Tier:       card.Tier,
			ExpiryDate: card.ExpiryDate.Format(timeslot.DateLayout),
			Timestamp:  now,
		})
		if err != nil {
			slog.Error("Failed to publish event", "subject", models.EventMembershipIssued, "error", err)
		}
	}

	return card, nil
}

func (s *MembershipService) GetByCustomer(ctx context.Context, customerID int64) (*models.MembershipCard, error) {
	card, err := s.memberships.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("membership for customer %d: %w", customerID, apperrors.ErrNotFound)
	}
	return card, nil
}

// Renew pushes the expiry forward from its current value, or from today for
// an already expired card, settling the tier fee for the added years
// through the same ledger path as Issue.
func (s *MembershipService) Renew(ctx context.Context, customerID int64, years int, method string) (*models.MembershipCard, error) {
	if years <= 0 {
		years = 1
	}

	if method == "" {
		method = models.PayAccountBalance
	}
	if !validPaymentMethod(method) {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	card, err := s.memberships.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("membership for customer %d: %w", customerID, apperrors.ErrNotFound)
	}

	now := s.clock.Now()
	base := card.ExpiryDate
	if card.IsExpired(now) {
		base = now
	}
	newExpiry := base.AddDate(years, 0, 0)

	fee := membershipFees[card.Tier].Mul(decimal.NewFromInt(int64(years)))
	payment, err := s.memberships.RenewSettled(ctx, card, newExpiry, fee, method, newReference())
	if err != nil {
		return nil, err
	}

	card.ExpiryDate = newExpiry
	card.IsActive = true

	logFields := []any{
		"card_id", card.CardID,
		"customer_id", card.CustomerID,
		"expiry_date", newExpiry.Format(timeslot.DateLayout),
	}
	if payment != nil {
		logFields = append(logFields, "reference", payment.ReferenceID)
	}
	slog.Info("Membership renewed", logFields...)

	return card, nil
}

func (s *MembershipService) Deactivate(ctx context.Context, customerID int64) error {
	card, err := s.memberships.GetByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("membership for customer %d: %w", customerID, apperrors.ErrNotFound)
	}
	return s.memberships.Deactivate(ctx, card.CardID)
}

func newCardNumber() string {
	return fmt.Sprintf("MC-%s", uuid.New().String()[:13])
}
