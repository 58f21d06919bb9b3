package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/messaging"
	"arcadia/internal/metrics"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

// LedgerService exposes the customer balance and its transaction history.
type LedgerService struct {
	ledger    repository.LedgerStore
	customers repository.CustomerStore
	nats      *messaging.NATSClient
}

func NewLedgerService(ledger repository.LedgerStore, customers repository.CustomerStore, nats *messaging.NATSClient) *LedgerService {
	return &LedgerService{
		ledger:    ledger,
		customers: customers,
		nats:      nats,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req *models.DepositRequest) (*models.BalanceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if !validPaymentMethod(req.Method) {
		return nil, fmt.Errorf("unknown payment method %q", req.Method)
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	deposit, err := s.ledger.Deposit(ctx, req.CustomerID, req.Amount, req.Method, newReference())
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.GetBalance(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	metrics.DepositsTotal.Inc()
	slog.Info("Deposit recorded",
		"customer_id", req.CustomerID,
		"amount", req.Amount,
		"method", req.Method,
		"reference", deposit.ReferenceID)

	if s.nats != nil {
		err := s.nats.Publish(models.EventBalanceDeposited, &models.BalanceDepositedEvent{
			CustomerID: req.CustomerID,
			Amount:     req.Amount,
			Method:     req.Method,
			Timestamp:  deposit.CreatedAt,
		})
		if err != nil {
			slog.Error("Failed to publish event", "subject", models.EventBalanceDeposited, "error", err)
		}
	}

	return &models.BalanceResponse{
		CustomerID:  req.CustomerID,
		Balance:     balance,
		Transaction: deposit,
	}, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, customerID int64) (*models.BalanceResponse, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, apperrors.ErrNotFound)
	}

	return &models.BalanceResponse{
		CustomerID: customerID,
		Balance:    customer.Balance,
	}, nil
}

func (s *LedgerService) History(ctx context.Context, customerID int64) ([]models.Transaction, error) {
	return s.ledger.ListByCustomer(ctx, customerID)
}

// Audit recomputes the balance from the signed ledger rows and compares it
// to the stored balance.
func (s *LedgerService) Audit(ctx context.Context, customerID int64) (balance, ledgerSum decimal.Decimal, err error) {
	balance, err = s.ledger.GetBalance(ctx, customerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	ledgerSum, err = s.ledger.SumByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return balance, ledgerSum, nil
}

func validPaymentMethod(method string) bool {
	switch method {
	case models.PayCash, models.PayCard, models.PayMobileMoney, models.PayAccountBalance:
		return true
	}
	return false
}
