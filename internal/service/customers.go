package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

type CustomerService struct {
	customers repository.CustomerStore
}

func NewCustomerService(customers repository.CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Balance:   decimal.Zero,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	slog.Info("Customer created",
		"customer_id", customer.CustomerID,
		"name", customer.FirstName+" "+customer.LastName)

	return customer, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", id, apperrors.ErrNotFound)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.customers.List(ctx)
}

// Search finds customers whose first or last name contains the term,
// case-insensitively.
func (s *CustomerService) Search(ctx context.Context, name string) ([]models.Customer, error) {
	return s.customers.SearchByName(ctx, name)
}

func (s *CustomerService) Update(ctx context.Context, id int64, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Phone = req.Phone

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Delete removes the customer with all dependent records.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Customer deleted", "customer_id", id)
	return nil
}
