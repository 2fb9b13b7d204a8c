package service

import (
	"context"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/google/uuid"
)

// BackofficeService covers the simple bookkeeping stores: customers and
// expenses. Validation is field presence only.
type BackofficeService struct {
	customerRepo core.CustomerRepository
	expenseRepo  core.ExpenseRepository
}

// NewBackofficeService creates a new back-office service
func NewBackofficeService(customerRepo core.CustomerRepository, expenseRepo core.ExpenseRepository) *BackofficeService {
	return &BackofficeService{
		customerRepo: customerRepo,
		expenseRepo:  expenseRepo,
	}
}

// CreateCustomerInput carries the parameters for a customer record
type CreateCustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateCustomer records a customer.
func (s *BackofficeService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*core.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" || input.Phone == "" {
		return nil, core.Validationf("customer name and phone are required")
	}

	customer := &core.Customer{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers returns all customer records.
func (s *BackofficeService) ListCustomers(ctx context.Context) ([]*core.Customer, error) {
	return s.customerRepo.List(ctx)
}

// GetCustomer returns a customer by id.
func (s *BackofficeService) GetCustomer(ctx context.Context, id string) (*core.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// DeleteCustomer removes a customer record.
func (s *BackofficeService) DeleteCustomer(ctx context.Context, id string) error {
	return s.customerRepo.Delete(ctx, id)
}

// CreateExpenseInput carries the parameters for an expense entry
type CreateExpenseInput struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
}

// CreateExpense records an expense entry.
func (s *BackofficeService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*core.Expense, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if input.Title == "" || input.Category == "" {
		return nil, core.Validationf("expense title and category are required")
	}
	if input.Amount <= 0 {
		return nil, core.Validationf("expense amount must be greater than zero")
	}

	date := time.Now().UTC()
	if strings.TrimSpace(input.Date) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(input.Date))
		if err != nil {
			return nil, core.Validationf("invalid date format, expected YYYY-MM-DD")
		}
		date = parsed
	}

	expense := &core.Expense{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        date,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns all expense entries.
func (s *BackofficeService) ListExpenses(ctx context.Context) ([]*core.Expense, error) {
	return s.expenseRepo.List(ctx)
}

// DeleteExpense removes an expense entry.
func (s *BackofficeService) DeleteExpense(ctx context.Context, id string) error {
	return s.expenseRepo.Delete(ctx, id)
}
