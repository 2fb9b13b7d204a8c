package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dumu-tech/duka-pos/internal/adapters/memory"
	"github.com/dumu-tech/duka-pos/internal/core"
)

func newBackofficeService(t *testing.T) *BackofficeService {
	t.Helper()
	repo := memory.NewRepository()
	return NewBackofficeService(repo.CustomerRepository(), repo.ExpenseRepository())
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newBackofficeService(t)
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Wanjiku"}); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error without phone, got %v", err)
	}
	if _, err := svc.CreateCustomer(ctx, CreateCustomerInput{Phone: "+254700000001"}); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error without name, got %v", err)
	}

	customer, err := svc.CreateCustomer(ctx, CreateCustomerInput{
		Name:  "Wanjiku Kamau",
		Phone: "+254700000001",
		Email: "Wanjiku@Example.com",
	})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	if customer.Email != "wanjiku@example.com" {
		t.Fatalf("expected lowercased email, got %s", customer.Email)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	svc := newBackofficeService(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Juma", Phone: "+254711000002"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if err := svc.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, customer.ID); !core.IsKind(err, core.ErrKindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newBackofficeService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateExpenseInput
	}{
		{"missing title", CreateExpenseInput{Category: "Utilities", Amount: 100}},
		{"missing category", CreateExpenseInput{Title: "Power bill", Amount: 100}},
		{"zero amount", CreateExpenseInput{Title: "Power bill", Category: "Utilities"}},
		{"bad date", CreateExpenseInput{Title: "Power bill", Category: "Utilities", Amount: 100, Date: "14/08/2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateExpense(ctx, tc.input); !core.IsKind(err, core.ErrKindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	expense, err := svc.CreateExpense(ctx, CreateExpenseInput{
		Title:    "Power bill",
		Category: "Utilities",
		Amount:   4200,
		Date:     "2026-08-14",
	})
	if err != nil {
		t.Fatalf("create expense failed: %v", err)
	}
	if expense.Date.Format("2006-01-02") != "2026-08-14" {
		t.Fatalf("expected parsed date, got %v", expense.Date)
	}
}

func TestExpenseReportPDF(t *testing.T) {
	svc := newBackofficeService(t)
	ctx := context.Background()

	seed := []CreateExpenseInput{
		{Title: "Power bill", Category: "Utilities", Amount: 4200, Date: "2026-08-05"},
		{Title: "Shelf restock crates", Category: "Supplies", Amount: 1800.5, Date: "2026-08-12", Description: "Plastic crates for the storeroom"},
	}
	for _, input := range seed {
		if _, err := svc.CreateExpense(ctx, input); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}

	data, filename, err := svc.GenerateExpenseReportPDF(ctx, "2026-08-01", "2026-08-31", time.UTC)
	if err != nil {
		t.Fatalf("generate report failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q...", data[:8])
	}
	if filename == "" {
		t.Fatalf("expected a filename")
	}
}

func TestExpenseReportRejectsBadWindow(t *testing.T) {
	svc := newBackofficeService(t)

	if _, _, err := svc.GenerateExpenseReportPDF(context.Background(), "yesterday", "", time.UTC); !core.IsKind(err, core.ErrKindValidation) {
		t.Fatalf("expected validation error on malformed date, got %v", err)
	}
}
