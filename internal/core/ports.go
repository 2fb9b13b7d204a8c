package core

import (
	"context"
	"time"
)

// TillRepository defines the interface for till data access. Status
// transitions must be atomic conditional updates: the implementation checks
// the expected current status and applies the new one in a single write, so
// concurrent transitions on the same till cannot double-apply.
type TillRepository interface {
	Create(ctx context.Context, till *Till) error
	GetByID(ctx context.Context, id string) (*Till, error)
	// FindOpen returns the OPEN till for a (location, staff) pair, or nil.
	FindOpen(ctx context.Context, locationID, staffID string) (*Till, error)
	// TransitionStatus moves a till from one of the expected statuses to the
	// target status. Returns ErrKindInvalidState when the till exists but is
	// not in an expected status, ErrKindNotFound when it does not exist.
	TransitionStatus(ctx context.Context, id string, from []TillStatus, to TillStatus) (*Till, error)
	// Close is TransitionStatus to CLOSED plus closing balance and timestamp,
	// applied in the same conditional write.
	Close(ctx context.Context, id string, closingBalance float64, closedAt time.Time) (*Till, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, status string, limit int) ([]*Transaction, error)
	// UpdateStatus conditionally moves a transaction between ledger statuses.
	UpdateStatus(ctx context.Context, id string, from, to TransactionStatus) (*Transaction, error)
	// Refund is the completed→refunded transition with refund metadata,
	// applied in one conditional write.
	Refund(ctx context.Context, id, reason, refundBy string, refundedAt time.Time) (*Transaction, error)
	// FindBySourceOrder returns the transaction a given order was reconciled
	// into, or nil when the order has not been reconciled.
	FindBySourceOrder(ctx context.Context, orderID string) (*Transaction, error)
}

// OrderRepository defines the interface for online order data access
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, status string, limit int) ([]*Order, error)
	UpdateFulfillmentStatus(ctx context.Context, id string, status FulfillmentStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error
}

// TenderRepository defines the interface for payment-method definitions
type TenderRepository interface {
	Create(ctx context.Context, tender *Tender) error
	GetByName(ctx context.Context, name string) (*Tender, error)
	// List returns all tenders ordered ascending by TillOrder.
	List(ctx context.Context) ([]*Tender, error)
}

// TenderAssignmentRepository persists the per-device tender button ordering.
// Keys are device identifiers, values are ordered tender ranks.
type TenderAssignmentRepository interface {
	Get(ctx context.Context, deviceID string) ([]int, error)
	Set(ctx context.Context, deviceID string, ranks []int) error
}

// StaffRepository defines the interface for staff records
type StaffRepository interface {
	Create(ctx context.Context, staff *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	List(ctx context.Context) ([]*Staff, error)
	Update(ctx context.Context, staff *Staff) error
}

// CustomerRepository defines the interface for customer records
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository defines the interface for expense bookkeeping
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	List(ctx context.Context) ([]*Expense, error)
	// ListByDateRange returns expenses with Date in [from, to), oldest first.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Expense, error)
	Delete(ctx context.Context, id string) error
}
