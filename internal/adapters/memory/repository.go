package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
)

// Repository is an in-memory implementation of the core repository ports.
// It backs local development and the service test suites; the mutex gives it
// the same conditional-transition semantics as the Postgres adapter.
type Repository struct {
	mu           sync.RWMutex
	tills        map[string]*core.Till
	transactions map[string]*core.Transaction
	orders       map[string]*core.Order
	tenders      map[string]*core.Tender
	staff        map[string]*core.Staff
	customers    map[string]*core.Customer
	expenses     map[string]*core.Expense
	assignments  map[string][]int

	tillRepo       *tillRepository
	txRepo         *transactionRepository
	orderRepo      *orderRepository
	tenderRepo     *tenderRepository
	assignmentRepo *assignmentRepository
	staffRepo      *staffRepository
	customerRepo   *customerRepository
	expenseRepo    *expenseRepository
}

type tillRepository struct{ *Repository }
type transactionRepository struct{ *Repository }
type orderRepository struct{ *Repository }
type tenderRepository struct{ *Repository }
type assignmentRepository struct{ *Repository }
type staffRepository struct{ *Repository }
type customerRepository struct{ *Repository }
type expenseRepository struct{ *Repository }

// NewRepository creates an empty in-memory repository
func NewRepository() *Repository {
	repo := &Repository{
		tills:        make(map[string]*core.Till),
		transactions: make(map[string]*core.Transaction),
		orders:       make(map[string]*core.Order),
		tenders:      make(map[string]*core.Tender),
		staff:        make(map[string]*core.Staff),
		customers:    make(map[string]*core.Customer),
		expenses:     make(map[string]*core.Expense),
		assignments:  make(map[string][]int),
	}
	repo.tillRepo = &tillRepository{Repository: repo}
	repo.txRepo = &transactionRepository{Repository: repo}
	repo.orderRepo = &orderRepository{Repository: repo}
	repo.tenderRepo = &tenderRepository{Repository: repo}
	repo.assignmentRepo = &assignmentRepository{Repository: repo}
	repo.staffRepo = &staffRepository{Repository: repo}
	repo.customerRepo = &customerRepository{Repository: repo}
	repo.expenseRepo = &expenseRepository{Repository: repo}
	return repo
}

// TillRepository returns the TillRepository implementation
func (r *Repository) TillRepository() core.TillRepository { return r.tillRepo }

// TransactionRepository returns the TransactionRepository implementation
func (r *Repository) TransactionRepository() core.TransactionRepository { return r.txRepo }

// OrderRepository returns the OrderRepository implementation
func (r *Repository) OrderRepository() core.OrderRepository { return r.orderRepo }

// TenderRepository returns the TenderRepository implementation
func (r *Repository) TenderRepository() core.TenderRepository { return r.tenderRepo }

// TenderAssignmentRepository returns the TenderAssignmentRepository implementation
func (r *Repository) TenderAssignmentRepository() core.TenderAssignmentRepository {
	return r.assignmentRepo
}

// StaffRepository returns the StaffRepository implementation
func (r *Repository) StaffRepository() core.StaffRepository { return r.staffRepo }

// CustomerRepository returns the CustomerRepository implementation
func (r *Repository) CustomerRepository() core.CustomerRepository { return r.customerRepo }

// ExpenseRepository returns the ExpenseRepository implementation
func (r *Repository) ExpenseRepository() core.ExpenseRepository { return r.expenseRepo }

// Tills

func (r *tillRepository) Create(ctx context.Context, till *core.Till) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *till
	r.tills[till.ID] = &clone
	return nil
}

func (r *tillRepository) GetByID(ctx context.Context, id string) (*core.Till, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	till, ok := r.tills[id]
	if !ok {
		return nil, core.NotFoundf("till %s not found", id)
	}
	clone := *till
	return &clone, nil
}

func (r *tillRepository) FindOpen(ctx context.Context, locationID, staffID string) (*core.Till, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, till := range r.tills {
		if till.LocationID == locationID && till.StaffID == staffID && till.Status == core.TillStatusOpen {
			clone := *till
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *tillRepository) TransitionStatus(ctx context.Context, id string, from []core.TillStatus, to core.TillStatus) (*core.Till, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	till, ok := r.tills[id]
	if !ok {
		return nil, core.NotFoundf("till %s not found", id)
	}
	if !tillStatusIn(till.Status, from) {
		return nil, core.InvalidStatef("till %s is %s, expected one of %v", id, till.Status, from)
	}
	till.Status = to
	clone := *till
	return &clone, nil
}

func (r *tillRepository) Close(ctx context.Context, id string, closingBalance float64, closedAt time.Time) (*core.Till, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	till, ok := r.tills[id]
	if !ok {
		return nil, core.NotFoundf("till %s not found", id)
	}
	open := []core.TillStatus{core.TillStatusOpen, core.TillStatusSuspended}
	if !tillStatusIn(till.Status, open) {
		return nil, core.InvalidStatef("till %s is %s, expected one of %v", id, till.Status, open)
	}
	till.Status = core.TillStatusClosed
	till.ClosingBalance = &closingBalance
	closed := closedAt
	till.ClosedAt = &closed
	clone := *till
	return &clone, nil
}

func tillStatusIn(status core.TillStatus, set []core.TillStatus) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}

// Transactions

func (r *transactionRepository) Create(ctx context.Context, tx *core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.SourceOrderID != nil {
		for _, existing := range r.transactions {
			if existing.SourceOrderID != nil && *existing.SourceOrderID == *tx.SourceOrderID {
				return core.Conflictf("order already reconciled")
			}
		}
	}
	clone := cloneTransaction(tx)
	r.transactions[tx.ID] = clone
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, core.NotFoundf("transaction %s not found", id)
	}
	return cloneTransaction(tx), nil
}

func (r *transactionRepository) List(ctx context.Context, status string, limit int) ([]*core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []*core.Transaction
	for _, tx := range r.transactions {
		if status != "" && string(tx.Status) != status {
			continue
		}
		txs = append(txs, cloneTransaction(tx))
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id string, from, to core.TransactionStatus) (*core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, core.NotFoundf("transaction %s not found", id)
	}
	if tx.Status != from {
		return nil, core.InvalidStatef("transaction %s is %s, expected %s", id, tx.Status, from)
	}
	tx.Status = to
	return cloneTransaction(tx), nil
}

func (r *transactionRepository) Refund(ctx context.Context, id, reason, refundBy string, refundedAt time.Time) (*core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, core.NotFoundf("transaction %s not found", id)
	}
	if tx.Status != core.TransactionStatusCompleted {
		return nil, core.InvalidStatef("transaction %s is %s, expected %s", id, tx.Status, core.TransactionStatusCompleted)
	}
	tx.Status = core.TransactionStatusRefunded
	tx.RefundReason = reason
	tx.RefundBy = refundBy
	at := refundedAt
	tx.RefundedAt = &at
	return cloneTransaction(tx), nil
}

func (r *transactionRepository) FindBySourceOrder(ctx context.Context, orderID string) (*core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tx := range r.transactions {
		if tx.SourceOrderID != nil && *tx.SourceOrderID == orderID {
			return cloneTransaction(tx), nil
		}
	}
	return nil, nil
}

func cloneTransaction(tx *core.Transaction) *core.Transaction {
	clone := *tx
	clone.Items = append([]core.TransactionItem(nil), tx.Items...)
	return &clone
}

// Orders

func (r *orderRepository) Create(ctx context.Context, order *core.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*core.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, core.NotFoundf("order %s not found", id)
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) List(ctx context.Context, status string, limit int) ([]*core.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []*core.Order
	for _, order := range r.orders {
		if status != "" && string(order.FulfillmentStatus) != status {
			continue
		}
		orders = append(orders, cloneOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *orderRepository) UpdateFulfillmentStatus(ctx context.Context, id string, status core.FulfillmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return core.NotFoundf("order %s not found", id)
	}
	order.FulfillmentStatus = status
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id string, status core.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return core.NotFoundf("order %s not found", id)
	}
	order.PaymentStatus = status
	order.Paid = status == core.PaymentStatusPaid
	return nil
}

func cloneOrder(order *core.Order) *core.Order {
	clone := *order
	clone.Items = append([]core.OrderItem(nil), order.Items...)
	return &clone
}

// Tenders

func (r *tenderRepository) Create(ctx context.Context, tender *core.Tender) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tenders {
		if strings.EqualFold(existing.Name, tender.Name) {
			return core.Conflictf("tender %q already exists", tender.Name)
		}
	}
	clone := *tender
	r.tenders[tender.ID] = &clone
	return nil
}

func (r *tenderRepository) GetByName(ctx context.Context, name string) (*core.Tender, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tender := range r.tenders {
		if strings.EqualFold(tender.Name, name) {
			clone := *tender
			return &clone, nil
		}
	}
	return nil, core.NotFoundf("tender %q not found", name)
}

func (r *tenderRepository) List(ctx context.Context) ([]*core.Tender, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenders := make([]*core.Tender, 0, len(r.tenders))
	for _, tender := range r.tenders {
		clone := *tender
		tenders = append(tenders, &clone)
	}
	sort.Slice(tenders, func(i, j int) bool {
		if tenders[i].TillOrder != tenders[j].TillOrder {
			return tenders[i].TillOrder < tenders[j].TillOrder
		}
		return tenders[i].Name < tenders[j].Name
	})
	return tenders, nil
}

// Tender assignments

func (r *assignmentRepository) Get(ctx context.Context, deviceID string) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ranks, ok := r.assignments[deviceID]
	if !ok {
		return []int{}, nil
	}
	return append([]int(nil), ranks...), nil
}

func (r *assignmentRepository) Set(ctx context.Context, deviceID string, ranks []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[deviceID] = append([]int(nil), ranks...)
	return nil
}

// Staff

func (r *staffRepository) Create(ctx context.Context, staff *core.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if strings.EqualFold(existing.Email, staff.Email) {
			return core.Conflictf("staff with email %s already exists", staff.Email)
		}
	}
	clone := *staff
	r.staff[staff.ID] = &clone
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*core.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, core.NotFoundf("staff %s not found", id)
	}
	clone := *staff
	return &clone, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*core.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, staff := range r.staff {
		if strings.EqualFold(staff.Email, email) {
			clone := *staff
			return &clone, nil
		}
	}
	return nil, core.NotFoundf("staff with email %s not found", email)
}

func (r *staffRepository) List(ctx context.Context) ([]*core.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff := make([]*core.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		clone := *s
		staff = append(staff, &clone)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *core.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.ID]; !ok {
		return core.NotFoundf("staff %s not found", staff.ID)
	}
	clone := *staff
	r.staff[staff.ID] = &clone
	return nil
}

// Customers

func (r *customerRepository) Create(ctx context.Context, customer *core.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*core.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, core.NotFoundf("customer %s not found", id)
	}
	clone := *customer
	return &clone, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*core.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customers := make([]*core.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		clone := *c
		customers = append(customers, &clone)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *core.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return core.NotFoundf("customer %s not found", customer.ID)
	}
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return core.NotFoundf("customer %s not found", id)
	}
	delete(r.customers, id)
	return nil
}

// Expenses

func (r *expenseRepository) Create(ctx context.Context, expense *core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *expense
	r.expenses[expense.ID] = &clone
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*core.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expense, ok := r.expenses[id]
	if !ok {
		return nil, core.NotFoundf("expense %s not found", id)
	}
	clone := *expense
	return &clone, nil
}

func (r *expenseRepository) List(ctx context.Context) ([]*core.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expenses := make([]*core.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		clone := *e
		expenses = append(expenses, &clone)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses, nil
}

func (r *expenseRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*core.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var expenses []*core.Expense
	for _, e := range r.expenses {
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		clone := *e
		expenses = append(expenses, &clone)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.Before(expenses[j].Date) })
	return expenses, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[id]; !ok {
		return core.NotFoundf("expense %s not found", id)
	}
	delete(r.expenses, id)
	return nil
}
