package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository implements the core repository ports using GORM with the pgx
// driver. One aggregate holds the connection; sub-repositories expose the
// individual ports.
type Repository struct {
	db           *gorm.DB
	tillRepo     *tillRepository
	txRepo       *transactionRepository
	orderRepo    *orderRepository
	tenderRepo   *tenderRepository
	staffRepo    *staffRepository
	customerRepo *customerRepository
	expenseRepo  *expenseRepository
}

type tillRepository struct{ *Repository }
type transactionRepository struct{ *Repository }
type orderRepository struct{ *Repository }
type tenderRepository struct{ *Repository }
type staffRepository struct{ *Repository }
type customerRepository struct{ *Repository }
type expenseRepository struct{ *Repository }

// NewRepository creates a new Postgres repository instance
func NewRepository(dbURL string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}
	repo.tillRepo = &tillRepository{Repository: repo}
	repo.txRepo = &transactionRepository{Repository: repo}
	repo.orderRepo = &orderRepository{Repository: repo}
	repo.tenderRepo = &tenderRepository{Repository: repo}
	repo.staffRepo = &staffRepository{Repository: repo}
	repo.customerRepo = &customerRepository{Repository: repo}
	repo.expenseRepo = &expenseRepository{Repository: repo}
	return repo, nil
}

// TillRepository returns the TillRepository implementation
func (r *Repository) TillRepository() core.TillRepository { return r.tillRepo }

// TransactionRepository returns the TransactionRepository implementation
func (r *Repository) TransactionRepository() core.TransactionRepository { return r.txRepo }

// OrderRepository returns the OrderRepository implementation
func (r *Repository) OrderRepository() core.OrderRepository { return r.orderRepo }

// TenderRepository returns the TenderRepository implementation
func (r *Repository) TenderRepository() core.TenderRepository { return r.tenderRepo }

// StaffRepository returns the StaffRepository implementation
func (r *Repository) StaffRepository() core.StaffRepository { return r.staffRepo }

// CustomerRepository returns the CustomerRepository implementation
func (r *Repository) CustomerRepository() core.CustomerRepository { return r.customerRepo }

// ExpenseRepository returns the ExpenseRepository implementation
func (r *Repository) ExpenseRepository() core.ExpenseRepository { return r.expenseRepo }

// TillRepository implementation

// Create inserts a new till session.
func (r *tillRepository) Create(ctx context.Context, till *core.Till) error {
	model := TillModelFromDomain(till)
	if err := r.db.WithContext(ctx).Table("tills").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.Conflictf("an open till already exists for this staff and location")
		}
		return core.Internalf(err, "failed to create till")
	}
	return nil
}

// GetByID retrieves a till by its ID
func (r *tillRepository) GetByID(ctx context.Context, id string) (*core.Till, error) {
	var model TillModel
	if err := r.db.WithContext(ctx).Table("tills").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("till %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get till")
	}
	return model.ToDomain(), nil
}

// FindOpen returns the OPEN till for a (location, staff) pair, or nil.
func (r *tillRepository) FindOpen(ctx context.Context, locationID, staffID string) (*core.Till, error) {
	var model TillModel
	err := r.db.WithContext(ctx).Table("tills").
		Where("location_id = ? AND staff_id = ? AND status = ?", locationID, staffID, string(core.TillStatusOpen)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, core.Internalf(err, "failed to find open till")
	}
	return model.ToDomain(), nil
}

// TransitionStatus applies a conditional status update. The WHERE clause
// carries both the id and the expected statuses so concurrent transitions
// cannot double-apply.
func (r *tillRepository) TransitionStatus(ctx context.Context, id string, from []core.TillStatus, to core.TillStatus) (*core.Till, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	result := r.db.WithContext(ctx).Table("tills").
		Where("id = ? AND status IN ?", id, expected).
		Update("status", string(to))
	if result.Error != nil {
		return nil, core.Internalf(result.Error, "failed to update till status")
	}
	if result.RowsAffected == 0 {
		return nil, r.explainTillTransitionFailure(ctx, id, from)
	}

	return r.GetByID(ctx, id)
}

// Close stamps the closing balance and close time in the same conditional
// write that moves the till to CLOSED.
func (r *tillRepository) Close(ctx context.Context, id string, closingBalance float64, closedAt time.Time) (*core.Till, error) {
	open := []core.TillStatus{core.TillStatusOpen, core.TillStatusSuspended}

	result := r.db.WithContext(ctx).Table("tills").
		Where("id = ? AND status IN ?", id, []string{string(core.TillStatusOpen), string(core.TillStatusSuspended)}).
		Updates(map[string]interface{}{
			"status":          string(core.TillStatusClosed),
			"closing_balance": closingBalance,
			"closed_at":       closedAt,
		})
	if result.Error != nil {
		return nil, core.Internalf(result.Error, "failed to close till")
	}
	if result.RowsAffected == 0 {
		return nil, r.explainTillTransitionFailure(ctx, id, open)
	}

	return r.GetByID(ctx, id)
}

// explainTillTransitionFailure distinguishes a missing till from one in the
// wrong state after a conditional update touched zero rows.
func (r *tillRepository) explainTillTransitionFailure(ctx context.Context, id string, expected []core.TillStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return core.InvalidStatef("till %s is %s, expected one of %v", id, current.Status, expected)
}

// TransactionRepository implementation

// Create inserts a transaction with its line items in one database transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *core.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		model := TransactionModelFromDomain(tx)
		if err := dbtx.Table("transactions").Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return core.Conflictf("order already reconciled")
			}
			return core.Internalf(err, "failed to create transaction")
		}

		for i, item := range tx.Items {
			itemModel := TransactionItemModelFromDomain(&item)
			itemModel.TransactionID = tx.ID
			itemModel.Position = i
			if err := dbtx.Table("transaction_items").Create(itemModel).Error; err != nil {
				return core.Internalf(err, "failed to create transaction item")
			}
		}

		return nil
	})
}

// GetByID retrieves a transaction with its items
func (r *transactionRepository) GetByID(ctx context.Context, id string) (*core.Transaction, error) {
	var model TransactionModel
	if err := r.db.WithContext(ctx).Table("transactions").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("transaction %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get transaction")
	}

	tx := model.ToDomain()
	items, err := r.fetchItems(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.Items = items
	return tx, nil
}

func (r *transactionRepository) fetchItems(ctx context.Context, transactionID string) ([]core.TransactionItem, error) {
	var itemModels []TransactionItemModel
	if err := r.db.WithContext(ctx).Table("transaction_items").
		Where("transaction_id = ?", transactionID).
		Order("position").
		Find(&itemModels).Error; err != nil {
		return nil, core.Internalf(err, "failed to get transaction items")
	}

	items := make([]core.TransactionItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = *im.ToDomain()
	}
	return items, nil
}

// List retrieves recent transactions with an optional status filter
func (r *transactionRepository) List(ctx context.Context, status string, limit int) ([]*core.Transaction, error) {
	query := r.db.WithContext(ctx).Table("transactions").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []TransactionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list transactions")
	}

	txs := make([]*core.Transaction, len(models))
	for i, model := range models {
		tx := model.ToDomain()
		items, err := r.fetchItems(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		tx.Items = items
		txs[i] = tx
	}
	return txs, nil
}

// UpdateStatus conditionally moves a transaction between ledger statuses.
func (r *transactionRepository) UpdateStatus(ctx context.Context, id string, from, to core.TransactionStatus) (*core.Transaction, error) {
	result := r.db.WithContext(ctx).Table("transactions").
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return nil, core.Internalf(result.Error, "failed to update transaction status")
	}
	if result.RowsAffected == 0 {
		return nil, r.explainTransitionFailure(ctx, id, from)
	}

	return r.GetByID(ctx, id)
}

// Refund applies the completed→refunded transition with its metadata in one
// conditional write, so two concurrent refunds cannot both succeed.
func (r *transactionRepository) Refund(ctx context.Context, id, reason, refundBy string, refundedAt time.Time) (*core.Transaction, error) {
	result := r.db.WithContext(ctx).Table("transactions").
		Where("id = ? AND status = ?", id, string(core.TransactionStatusCompleted)).
		Updates(map[string]interface{}{
			"status":        string(core.TransactionStatusRefunded),
			"refund_reason": reason,
			"refund_by":     refundBy,
			"refunded_at":   refundedAt,
		})
	if result.Error != nil {
		return nil, core.Internalf(result.Error, "failed to refund transaction")
	}
	if result.RowsAffected == 0 {
		return nil, r.explainTransitionFailure(ctx, id, core.TransactionStatusCompleted)
	}

	return r.GetByID(ctx, id)
}

func (r *transactionRepository) explainTransitionFailure(ctx context.Context, id string, expected core.TransactionStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return core.InvalidStatef("transaction %s is %s, expected %s", id, current.Status, expected)
}

// FindBySourceOrder returns the transaction an order reconciled into, or nil.
func (r *transactionRepository) FindBySourceOrder(ctx context.Context, orderID string) (*core.Transaction, error) {
	var model TransactionModel
	err := r.db.WithContext(ctx).Table("transactions").
		Where("source_order_id = ?", orderID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, core.Internalf(err, "failed to find transaction by source order")
	}

	tx := model.ToDomain()
	items, err := r.fetchItems(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	tx.Items = items
	return tx, nil
}

// OrderRepository implementation

// Create inserts an order with its items in one database transaction.
func (r *orderRepository) Create(ctx context.Context, order *core.Order) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		model := OrderModelFromDomain(order)
		if err := dbtx.Table("orders").Create(model).Error; err != nil {
			return core.Internalf(err, "failed to create order")
		}

		for i, item := range order.Items {
			itemModel := OrderItemModelFromDomain(&item)
			itemModel.OrderID = order.ID
			itemModel.Position = i
			if err := dbtx.Table("order_items").Create(itemModel).Error; err != nil {
				return core.Internalf(err, "failed to create order item")
			}
		}

		return nil
	})
}

// GetByID retrieves an order with its items
func (r *orderRepository) GetByID(ctx context.Context, id string) (*core.Order, error) {
	var model OrderModel
	if err := r.db.WithContext(ctx).Table("orders").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("order %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get order")
	}

	order := model.ToDomain()
	items, err := r.fetchOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) fetchOrderItems(ctx context.Context, orderID string) ([]core.OrderItem, error) {
	var itemModels []OrderItemModel
	if err := r.db.WithContext(ctx).Table("order_items").
		Where("order_id = ?", orderID).
		Order("position").
		Find(&itemModels).Error; err != nil {
		return nil, core.Internalf(err, "failed to get order items")
	}

	items := make([]core.OrderItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = *im.ToDomain()
	}
	return items, nil
}

// List retrieves recent orders with an optional fulfillment status filter
func (r *orderRepository) List(ctx context.Context, status string, limit int) ([]*core.Order, error) {
	query := r.db.WithContext(ctx).Table("orders").Order("created_at DESC")
	if status != "" {
		query = query.Where("fulfillment_status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []OrderModel
	if err := query.Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list orders")
	}

	orders := make([]*core.Order, len(models))
	for i, model := range models {
		order := model.ToDomain()
		items, err := r.fetchOrderItems(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders[i] = order
	}
	return orders, nil
}

// UpdateFulfillmentStatus updates an order's fulfillment status
func (r *orderRepository) UpdateFulfillmentStatus(ctx context.Context, id string, status core.FulfillmentStatus) error {
	result := r.db.WithContext(ctx).Table("orders").
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"fulfillment_status": string(status),
			"updated_at":         gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to update fulfillment status")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("order %s not found", id)
	}
	return nil
}

// UpdatePaymentStatus updates an order's payment status and paid flag
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id string, status core.PaymentStatus) error {
	result := r.db.WithContext(ctx).Table("orders").
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": string(status),
			"paid":           status == core.PaymentStatusPaid,
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to update payment status")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("order %s not found", id)
	}
	return nil
}

// TenderRepository implementation

// Create inserts a tender. The name column is unique.
func (r *tenderRepository) Create(ctx context.Context, tender *core.Tender) error {
	model := TenderModelFromDomain(tender)
	if err := r.db.WithContext(ctx).Table("tenders").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.Conflictf("tender %q already exists", tender.Name)
		}
		return core.Internalf(err, "failed to create tender")
	}
	return nil
}

// GetByName retrieves a tender by its unique name
func (r *tenderRepository) GetByName(ctx context.Context, name string) (*core.Tender, error) {
	var model TenderModel
	if err := r.db.WithContext(ctx).Table("tenders").Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("tender %q not found", name)
		}
		return nil, core.Internalf(err, "failed to get tender")
	}
	return model.ToDomain(), nil
}

// List retrieves all tenders ordered ascending by till order
func (r *tenderRepository) List(ctx context.Context) ([]*core.Tender, error) {
	var models []TenderModel
	if err := r.db.WithContext(ctx).Table("tenders").
		Order("till_order, name").
		Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list tenders")
	}

	tenders := make([]*core.Tender, len(models))
	for i, model := range models {
		tenders[i] = model.ToDomain()
	}
	return tenders, nil
}

// StaffRepository implementation

// Create inserts a staff record. The email column is unique.
func (r *staffRepository) Create(ctx context.Context, staff *core.Staff) error {
	model := StaffModelFromDomain(staff)
	if err := r.db.WithContext(ctx).Table("staff").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.Conflictf("staff with email %s already exists", staff.Email)
		}
		return core.Internalf(err, "failed to create staff")
	}
	return nil
}

// GetByID retrieves a staff member by id
func (r *staffRepository) GetByID(ctx context.Context, id string) (*core.Staff, error) {
	var model StaffModel
	if err := r.db.WithContext(ctx).Table("staff").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("staff %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get staff")
	}
	return model.ToDomain(), nil
}

// GetByEmail retrieves a staff member by email
func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*core.Staff, error) {
	var model StaffModel
	if err := r.db.WithContext(ctx).Table("staff").Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("staff with email %s not found", email)
		}
		return nil, core.Internalf(err, "failed to get staff by email")
	}
	return model.ToDomain(), nil
}

// List retrieves all staff records
func (r *staffRepository) List(ctx context.Context) ([]*core.Staff, error) {
	var models []StaffModel
	if err := r.db.WithContext(ctx).Table("staff").Order("name").Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list staff")
	}

	staff := make([]*core.Staff, len(models))
	for i, model := range models {
		staff[i] = model.ToDomain()
	}
	return staff, nil
}

// Update stores changed staff fields
func (r *staffRepository) Update(ctx context.Context, staff *core.Staff) error {
	model := StaffModelFromDomain(staff)
	result := r.db.WithContext(ctx).Table("staff").Where("id = ?", staff.ID).Updates(model)
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to update staff")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("staff %s not found", staff.ID)
	}
	return nil
}

// CustomerRepository implementation

// Create inserts a customer record
func (r *customerRepository) Create(ctx context.Context, customer *core.Customer) error {
	model := CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Table("customers").Create(model).Error; err != nil {
		return core.Internalf(err, "failed to create customer")
	}
	return nil
}

// GetByID retrieves a customer by id
func (r *customerRepository) GetByID(ctx context.Context, id string) (*core.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).Table("customers").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("customer %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get customer")
	}
	return model.ToDomain(), nil
}

// List retrieves all customer records
func (r *customerRepository) List(ctx context.Context) ([]*core.Customer, error) {
	var models []CustomerModel
	if err := r.db.WithContext(ctx).Table("customers").Order("name").Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list customers")
	}

	customers := make([]*core.Customer, len(models))
	for i, model := range models {
		customers[i] = model.ToDomain()
	}
	return customers, nil
}

// Update stores changed customer fields
func (r *customerRepository) Update(ctx context.Context, customer *core.Customer) error {
	model := CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).Table("customers").Where("id = ?", customer.ID).Updates(model)
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to update customer")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("customer %s not found", customer.ID)
	}
	return nil
}

// Delete removes a customer record
func (r *customerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Table("customers").Where("id = ?", id).Delete(&CustomerModel{})
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to delete customer")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("customer %s not found", id)
	}
	return nil
}

// ExpenseRepository implementation

// Create inserts an expense entry
func (r *expenseRepository) Create(ctx context.Context, expense *core.Expense) error {
	model := ExpenseModelFromDomain(expense)
	if err := r.db.WithContext(ctx).Table("expenses").Create(model).Error; err != nil {
		return core.Internalf(err, "failed to create expense")
	}
	return nil
}

// GetByID retrieves an expense by id
func (r *expenseRepository) GetByID(ctx context.Context, id string) (*core.Expense, error) {
	var model ExpenseModel
	if err := r.db.WithContext(ctx).Table("expenses").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFoundf("expense %s not found", id)
		}
		return nil, core.Internalf(err, "failed to get expense")
	}
	return model.ToDomain(), nil
}

// List retrieves all expense entries, most recent first
func (r *expenseRepository) List(ctx context.Context) ([]*core.Expense, error) {
	var models []ExpenseModel
	if err := r.db.WithContext(ctx).Table("expenses").Order("date DESC").Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list expenses")
	}

	expenses := make([]*core.Expense, len(models))
	for i, model := range models {
		expenses[i] = model.ToDomain()
	}
	return expenses, nil
}

// ListByDateRange retrieves expenses with date in [from, to), oldest first
func (r *expenseRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*core.Expense, error) {
	var models []ExpenseModel
	if err := r.db.WithContext(ctx).Table("expenses").
		Where("date >= ? AND date < ?", from, to).
		Order("date").
		Find(&models).Error; err != nil {
		return nil, core.Internalf(err, "failed to list expenses by date range")
	}

	expenses := make([]*core.Expense, len(models))
	for i, model := range models {
		expenses[i] = model.ToDomain()
	}
	return expenses, nil
}

// Delete removes an expense entry
func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Table("expenses").Where("id = ?", id).Delete(&ExpenseModel{})
	if result.Error != nil {
		return core.Internalf(result.Error, "failed to delete expense")
	}
	if result.RowsAffected == 0 {
		return core.NotFoundf("expense %s not found", id)
	}
	return nil
}

// Database Models (with GORM tags)

// TillModel represents the tills table structure
type TillModel struct {
	ID             string          `gorm:"column:id;type:uuid;primaryKey"`
	StoreID        string          `gorm:"column:store_id;type:varchar(100);not null"`
	LocationID     string          `gorm:"column:location_id;type:varchar(100);not null;index"`
	StaffID        string          `gorm:"column:staff_id;type:uuid;not null;index"`
	StaffName      string          `gorm:"column:staff_name;type:varchar(255);not null"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;index"`
	OpeningBalance float64         `gorm:"column:opening_balance;type:decimal(12,2);not null"`
	ClosingBalance sql.NullFloat64 `gorm:"column:closing_balance;type:decimal(12,2)"`
	Device         string          `gorm:"column:device;type:varchar(100)"`
	Notes          string          `gorm:"column:notes;type:text"`
	OpenedAt       time.Time       `gorm:"column:opened_at;type:timestamp;not null"`
	ClosedAt       sql.NullTime    `gorm:"column:closed_at;type:timestamp"`
}

func (TillModel) TableName() string { return "tills" }

// TillModelFromDomain converts a core.Till to its database model
func TillModelFromDomain(till *core.Till) *TillModel {
	model := &TillModel{
		ID:             till.ID,
		StoreID:        till.StoreID,
		LocationID:     till.LocationID,
		StaffID:        till.StaffID,
		StaffName:      till.StaffName,
		Status:         string(till.Status),
		OpeningBalance: till.OpeningBalance,
		Device:         till.Device,
		Notes:          till.Notes,
		OpenedAt:       till.OpenedAt,
	}
	if till.ClosingBalance != nil {
		model.ClosingBalance = sql.NullFloat64{Float64: *till.ClosingBalance, Valid: true}
	}
	if till.ClosedAt != nil {
		model.ClosedAt = sql.NullTime{Time: *till.ClosedAt, Valid: true}
	}
	return model
}

// ToDomain converts TillModel to core.Till
func (m *TillModel) ToDomain() *core.Till {
	till := &core.Till{
		ID:             m.ID,
		StoreID:        m.StoreID,
		LocationID:     m.LocationID,
		StaffID:        m.StaffID,
		StaffName:      m.StaffName,
		Status:         core.TillStatus(m.Status),
		OpeningBalance: m.OpeningBalance,
		Device:         m.Device,
		Notes:          m.Notes,
		OpenedAt:       m.OpenedAt,
	}
	if m.ClosingBalance.Valid {
		value := m.ClosingBalance.Float64
		till.ClosingBalance = &value
	}
	if m.ClosedAt.Valid {
		value := m.ClosedAt.Time
		till.ClosedAt = &value
	}
	return till
}

// TransactionModel represents the transactions table structure
type TransactionModel struct {
	ID             string          `gorm:"column:id;type:uuid;primaryKey"`
	TenderType     string          `gorm:"column:tender_type;type:varchar(100);not null"`
	AmountPaid     float64         `gorm:"column:amount_paid;type:decimal(12,2);not null"`
	Total          float64         `gorm:"column:total;type:decimal(12,2);not null"`
	ChangeDue      float64         `gorm:"column:change_due;type:decimal(12,2);not null;default:0"`
	Discount       float64         `gorm:"column:discount;type:decimal(12,2);not null;default:0"`
	DiscountReason sql.NullString  `gorm:"column:discount_reason;type:text"`
	StaffID        sql.NullString  `gorm:"column:staff_id;type:uuid"`
	StaffName      sql.NullString  `gorm:"column:staff_name;type:varchar(255)"`
	Channel        string          `gorm:"column:channel;type:varchar(10);not null"`
	Location       string          `gorm:"column:location;type:varchar(100);not null"`
	Device         string          `gorm:"column:device;type:varchar(100)"`
	TableLabel     sql.NullString  `gorm:"column:table_label;type:varchar(100)"`
	CustomerName   sql.NullString  `gorm:"column:customer_name;type:varchar(255)"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;index"`
	RefundReason   sql.NullString  `gorm:"column:refund_reason;type:text"`
	RefundBy       sql.NullString  `gorm:"column:refund_by;type:varchar(255)"`
	RefundedAt     sql.NullTime    `gorm:"column:refunded_at;type:timestamp"`
	SourceOrderID  sql.NullString  `gorm:"column:source_order_id;type:uuid;uniqueIndex"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamp;not null"`
}

func (TransactionModel) TableName() string { return "transactions" }

// TransactionModelFromDomain converts a core.Transaction to its database model
func TransactionModelFromDomain(tx *core.Transaction) *TransactionModel {
	model := &TransactionModel{
		ID:         tx.ID,
		TenderType: tx.TenderType,
		AmountPaid: tx.AmountPaid,
		Total:      tx.Total,
		ChangeDue:  tx.ChangeDue,
		Discount:   tx.Discount,
		Channel:    string(tx.Channel),
		Location:   tx.Location,
		Device:     tx.Device,
		Status:     string(tx.Status),
		CreatedAt:  tx.CreatedAt,
	}
	if tx.DiscountReason != "" {
		model.DiscountReason = sql.NullString{String: tx.DiscountReason, Valid: true}
	}
	if tx.StaffID != nil {
		model.StaffID = sql.NullString{String: *tx.StaffID, Valid: true}
	}
	if tx.StaffName != "" {
		model.StaffName = sql.NullString{String: tx.StaffName, Valid: true}
	}
	if tx.TableLabel != "" {
		model.TableLabel = sql.NullString{String: tx.TableLabel, Valid: true}
	}
	if tx.CustomerName != "" {
		model.CustomerName = sql.NullString{String: tx.CustomerName, Valid: true}
	}
	if tx.RefundReason != "" {
		model.RefundReason = sql.NullString{String: tx.RefundReason, Valid: true}
	}
	if tx.RefundBy != "" {
		model.RefundBy = sql.NullString{String: tx.RefundBy, Valid: true}
	}
	if tx.RefundedAt != nil {
		model.RefundedAt = sql.NullTime{Time: *tx.RefundedAt, Valid: true}
	}
	if tx.SourceOrderID != nil {
		model.SourceOrderID = sql.NullString{String: *tx.SourceOrderID, Valid: true}
	}
	return model
}

// ToDomain converts TransactionModel to core.Transaction
func (m *TransactionModel) ToDomain() *core.Transaction {
	tx := &core.Transaction{
		ID:         m.ID,
		TenderType: m.TenderType,
		AmountPaid: m.AmountPaid,
		Total:      m.Total,
		ChangeDue:  m.ChangeDue,
		Discount:   m.Discount,
		Channel:    core.Channel(m.Channel),
		Location:   m.Location,
		Device:     m.Device,
		Status:     core.TransactionStatus(m.Status),
		CreatedAt:  m.CreatedAt,
	}
	if m.DiscountReason.Valid {
		tx.DiscountReason = m.DiscountReason.String
	}
	if m.StaffID.Valid {
		value := m.StaffID.String
		tx.StaffID = &value
	}
	if m.StaffName.Valid {
		tx.StaffName = m.StaffName.String
	}
	if m.TableLabel.Valid {
		tx.TableLabel = m.TableLabel.String
	}
	if m.CustomerName.Valid {
		tx.CustomerName = m.CustomerName.String
	}
	if m.RefundReason.Valid {
		tx.RefundReason = m.RefundReason.String
	}
	if m.RefundBy.Valid {
		tx.RefundBy = m.RefundBy.String
	}
	if m.RefundedAt.Valid {
		value := m.RefundedAt.Time
		tx.RefundedAt = &value
	}
	if m.SourceOrderID.Valid {
		value := m.SourceOrderID.String
		tx.SourceOrderID = &value
	}
	return tx
}

// TransactionItemModel represents the transaction_items table structure
type TransactionItemModel struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID string  `gorm:"column:transaction_id;type:uuid;not null;index"`
	Position      int     `gorm:"column:position;not null"`
	ProductID     string  `gorm:"column:product_id;type:varchar(100);not null"`
	Name          string  `gorm:"column:name;type:varchar(255);not null"`
	UnitPrice     float64 `gorm:"column:unit_price;type:decimal(12,2);not null"`
	Qty           int     `gorm:"column:qty;not null"`
}

func (TransactionItemModel) TableName() string { return "transaction_items" }

// TransactionItemModelFromDomain converts a core.TransactionItem to its database model
func TransactionItemModelFromDomain(item *core.TransactionItem) *TransactionItemModel {
	return &TransactionItemModel{
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Qty:       item.Qty,
	}
}

// ToDomain converts TransactionItemModel to core.TransactionItem
func (m *TransactionItemModel) ToDomain() *core.TransactionItem {
	return &core.TransactionItem{
		ProductID: m.ProductID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		Qty:       m.Qty,
	}
}

// OrderModel represents the orders table structure
type OrderModel struct {
	ID                string    `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID        string    `gorm:"column:customer_id;type:varchar(100)"`
	ShippingName      string    `gorm:"column:shipping_name;type:varchar(255);not null"`
	ShippingEmail     string    `gorm:"column:shipping_email;type:varchar(255);not null"`
	ShippingPhone     string    `gorm:"column:shipping_phone;type:varchar(50);not null"`
	ShippingAddress   string    `gorm:"column:shipping_address;type:text;not null"`
	ShippingCity      string    `gorm:"column:shipping_city;type:varchar(100);not null"`
	Subtotal          float64   `gorm:"column:subtotal;type:decimal(12,2);not null"`
	ShippingCost      float64   `gorm:"column:shipping_cost;type:decimal(12,2);not null;default:0"`
	Total             float64   `gorm:"column:total;type:decimal(12,2);not null"`
	PaymentRef        string    `gorm:"column:payment_reference;type:varchar(255)"`
	PaymentStatus     string    `gorm:"column:payment_status;type:varchar(20);not null;default:'Pending';index"`
	FulfillmentStatus string    `gorm:"column:fulfillment_status;type:varchar(20);not null;default:'Pending';index"`
	Paid              bool      `gorm:"column:paid;not null;default:false"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;not null"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderModelFromDomain converts a core.Order to its database model
func OrderModelFromDomain(order *core.Order) *OrderModel {
	return &OrderModel{
		ID:                order.ID,
		CustomerID:        order.CustomerID,
		ShippingName:      order.ShippingName,
		ShippingEmail:     order.ShippingEmail,
		ShippingPhone:     order.ShippingPhone,
		ShippingAddress:   order.ShippingAddress,
		ShippingCity:      order.ShippingCity,
		Subtotal:          order.Subtotal,
		ShippingCost:      order.ShippingCost,
		Total:             order.Total,
		PaymentRef:        order.PaymentRef,
		PaymentStatus:     string(order.PaymentStatus),
		FulfillmentStatus: string(order.FulfillmentStatus),
		Paid:              order.Paid,
		CreatedAt:         order.CreatedAt,
	}
}

// ToDomain converts OrderModel to core.Order
func (m *OrderModel) ToDomain() *core.Order {
	return &core.Order{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		ShippingName:      m.ShippingName,
		ShippingEmail:     m.ShippingEmail,
		ShippingPhone:     m.ShippingPhone,
		ShippingAddress:   m.ShippingAddress,
		ShippingCity:      m.ShippingCity,
		Subtotal:          m.Subtotal,
		ShippingCost:      m.ShippingCost,
		Total:             m.Total,
		PaymentRef:        m.PaymentRef,
		PaymentStatus:     core.PaymentStatus(m.PaymentStatus),
		FulfillmentStatus: core.FulfillmentStatus(m.FulfillmentStatus),
		Paid:              m.Paid,
		CreatedAt:         m.CreatedAt,
	}
}

// OrderItemModel represents the order_items table structure
type OrderItemModel struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     string         `gorm:"column:order_id;type:uuid;not null;index"`
	Position    int            `gorm:"column:position;not null"`
	ProductID   string         `gorm:"column:product_id;type:varchar(100);not null"`
	Name        string         `gorm:"column:name;type:varchar(255);not null"`
	Price       float64        `gorm:"column:price;type:decimal(12,2);not null"`
	Quantity    int            `gorm:"column:quantity;not null"`
	Category    sql.NullString `gorm:"column:category;type:varchar(100)"`
	Description sql.NullString `gorm:"column:description;type:text"`
	Images      sql.NullString `gorm:"column:images;type:text"` // Comma-separated URLs
}

func (OrderItemModel) TableName() string { return "order_items" }

// OrderItemModelFromDomain converts a core.OrderItem to its database model
func OrderItemModelFromDomain(item *core.OrderItem) *OrderItemModel {
	model := &OrderItemModel{
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		Quantity:  item.Quantity,
	}
	if item.Category != "" {
		model.Category = sql.NullString{String: item.Category, Valid: true}
	}
	if item.Description != "" {
		model.Description = sql.NullString{String: item.Description, Valid: true}
	}
	if len(item.Images) > 0 {
		model.Images = sql.NullString{String: joinImages(item.Images), Valid: true}
	}
	return model
}

// ToDomain converts OrderItemModel to core.OrderItem
func (m *OrderItemModel) ToDomain() *core.OrderItem {
	item := &core.OrderItem{
		ProductID: m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Quantity:  m.Quantity,
	}
	if m.Category.Valid {
		item.Category = m.Category.String
	}
	if m.Description.Valid {
		item.Description = m.Description.String
	}
	if m.Images.Valid {
		item.Images = splitImages(m.Images.String)
	}
	return item
}

// TenderModel represents the tenders table structure
type TenderModel struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey"`
	Name           string         `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	Description    sql.NullString `gorm:"column:description;type:text"`
	Color          sql.NullString `gorm:"column:color;type:varchar(20)"`
	TillOrder      int            `gorm:"column:till_order;not null;default:0"`
	Classification sql.NullString `gorm:"column:classification;type:varchar(50)"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamp;not null"`
}

func (TenderModel) TableName() string { return "tenders" }

// TenderModelFromDomain converts a core.Tender to its database model
func TenderModelFromDomain(tender *core.Tender) *TenderModel {
	model := &TenderModel{
		ID:        tender.ID,
		Name:      tender.Name,
		TillOrder: tender.TillOrder,
		CreatedAt: tender.CreatedAt,
	}
	if tender.Description != "" {
		model.Description = sql.NullString{String: tender.Description, Valid: true}
	}
	if tender.Color != "" {
		model.Color = sql.NullString{String: tender.Color, Valid: true}
	}
	if tender.Classification != "" {
		model.Classification = sql.NullString{String: tender.Classification, Valid: true}
	}
	return model
}

// ToDomain converts TenderModel to core.Tender
func (m *TenderModel) ToDomain() *core.Tender {
	tender := &core.Tender{
		ID:        m.ID,
		Name:      m.Name,
		TillOrder: m.TillOrder,
		CreatedAt: m.CreatedAt,
	}
	if m.Description.Valid {
		tender.Description = m.Description.String
	}
	if m.Color.Valid {
		tender.Color = m.Color.String
	}
	if m.Classification.Valid {
		tender.Classification = m.Classification.String
	}
	return tender
}

// StaffModel represents the staff table structure
type StaffModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PinHash   string    `gorm:"column:pin_hash;type:varchar(255);not null"`
	Role      string    `gorm:"column:role;type:varchar(20);not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null"`
}

func (StaffModel) TableName() string { return "staff" }

// StaffModelFromDomain converts a core.Staff to its database model
func StaffModelFromDomain(staff *core.Staff) *StaffModel {
	return &StaffModel{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		PinHash:   staff.PinHash,
		Role:      staff.Role,
		IsActive:  staff.IsActive,
		CreatedAt: staff.CreatedAt,
	}
}

// ToDomain converts StaffModel to core.Staff
func (m *StaffModel) ToDomain() *core.Staff {
	return &core.Staff{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		PinHash:   m.PinHash,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// CustomerModel represents the customers table structure
type CustomerModel struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;type:varchar(255);not null"`
	Phone     string         `gorm:"column:phone;type:varchar(50);not null;index"`
	Email     sql.NullString `gorm:"column:email;type:varchar(255)"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;not null"`
}

func (CustomerModel) TableName() string { return "customers" }

// CustomerModelFromDomain converts a core.Customer to its database model
func CustomerModelFromDomain(customer *core.Customer) *CustomerModel {
	model := &CustomerModel{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
	if customer.Email != "" {
		model.Email = sql.NullString{String: customer.Email, Valid: true}
	}
	return model
}

// ToDomain converts CustomerModel to core.Customer
func (m *CustomerModel) ToDomain() *core.Customer {
	customer := &core.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
	}
	if m.Email.Valid {
		customer.Email = m.Email.String
	}
	return customer
}

// ExpenseModel represents the expenses table structure
type ExpenseModel struct {
	ID          string         `gorm:"column:id;type:uuid;primaryKey"`
	Title       string         `gorm:"column:title;type:varchar(255);not null"`
	Amount      float64        `gorm:"column:amount;type:decimal(12,2);not null"`
	Category    string         `gorm:"column:category;type:varchar(100);not null"`
	Date        time.Time      `gorm:"column:date;type:timestamp;not null;index"`
	Description sql.NullString `gorm:"column:description;type:text"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;not null"`
}

func (ExpenseModel) TableName() string { return "expenses" }

// ExpenseModelFromDomain converts a core.Expense to its database model
func ExpenseModelFromDomain(expense *core.Expense) *ExpenseModel {
	model := &ExpenseModel{
		ID:        expense.ID,
		Title:     expense.Title,
		Amount:    expense.Amount,
		Category:  expense.Category,
		Date:      expense.Date,
		CreatedAt: expense.CreatedAt,
	}
	if expense.Description != "" {
		model.Description = sql.NullString{String: expense.Description, Valid: true}
	}
	return model
}

// ToDomain converts ExpenseModel to core.Expense
func (m *ExpenseModel) ToDomain() *core.Expense {
	expense := &core.Expense{
		ID:        m.ID,
		Title:     m.Title,
		Amount:    m.Amount,
		Category:  m.Category,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
	}
	if m.Description.Valid {
		expense.Description = m.Description.String
	}
	return expense
}

func joinImages(images []string) string { return strings.Join(images, ",") }

func splitImages(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
