package core

import "time"

// TillStatus represents the state of a cash-drawer session
type TillStatus string

const (
	TillStatusOpen      TillStatus = "OPEN"
	TillStatusClosed    TillStatus = "CLOSED"
	TillStatusSuspended TillStatus = "SUSPENDED"
)

// Till represents one cash-drawer session opened by a staff member at a location
type Till struct {
	ID             string     `json:"id"`
	StoreID        string     `json:"store_id"`
	LocationID     string     `json:"location_id"`
	StaffID        string     `json:"staff_id"`
	StaffName      string     `json:"staff_name"` // Denormalized for display
	Status         TillStatus `json:"status"`
	OpeningBalance float64    `json:"opening_balance"`
	ClosingBalance *float64   `json:"closing_balance,omitempty"` // Set only at close
	Device         string     `json:"device"`
	Notes          string     `json:"notes"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// TransactionStatus represents the state of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusHeld      TransactionStatus = "held"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// ValidTransactionStatus reports whether s is a recognized ledger status.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusHeld, TransactionStatusCompleted, TransactionStatusRefunded:
		return true
	}
	return false
}

// Channel identifies where a sale originated
type Channel string

const (
	ChannelPOS    Channel = "pos"
	ChannelOnline Channel = "online"
)

// Transaction represents one completed/held/refunded sale, rung up at a till
// or projected from an online order by reconciliation.
type Transaction struct {
	ID             string            `json:"id"`
	TenderType     string            `json:"tender_type"`
	AmountPaid     float64           `json:"amount_paid"`
	Total          float64           `json:"total"`
	ChangeDue      float64           `json:"change_due"`
	Discount       float64           `json:"discount"`
	DiscountReason string            `json:"discount_reason,omitempty"`
	StaffID        *string           `json:"staff_id,omitempty"` // Nil for online-channel sales
	StaffName      string            `json:"staff_name,omitempty"`
	Channel        Channel           `json:"channel"`
	Location       string            `json:"location"`
	Device         string            `json:"device"`
	TableLabel     string            `json:"table_label,omitempty"`
	CustomerName   string            `json:"customer_name,omitempty"`
	Status         TransactionStatus `json:"status"`
	RefundReason   string            `json:"refund_reason,omitempty"`
	RefundBy       string            `json:"refund_by,omitempty"`
	RefundedAt     *time.Time        `json:"refunded_at,omitempty"`
	SourceOrderID  *string           `json:"source_order_id,omitempty"` // Set only by reconciliation
	Items          []TransactionItem `json:"items"`
	CreatedAt      time.Time         `json:"created_at"`
}

// TransactionItem is a single sale line. UnitPrice and Qty are the canonical
// fields; the legacy salePriceIncTax/quantity aliases are produced by the
// HTTP serialization layer, not stored twice.
type TransactionItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Qty       int     `json:"qty"`
}

// PaymentStatus represents the payment state of an online order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// FulfillmentStatus represents the fulfillment state of an online order
type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "Pending"
	FulfillmentStatusProcessing FulfillmentStatus = "Processing"
	FulfillmentStatusShipped    FulfillmentStatus = "Shipped"
	FulfillmentStatusDelivered  FulfillmentStatus = "Delivered"
	FulfillmentStatusCancelled  FulfillmentStatus = "Cancelled"
)

// Order represents an online customer purchase
type Order struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	ShippingName      string            `json:"shipping_name"`
	ShippingEmail     string            `json:"shipping_email"`
	ShippingPhone     string            `json:"shipping_phone"`
	ShippingAddress   string            `json:"shipping_address"`
	ShippingCity      string            `json:"shipping_city"`
	Items             []OrderItem       `json:"items"`
	Subtotal          float64           `json:"subtotal"`
	ShippingCost      float64           `json:"shipping_cost"`
	Total             float64           `json:"total"`
	PaymentRef        string            `json:"payment_reference,omitempty"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	Paid              bool              `json:"paid"`
	CreatedAt         time.Time         `json:"created_at"`
}

// OrderItem represents a single item in an online order
type OrderItem struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Tender is a named payment method available at checkout
type Tender struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Color          string    `json:"color,omitempty"`
	TillOrder      int       `json:"till_order"` // Button layout rank on the till UI
	Classification string    `json:"classification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Staff represents an employee able to operate a till
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PinHash   string    `json:"-"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// StaffRole values recognized by the auth middleware
const (
	StaffRoleAdmin   = "ADMIN"
	StaffRoleManager = "MANAGER"
	StaffRoleCashier = "CASHIER"
)

// Customer represents a customer record
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Expense represents a bookkeeping expense entry
type Expense struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseReport aggregates expenses for PDF rendering
type ExpenseReport struct {
	Title       string    `json:"title"`
	DateLabel   string    `json:"date_label"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	GeneratedAt time.Time `json:"generated_at"`
	GrandTotal  float64   `json:"grand_total"`
	Expenses    []Expense `json:"expenses"`
}
