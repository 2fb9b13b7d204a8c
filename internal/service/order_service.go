package service

import (
	"context"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/google/uuid"
)

// OrderService records online purchases and their status changes
type OrderService struct {
	orderRepo core.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo core.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// CreateOrderInput carries the parameters for an online checkout
type CreateOrderInput struct {
	CustomerID      string           `json:"customer_id"`
	ShippingName    string           `json:"shipping_name"`
	ShippingEmail   string           `json:"shipping_email"`
	ShippingPhone   string           `json:"shipping_phone"`
	ShippingAddress string           `json:"shipping_address"`
	ShippingCity    string           `json:"shipping_city"`
	Items           []core.OrderItem `json:"items"`
	Subtotal        float64          `json:"subtotal"`
	ShippingCost    float64          `json:"shipping_cost"`
	PaymentRef      string           `json:"payment_reference"`
}

// Create records a new online order. All shipping fields are required and
// the stored total is always subtotal + shipping cost.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*core.Order, error) {
	required := map[string]string{
		"shipping_name":    input.ShippingName,
		"shipping_email":   input.ShippingEmail,
		"shipping_phone":   input.ShippingPhone,
		"shipping_address": input.ShippingAddress,
		"shipping_city":    input.ShippingCity,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, core.Validationf("%s is required", field)
		}
	}
	if len(input.Items) == 0 {
		return nil, core.Validationf("order requires at least one item")
	}
	if input.Subtotal < 0 || input.ShippingCost < 0 {
		return nil, core.Validationf("order amounts cannot be negative")
	}

	order := &core.Order{
		ID:                uuid.New().String(),
		CustomerID:        strings.TrimSpace(input.CustomerID),
		ShippingName:      strings.TrimSpace(input.ShippingName),
		ShippingEmail:     strings.TrimSpace(input.ShippingEmail),
		ShippingPhone:     strings.TrimSpace(input.ShippingPhone),
		ShippingAddress:   strings.TrimSpace(input.ShippingAddress),
		ShippingCity:      strings.TrimSpace(input.ShippingCity),
		Items:             input.Items,
		Subtotal:          input.Subtotal,
		ShippingCost:      input.ShippingCost,
		Total:             input.Subtotal + input.ShippingCost,
		PaymentRef:        strings.TrimSpace(input.PaymentRef),
		PaymentStatus:     core.PaymentStatusPending,
		FulfillmentStatus: core.FulfillmentStatusPending,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Get returns an order by id.
func (s *OrderService) Get(ctx context.Context, orderID string) (*core.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

// List returns recent orders with an optional fulfillment status filter.
func (s *OrderService) List(ctx context.Context, status string, limit int) ([]*core.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.orderRepo.List(ctx, status, limit)
}

// UpdateFulfillment changes an order's fulfillment status.
func (s *OrderService) UpdateFulfillment(ctx context.Context, orderID string, status core.FulfillmentStatus) error {
	switch status {
	case core.FulfillmentStatusPending, core.FulfillmentStatusProcessing,
		core.FulfillmentStatusShipped, core.FulfillmentStatusDelivered,
		core.FulfillmentStatusCancelled:
	default:
		return core.Validationf("unrecognized fulfillment status %q", status)
	}
	return s.orderRepo.UpdateFulfillmentStatus(ctx, orderID, status)
}

// MarkPaid flags an order as paid.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) error {
	return s.orderRepo.UpdatePaymentStatus(ctx, orderID, core.PaymentStatusPaid)
}
