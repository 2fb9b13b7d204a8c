package service

import (
	"context"
	"testing"

	"github.com/dumu-tech/duka-pos/internal/adapters/memory"
	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/google/uuid"
)

func newReconciliationFixture(t *testing.T) (*ReconciliationService, *OrderService) {
	t.Helper()
	repo := memory.NewRepository()
	orderSvc := NewOrderService(repo.OrderRepository())
	reconcilSvc := NewReconciliationService(repo.OrderRepository(), repo.TransactionRepository(), events.NewEventBus())
	return reconcilSvc, orderSvc
}

func placeOrder(t *testing.T, orderSvc *OrderService, items []core.OrderItem, subtotal float64) *core.Order {
	t.Helper()
	order, err := orderSvc.Create(context.Background(), CreateOrderInput{
		ShippingName:    "Wanjiku Kamau",
		ShippingEmail:   "wanjiku@example.com",
		ShippingPhone:   "+254700000001",
		ShippingAddress: "Moi Avenue 12",
		ShippingCity:    "Nairobi",
		Items:           items,
		Subtotal:        subtotal,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

func TestReconcileOrderRoundTrip(t *testing.T) {
	reconcilSvc, orderSvc := newReconciliationFixture(t)
	ctx := context.Background()

	order := placeOrder(t, orderSvc, []core.OrderItem{
		{ProductID: "sku-9", Name: "Ceramic Mug", Price: 2500, Quantity: 3},
	}, 7500)

	tx, err := reconcilSvc.ReconcileOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if tx.Status != core.TransactionStatusCompleted {
		t.Fatalf("expected completed, got %s", tx.Status)
	}
	if tx.Total != 7500 || tx.AmountPaid != 7500 {
		t.Fatalf("expected total 7500, got total=%v paid=%v", tx.Total, tx.AmountPaid)
	}
	if tx.Channel != core.ChannelOnline {
		t.Fatalf("expected online channel, got %s", tx.Channel)
	}
	if tx.StaffID != nil {
		t.Fatalf("online sales carry no acting staff, got %v", *tx.StaffID)
	}
	if tx.TenderType != "online" || tx.Location != "online" || tx.Device != "WEB" {
		t.Fatalf("unexpected online labels: tender=%s location=%s device=%s", tx.TenderType, tx.Location, tx.Device)
	}
	if tx.SourceOrderID == nil || *tx.SourceOrderID != order.ID {
		t.Fatalf("expected source order id %s, got %v", order.ID, tx.SourceOrderID)
	}

	// Order line prices and quantities survive the field mapping
	if len(tx.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(tx.Items))
	}
	if tx.Items[0].UnitPrice != 2500 || tx.Items[0].Qty != 3 {
		t.Fatalf("expected unit_price=2500 qty=3, got %v/%v", tx.Items[0].UnitPrice, tx.Items[0].Qty)
	}
}

func TestReconcileOrderTwiceConflicts(t *testing.T) {
	reconcilSvc, orderSvc := newReconciliationFixture(t)
	ctx := context.Background()

	order := placeOrder(t, orderSvc, []core.OrderItem{
		{ProductID: "sku-1", Name: "Notebook", Price: 300, Quantity: 2},
	}, 600)

	if _, err := reconcilSvc.ReconcileOrder(ctx, order.ID); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	if _, err := reconcilSvc.ReconcileOrder(ctx, order.ID); !core.IsKind(err, core.ErrKindConflict) {
		t.Fatalf("expected conflict on duplicate reconciliation, got %v", err)
	}
}

func TestReconcileUnknownOrder(t *testing.T) {
	reconcilSvc, _ := newReconciliationFixture(t)

	_, err := reconcilSvc.ReconcileOrder(context.Background(), uuid.New().String())
	if !core.IsKind(err, core.ErrKindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
