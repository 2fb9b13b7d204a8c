package service

import (
	"context"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/google/uuid"
)

// Labels stamped onto reconciled transactions so online sales are
// distinguishable in the unified ledger.
const (
	onlineTenderType = "online"
	onlineLocation   = "online"
	onlineDevice     = "WEB"
)

// ReconciliationService projects paid online orders into the transaction
// ledger so in-person and online sales report from one place.
type ReconciliationService struct {
	orderRepo core.OrderRepository
	txRepo    core.TransactionRepository
	eventBus  *events.EventBus
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(orderRepo core.OrderRepository, txRepo core.TransactionRepository, eventBus *events.EventBus) *ReconciliationService {
	return &ReconciliationService{
		orderRepo: orderRepo,
		txRepo:    txRepo,
		eventBus:  eventBus,
	}
}

// ReconcileOrder converts an online order into a completed ledger
// transaction. Each order reconciles at most once: the transaction's source
// order id is unique, so a repeat call fails with a conflict instead of
// double-counting the sale.
func (s *ReconciliationService) ReconcileOrder(ctx context.Context, orderID string) (*core.Transaction, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.txRepo.FindBySourceOrder(ctx, order.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, core.Conflictf("order %s already reconciled into transaction %s", order.ID, existing.ID)
	}

	items := make([]core.TransactionItem, len(order.Items))
	for i, line := range order.Items {
		items[i] = core.TransactionItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.Price,
			Qty:       line.Quantity,
		}
	}

	sourceOrderID := order.ID
	tx := &core.Transaction{
		ID:            uuid.New().String(),
		TenderType:    onlineTenderType,
		AmountPaid:    order.Total,
		Total:         order.Total,
		Channel:       core.ChannelOnline,
		Location:      onlineLocation,
		Device:        onlineDevice,
		CustomerName:  order.ShippingName,
		Status:        core.TransactionStatusCompleted,
		SourceOrderID: &sourceOrderID,
		Items:         items,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.eventBus.PublishOrderReconciled(order.ID, tx.ID)

	return tx, nil
}
