package service

import (
	"context"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/google/uuid"
)

// Tender classifications whose sales produce cash change.
const cashClassification = "cash"

// LedgerService records POS sales and their status transitions
type LedgerService struct {
	txRepo     core.TransactionRepository
	tenderRepo core.TenderRepository
	eventBus   *events.EventBus
}

// NewLedgerService creates a new transaction ledger service
func NewLedgerService(txRepo core.TransactionRepository, tenderRepo core.TenderRepository, eventBus *events.EventBus) *LedgerService {
	return &LedgerService{
		txRepo:     txRepo,
		tenderRepo: tenderRepo,
		eventBus:   eventBus,
	}
}

// SaleInput carries the parameters for recording a sale at a till
type SaleInput struct {
	TillID         string                 `json:"till_id"`
	LocationID     string                 `json:"location_id"`
	Device         string                 `json:"device"`
	TableLabel     string                 `json:"table_label"`
	StaffID        string                 `json:"staff_id"`
	StaffName      string                 `json:"staff_name"`
	TenderType     string                 `json:"tender_type"`
	AmountPaid     float64                `json:"amount_paid"`
	Total          float64                `json:"total"`
	Discount       float64                `json:"discount"`
	DiscountReason string                 `json:"discount_reason"`
	CustomerName   string                 `json:"customer_name"`
	Items          []core.TransactionItem `json:"items"`
}

// RecordSale creates a completed transaction for a POS checkout. Change due
// is computed as amountPaid - total for cash-like tenders only.
func (s *LedgerService) RecordSale(ctx context.Context, input SaleInput) (*core.Transaction, error) {
	return s.record(ctx, input, core.TransactionStatusCompleted)
}

// HoldSale parks a sale for later resume. Same validation as RecordSale.
func (s *LedgerService) HoldSale(ctx context.Context, input SaleInput) (*core.Transaction, error) {
	return s.record(ctx, input, core.TransactionStatusHeld)
}

func (s *LedgerService) record(ctx context.Context, input SaleInput, status core.TransactionStatus) (*core.Transaction, error) {
	if len(input.Items) == 0 {
		return nil, core.Validationf("sale requires at least one item")
	}
	if input.Total <= 0 {
		return nil, core.Validationf("sale total must be greater than zero")
	}
	input.TenderType = strings.TrimSpace(input.TenderType)
	if input.TenderType == "" {
		return nil, core.Validationf("tender type is required")
	}
	if strings.TrimSpace(input.StaffID) == "" {
		return nil, core.Validationf("acting staff is required")
	}

	// A completed sale must be fully paid; held sales may be parked before
	// payment is taken.
	change := 0.0
	if status == core.TransactionStatusCompleted {
		if input.AmountPaid < input.Total {
			return nil, core.Validationf("amount paid cannot be less than the sale total")
		}
		if s.isCashLike(ctx, input.TenderType) {
			change = input.AmountPaid - input.Total
		}
	}

	staffID := strings.TrimSpace(input.StaffID)
	tx := &core.Transaction{
		ID:             uuid.New().String(),
		TenderType:     input.TenderType,
		AmountPaid:     input.AmountPaid,
		Total:          input.Total,
		ChangeDue:      change,
		Discount:       input.Discount,
		DiscountReason: strings.TrimSpace(input.DiscountReason),
		StaffID:        &staffID,
		StaffName:      strings.TrimSpace(input.StaffName),
		Channel:        core.ChannelPOS,
		Location:       strings.TrimSpace(input.LocationID),
		Device:         strings.TrimSpace(input.Device),
		TableLabel:     strings.TrimSpace(input.TableLabel),
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Status:         status,
		Items:          input.Items,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if status == core.TransactionStatusCompleted {
		s.eventBus.PublishSaleRecorded(tx)
	}

	return tx, nil
}

// isCashLike checks the tender's classification. Unknown tenders fall back
// to name matching so a sale is never blocked on registry lookups.
func (s *LedgerService) isCashLike(ctx context.Context, tenderType string) bool {
	tender, err := s.tenderRepo.GetByName(ctx, tenderType)
	if err == nil && tender != nil {
		return strings.EqualFold(tender.Classification, cashClassification)
	}
	return strings.EqualFold(tenderType, cashClassification)
}

// Refund moves a completed transaction to refunded, recording the reason,
// the acting staff, and the refund time in one conditional write.
func (s *LedgerService) Refund(ctx context.Context, transactionID, reason, refundBy string) (*core.Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, core.Validationf("refund reason is required")
	}

	tx, err := s.txRepo.Refund(ctx, transactionID, strings.TrimSpace(reason), refundBy, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.eventBus.PublishSaleRefunded(tx.ID)

	return tx, nil
}

// UpdateStatus applies a general status change, validated against the ledger
// enum. The only transition it performs directly is held→completed; refunds
// must carry a reason and go through Refund.
func (s *LedgerService) UpdateStatus(ctx context.Context, transactionID string, newStatus core.TransactionStatus) (*core.Transaction, error) {
	if !core.ValidTransactionStatus(newStatus) {
		return nil, core.Validationf("unrecognized transaction status %q", newStatus)
	}

	switch newStatus {
	case core.TransactionStatusCompleted:
		return s.txRepo.UpdateStatus(ctx, transactionID, core.TransactionStatusHeld, core.TransactionStatusCompleted)
	case core.TransactionStatusRefunded:
		return nil, core.Validationf("refunds require a reason; use the refund operation")
	default:
		return nil, core.InvalidStatef("cannot move a transaction back to %s", newStatus)
	}
}

// Get returns a transaction by id.
func (s *LedgerService) Get(ctx context.Context, transactionID string) (*core.Transaction, error) {
	return s.txRepo.GetByID(ctx, transactionID)
}

// List returns recent transactions with an optional status filter.
func (s *LedgerService) List(ctx context.Context, status string, limit int) ([]*core.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.txRepo.List(ctx, status, limit)
}
