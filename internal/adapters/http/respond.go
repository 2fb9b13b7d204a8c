package http

import (
	"errors"
	"log"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/gofiber/fiber/v2"
)

// respondData sends the success envelope with a data payload
func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondMessage sends the success envelope with a message only
func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// respondError maps a core error kind to its HTTP status. Internal error
// details are logged, never sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	kind := core.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	var domainErr *core.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	if kind == core.ErrKindInternal {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func statusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.ErrKindValidation:
		return fiber.StatusBadRequest
	case core.ErrKindNotFound:
		return fiber.StatusNotFound
	case core.ErrKindConflict, core.ErrKindInvalidState:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// saleItemPayload accepts a sale line in either the canonical field names or
// the salePriceIncTax/price and quantity aliases older till clients send.
type saleItemPayload struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	UnitPrice       float64  `json:"unit_price"`
	SalePriceIncTax *float64 `json:"salePriceIncTax"`
	Price           *float64 `json:"price"`
	Qty             int      `json:"qty"`
	Quantity        *int     `json:"quantity"`
}

func (p saleItemPayload) toDomain() core.TransactionItem {
	unitPrice := p.UnitPrice
	if unitPrice == 0 {
		switch {
		case p.SalePriceIncTax != nil:
			unitPrice = *p.SalePriceIncTax
		case p.Price != nil:
			unitPrice = *p.Price
		}
	}

	qty := p.Qty
	if qty == 0 && p.Quantity != nil {
		qty = *p.Quantity
	}

	return core.TransactionItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		UnitPrice: unitPrice,
		Qty:       qty,
	}
}

func saleItemsToDomain(items []saleItemPayload) []core.TransactionItem {
	out := make([]core.TransactionItem, len(items))
	for i, item := range items {
		out[i] = item.toDomain()
	}
	return out
}

// serializeTransaction renders a transaction for API clients. Line items
// carry the canonical unit_price/qty fields plus the salePriceIncTax/price
// and quantity aliases older till clients still read.
func serializeTransaction(tx *core.Transaction) fiber.Map {
	items := make([]fiber.Map, len(tx.Items))
	for i, item := range tx.Items {
		items[i] = fiber.Map{
			"product_id":      item.ProductID,
			"name":            item.Name,
			"unit_price":      item.UnitPrice,
			"salePriceIncTax": item.UnitPrice,
			"price":           item.UnitPrice,
			"qty":             item.Qty,
			"quantity":        item.Qty,
		}
	}

	payload := fiber.Map{
		"id":          tx.ID,
		"tender_type": tx.TenderType,
		"amount_paid": tx.AmountPaid,
		"total":       tx.Total,
		"change_due":  tx.ChangeDue,
		"discount":    tx.Discount,
		"channel":     tx.Channel,
		"location":    tx.Location,
		"device":      tx.Device,
		"status":      tx.Status,
		"items":       items,
		"created_at":  tx.CreatedAt,
	}
	if tx.DiscountReason != "" {
		payload["discount_reason"] = tx.DiscountReason
	}
	if tx.StaffID != nil {
		payload["staff_id"] = *tx.StaffID
		payload["staff_name"] = tx.StaffName
	}
	if tx.TableLabel != "" {
		payload["table_label"] = tx.TableLabel
	}
	if tx.CustomerName != "" {
		payload["customer_name"] = tx.CustomerName
	}
	if tx.Status == core.TransactionStatusRefunded {
		payload["refund_reason"] = tx.RefundReason
		payload["refund_by"] = tx.RefundBy
		payload["refunded_at"] = tx.RefundedAt
	}
	if tx.SourceOrderID != nil {
		payload["source_order_id"] = *tx.SourceOrderID
	}
	return payload
}

func serializeTransactions(txs []*core.Transaction) []fiber.Map {
	out := make([]fiber.Map, len(txs))
	for i, tx := range txs {
		out[i] = serializeTransaction(tx)
	}
	return out
}
