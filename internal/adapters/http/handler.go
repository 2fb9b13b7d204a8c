package http

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/dumu-tech/duka-pos/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the back office API
type Handler struct {
	tillService     *service.TillService
	ledgerService   *service.LedgerService
	reconcilService *service.ReconciliationService
	tenderService   *service.TenderService
	orderService    *service.OrderService
	authService     *service.AuthService
	backoffice      *service.BackofficeService
	eventBus        *events.EventBus
	reportLocation  *time.Location
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tillService *service.TillService,
	ledgerService *service.LedgerService,
	reconcilService *service.ReconciliationService,
	tenderService *service.TenderService,
	orderService *service.OrderService,
	authService *service.AuthService,
	backoffice *service.BackofficeService,
	eventBus *events.EventBus,
	reportLocation *time.Location,
) *Handler {
	return &Handler{
		tillService:     tillService,
		ledgerService:   ledgerService,
		reconcilService: reconcilService,
		tenderService:   tenderService,
		orderService:    orderService,
		authService:     authService,
		backoffice:      backoffice,
		eventBus:        eventBus,
		reportLocation:  reportLocation,
	}
}

// Auth

// Login handles staff login
// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		PIN   string `json:"pin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	token, staff, err := h.authService.Login(c.Context(), req.Email, req.PIN)
	if err != nil {
		return respondError(c, err)
	}

	// Set JWT token in HTTP-only cookie
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(12 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return respondData(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"staff": staff,
	})
}

// Logout clears the auth cookie
// POST /api/auth/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
	})
	return respondMessage(c, fiber.StatusOK, "logged out successfully")
}

// Tills

// OpenTill opens a new till session
// POST /api/tills
func (h *Handler) OpenTill(c *fiber.Ctx) error {
	var input service.OpenTillInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	till, err := h.tillService.Open(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, till)
}

// GetTill retrieves a till by id
// GET /api/tills/:id
func (h *Handler) GetTill(c *fiber.Ctx) error {
	till, err := h.tillService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, till)
}

// CloseTill closes a till with its counted closing balance
// PATCH /api/tills/:id/close
func (h *Handler) CloseTill(c *fiber.Ctx) error {
	var req struct {
		ClosingBalance float64 `json:"closing_balance"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	till, err := h.tillService.Close(c.Context(), c.Params("id"), req.ClosingBalance)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, till)
}

// SuspendTill suspends an open till
// PATCH /api/tills/:id/suspend
func (h *Handler) SuspendTill(c *fiber.Ctx) error {
	till, err := h.tillService.Suspend(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, till)
}

// ResumeTill resumes a suspended till
// PATCH /api/tills/:id/resume
func (h *Handler) ResumeTill(c *fiber.Ctx) error {
	till, err := h.tillService.Resume(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, till)
}

// Transactions

// CreateTransaction records a sale. A body status of "held" parks the sale
// instead of completing it. Items are accepted with either the canonical
// field names or the legacy aliases.
// POST /api/transactions
func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req struct {
		service.SaleInput
		Status string            `json:"status"`
		Items  []saleItemPayload `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}
	req.SaleInput.Items = saleItemsToDomain(req.Items)

	var tx *core.Transaction
	var err error
	if req.Status == string(core.TransactionStatusHeld) {
		tx, err = h.ledgerService.HoldSale(c.Context(), req.SaleInput)
	} else {
		tx, err = h.ledgerService.RecordSale(c.Context(), req.SaleInput)
	}
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, serializeTransaction(tx))
}

// GetTransaction retrieves a transaction by id
// GET /api/transactions/:id
func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.ledgerService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, serializeTransaction(tx))
}

// ListTransactions retrieves recent transactions
// GET /api/transactions?status=completed&limit=50
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil {
		limit = 100
	}

	txs, err := h.ledgerService.List(c.Context(), c.Query("status"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, serializeTransactions(txs))
}

// UpdateTransaction changes a transaction's status. A target status of
// "refunded" routes through the refund path and requires a reason; the acting
// staff name comes from the auth token.
// PATCH /api/transactions/:id
func (h *Handler) UpdateTransaction(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	var tx *core.Transaction
	var err error
	if req.Status == string(core.TransactionStatusRefunded) {
		refundBy := fmt.Sprintf("%v", c.Locals("name"))
		tx, err = h.ledgerService.Refund(c.Context(), c.Params("id"), req.Reason, refundBy)
	} else {
		tx, err = h.ledgerService.UpdateStatus(c.Context(), c.Params("id"), core.TransactionStatus(req.Status))
	}
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, serializeTransaction(tx))
}

// ReconcileOrder projects an online order into the transaction ledger
// POST /api/transactions/from-order
func (h *Handler) ReconcileOrder(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}
	if req.OrderID == "" {
		return respondError(c, core.Validationf("order_id is required"))
	}

	tx, err := h.reconcilService.ReconcileOrder(c.Context(), req.OrderID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, serializeTransaction(tx))
}

// Tenders

// CreateTender registers a payment method
// POST /api/tenders
func (h *Handler) CreateTender(c *fiber.Ctx) error {
	var input service.CreateTenderInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	tender, err := h.tenderService.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, tender)
}

// ListTenders retrieves all tenders in till button order
// GET /api/tenders
func (h *Handler) ListTenders(c *fiber.Ctx) error {
	tenders, err := h.tenderService.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, tenders)
}

// GetDeviceTenders retrieves the tender button layout for a device
// GET /api/devices/:id/tenders
func (h *Handler) GetDeviceTenders(c *fiber.Ctx) error {
	ranks, err := h.tenderService.GetDeviceAssignments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"ranks": ranks})
}

// SetDeviceTenders stores the tender button layout for a device
// PUT /api/devices/:id/tenders
func (h *Handler) SetDeviceTenders(c *fiber.Ctx) error {
	var req struct {
		Ranks []int `json:"ranks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	if err := h.tenderService.SetDeviceAssignments(c.Context(), c.Params("id"), req.Ranks); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "tender assignments updated")
}

// Orders

// CreateOrder records an online order
// POST /api/orders
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var input service.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	order, err := h.orderService.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, order)
}

// GetOrder retrieves an order by id
// GET /api/orders/:id
func (h *Handler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, order)
}

// ListOrders retrieves recent orders
// GET /api/orders?status=Pending&limit=50
func (h *Handler) ListOrders(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil {
		limit = 100
	}

	orders, err := h.orderService.List(c.Context(), c.Query("status"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, orders)
}

// UpdateOrderFulfillment changes an order's fulfillment status
// PATCH /api/orders/:id/fulfillment
func (h *Handler) UpdateOrderFulfillment(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	if err := h.orderService.UpdateFulfillment(c.Context(), c.Params("id"), core.FulfillmentStatus(req.Status)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "fulfillment status updated")
}

// MarkOrderPaid marks an order as paid
// PATCH /api/orders/:id/paid
func (h *Handler) MarkOrderPaid(c *fiber.Ctx) error {
	if err := h.orderService.MarkPaid(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "order marked as paid")
}

// Staff

// CreateStaff registers a staff member
// POST /api/staff
func (h *Handler) CreateStaff(c *fiber.Ctx) error {
	var input service.CreateStaffInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	staff, err := h.authService.CreateStaff(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, staff)
}

// ListStaff retrieves all staff
// GET /api/staff
func (h *Handler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.authService.ListStaff(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, staff)
}

// GetStaff retrieves a staff member by id
// GET /api/staff/:id
func (h *Handler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.authService.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, staff)
}

// Customers

// CreateCustomer records a customer
// POST /api/customers
func (h *Handler) CreateCustomer(c *fiber.Ctx) error {
	var input service.CreateCustomerInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	customer, err := h.backoffice.CreateCustomer(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, customer)
}

// ListCustomers retrieves all customers
// GET /api/customers
func (h *Handler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.backoffice.ListCustomers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, customers)
}

// GetCustomer retrieves a customer by id
// GET /api/customers/:id
func (h *Handler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.backoffice.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, customer)
}

// DeleteCustomer removes a customer
// DELETE /api/customers/:id
func (h *Handler) DeleteCustomer(c *fiber.Ctx) error {
	if err := h.backoffice.DeleteCustomer(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "customer deleted")
}

// Expenses

// CreateExpense records an expense
// POST /api/expenses
func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	var input service.CreateExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, core.Validationf("invalid request body"))
	}

	expense, err := h.backoffice.CreateExpense(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, expense)
}

// ListExpenses retrieves all expenses
// GET /api/expenses
func (h *Handler) ListExpenses(c *fiber.Ctx) error {
	expenses, err := h.backoffice.ListExpenses(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, expenses)
}

// DeleteExpense removes an expense
// DELETE /api/expenses/:id
func (h *Handler) DeleteExpense(c *fiber.Ctx) error {
	if err := h.backoffice.DeleteExpense(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "expense deleted")
}

// ExpenseReportPDF renders the expense report as a downloadable PDF
// GET /api/reports/expenses.pdf?from=2026-08-01&to=2026-08-31
func (h *Handler) ExpenseReportPDF(c *fiber.Ctx) error {
	data, filename, err := h.backoffice.GenerateExpenseReportPDF(
		c.Context(), c.Query("from"), c.Query("to"), h.reportLocation)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// SSEEvents handles Server-Sent Events for real-time updates
// GET /api/events
func (h *Handler) SSEEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	// The stream writer runs after this handler returns, so the subscription
	// must outlive the handler: cancel only fires inside the writer loop.
	ctx, cancel := context.WithCancel(context.Background())

	subscriberID := uuid.New().String()
	eventChan := h.eventBus.Subscribe(ctx, subscriberID)

	c.Write([]byte("event: connected\ndata: {\"message\":\"connected\"}\n\n"))

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		streamEvents(ctx, cancel, eventChan, w)
	})

	return nil
}

// streamEvents pumps bus events to an SSE writer until the client disconnects
// (write failure), the subscription channel closes, or ctx is cancelled. It
// releases the subscription on exit.
func streamEvents(ctx context.Context, cancel context.CancelFunc, eventChan <-chan events.Event, w *bufio.Writer) {
	defer cancel()

	// Heartbeat keeps intermediate proxies from closing the stream
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}

			sseData, err := events.FormatSSE(event)
			if err != nil {
				continue
			}

			if _, err := w.Write([]byte(sseData)); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}

		case <-ticker.C:
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Health handles the liveness probe
// GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
