package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dumu-tech/duka-pos/internal/adapters/memory"
	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/dumu-tech/duka-pos/internal/middleware"
	"github.com/dumu-tech/duka-pos/internal/service"
	"github.com/gofiber/fiber/v2"
)

type testApp struct {
	app   *fiber.App
	token string
	staff *core.Staff
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	repo := memory.NewRepository()
	eventBus := events.NewEventBus()

	authService := service.NewAuthService(repo.StaffRepository(), "test-secret")
	tillService := service.NewTillService(repo.TillRepository(), repo.StaffRepository(), eventBus, "main-store", true)
	ledgerService := service.NewLedgerService(repo.TransactionRepository(), repo.TenderRepository(), eventBus)
	reconcilService := service.NewReconciliationService(repo.OrderRepository(), repo.TransactionRepository(), eventBus)
	tenderService := service.NewTenderService(repo.TenderRepository(), repo.TenderAssignmentRepository())
	orderService := service.NewOrderService(repo.OrderRepository())
	backoffice := service.NewBackofficeService(repo.CustomerRepository(), repo.ExpenseRepository())

	staff, err := authService.CreateStaff(context.Background(), service.CreateStaffInput{
		Name:  "Amina Odhiambo",
		Email: "amina@duka.test",
		PIN:   "4321",
		Role:  core.StaffRoleManager,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}

	token, _, err := authService.Login(context.Background(), "amina@duka.test", "4321")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	handler := NewHandler(tillService, ledgerService, reconcilService, tenderService,
		orderService, authService, backoffice, eventBus, time.UTC)

	app := fiber.New()
	app.Get("/health", handler.Health)
	app.Post("/api/auth/login", handler.Login)

	api := app.Group("/api", middleware.AuthMiddleware(authService))
	api.Post("/tills", handler.OpenTill)
	api.Get("/tills/:id", handler.GetTill)
	api.Patch("/tills/:id/close", handler.CloseTill)
	api.Post("/transactions", handler.CreateTransaction)
	api.Post("/transactions/from-order", handler.ReconcileOrder)
	api.Get("/transactions/:id", handler.GetTransaction)
	api.Patch("/transactions/:id", handler.UpdateTransaction)
	api.Post("/tenders", handler.CreateTender)
	api.Get("/tenders", handler.ListTenders)
	api.Post("/orders", handler.CreateOrder)

	return &testApp{app: app, token: token, staff: staff}
}

func (ta *testApp) request(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ta.token)

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var parsed map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("parse response %s: %v", raw, err)
		}
	}
	return resp, parsed
}

func dataOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in %v", body)
	}
	return data
}

func TestOpenTillEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.request(t, "POST", "/api/tills", fiber.Map{
		"location_id":     "branch-1",
		"staff_id":        ta.staff.ID,
		"opening_balance": 5000,
		"device":          "TILL-01",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}

	data := dataOf(t, body)
	if data["status"] != "OPEN" {
		t.Fatalf("expected OPEN, got %v", data["status"])
	}
	if _, present := data["closed_at"]; present {
		t.Fatalf("fresh till must not serialize closed_at")
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.request(t, "POST", "/api/tills", fiber.Map{
		"location_id":     "branch-1",
		"staff_id":        ta.staff.ID,
		"opening_balance": -10,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatalf("expected a message in the failure envelope")
	}
}

func TestTransactionItemAliases(t *testing.T) {
	ta := newTestApp(t)

	ta.request(t, "POST", "/api/tenders", fiber.Map{"name": "Cash", "till_order": 1, "classification": "cash"})

	resp, body := ta.request(t, "POST", "/api/transactions", fiber.Map{
		"till_id":     "till-1",
		"location_id": "branch-1",
		"staff_id":    ta.staff.ID,
		"staff_name":  ta.staff.Name,
		"tender_type": "Cash",
		"amount_paid": 2500,
		"total":       2000,
		"items": []fiber.Map{
			{"product_id": "sku-1", "name": "Maize Flour 2kg", "unit_price": 2000, "qty": 1},
		},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}

	data := dataOf(t, body)
	if data["change_due"] != float64(500) {
		t.Fatalf("expected change 500, got %v", data["change_due"])
	}

	items, ok := data["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 serialized item, got %v", data["items"])
	}
	item := items[0].(map[string]interface{})

	// Legacy till clients read salePriceIncTax/price and quantity
	if item["unit_price"] != float64(2000) || item["salePriceIncTax"] != float64(2000) || item["price"] != float64(2000) {
		t.Fatalf("price aliases disagree: %v", item)
	}
	if item["qty"] != float64(1) || item["quantity"] != float64(1) {
		t.Fatalf("quantity aliases disagree: %v", item)
	}
}

func TestLegacyItemFieldsAccepted(t *testing.T) {
	ta := newTestApp(t)

	ta.request(t, "POST", "/api/tenders", fiber.Map{"name": "Cash", "till_order": 1, "classification": "cash"})

	// Older till clients send price/quantity instead of unit_price/qty
	resp, body := ta.request(t, "POST", "/api/transactions", fiber.Map{
		"location_id": "branch-1",
		"staff_id":    ta.staff.ID,
		"tender_type": "Cash",
		"amount_paid": 2500,
		"total":       2000,
		"items": []fiber.Map{
			{"product_id": "sku-1", "name": "Maize Flour 2kg", "price": 2000, "quantity": 1},
		},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}

	data := dataOf(t, body)
	items := data["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["unit_price"] != float64(2000) || item["qty"] != float64(1) {
		t.Fatalf("legacy field names were not mapped onto the item: %v", item)
	}

	// And the salePriceIncTax spelling works too
	resp, body = ta.request(t, "POST", "/api/transactions", fiber.Map{
		"location_id": "branch-1",
		"staff_id":    ta.staff.ID,
		"tender_type": "Cash",
		"amount_paid": 1200,
		"total":       1200,
		"items": []fiber.Map{
			{"product_id": "sku-2", "name": "Sugar 1kg", "salePriceIncTax": 1200, "quantity": 1},
		},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}
	item = dataOf(t, body)["items"].([]interface{})[0].(map[string]interface{})
	if item["unit_price"] != float64(1200) {
		t.Fatalf("salePriceIncTax was not mapped onto unit_price: %v", item)
	}
}

func TestReconcileEndpointIdempotency(t *testing.T) {
	ta := newTestApp(t)

	_, orderBody := ta.request(t, "POST", "/api/orders", fiber.Map{
		"shipping_name":    "Wanjiku Kamau",
		"shipping_email":   "wanjiku@example.com",
		"shipping_phone":   "+254700000001",
		"shipping_address": "Moi Avenue 12",
		"shipping_city":    "Nairobi",
		"subtotal":         7500,
		"items": []fiber.Map{
			{"product_id": "sku-9", "name": "Ceramic Mug", "price": 2500, "quantity": 3},
		},
	})
	orderID := dataOf(t, orderBody)["id"].(string)

	resp, body := ta.request(t, "POST", "/api/transactions/from-order", fiber.Map{"order_id": orderID})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", resp.StatusCode, body)
	}

	data := dataOf(t, body)
	if data["channel"] != "online" || data["source_order_id"] != orderID {
		t.Fatalf("unexpected reconciled transaction: %v", data)
	}
	if _, present := data["staff_id"]; present {
		t.Fatalf("reconciled transactions carry no staff id")
	}

	resp, _ = ta.request(t, "POST", "/api/transactions/from-order", fiber.Map{"order_id": orderID})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate reconciliation, got %d", resp.StatusCode)
	}
}

func TestRefundViaPatch(t *testing.T) {
	ta := newTestApp(t)

	_, saleBody := ta.request(t, "POST", "/api/transactions", fiber.Map{
		"location_id": "branch-1",
		"staff_id":    ta.staff.ID,
		"tender_type": "Cash",
		"amount_paid": 1000,
		"total":       1000,
		"items": []fiber.Map{
			{"product_id": "sku-2", "name": "Sugar 1kg", "unit_price": 1000, "qty": 1},
		},
	})
	txID := dataOf(t, saleBody)["id"].(string)

	// Missing reason is rejected
	resp, _ := ta.request(t, "PATCH", "/api/transactions/"+txID, fiber.Map{"status": "refunded"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without a reason, got %d", resp.StatusCode)
	}

	resp, body := ta.request(t, "PATCH", "/api/transactions/"+txID, fiber.Map{
		"status": "refunded",
		"reason": "damaged packaging",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}

	data := dataOf(t, body)
	if data["status"] != "refunded" {
		t.Fatalf("expected refunded, got %v", data["status"])
	}
	if data["refund_by"] != ta.staff.Name {
		t.Fatalf("expected refund_by from the auth token, got %v", data["refund_by"])
	}
}

func TestAuthRequired(t *testing.T) {
	ta := newTestApp(t)

	req, _ := http.NewRequest("GET", "/api/tenders", nil)
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestLoginEndpoint(t *testing.T) {
	ta := newTestApp(t)

	req, _ := http.NewRequest("POST", "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"amina@duka.test","pin":"4321"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("parse login response: %v", err)
	}
	if token, _ := dataOf(t, body)["token"].(string); token == "" {
		t.Fatalf("expected a token in the login response")
	}

	// Wrong PIN never leaks which part was wrong
	req, _ = http.NewRequest("POST", "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"amina@duka.test","pin":"0000"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on bad credentials, got %d", resp.StatusCode)
	}
}

func TestStreamEventsDeliversPublishedEvents(t *testing.T) {
	bus := events.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(ctx, "dash-1")

	// The event is buffered, then the bus closes the channel; the stream must
	// drain the event before exiting.
	bus.PublishSaleRefunded("tx-9")
	bus.Unsubscribe("dash-1")

	var buf bytes.Buffer
	streamEvents(ctx, cancel, ch, bufio.NewWriter(&buf))

	out := buf.String()
	if !strings.Contains(out, "event: sale_refunded") || !strings.Contains(out, "tx-9") {
		t.Fatalf("expected the published event on the stream, got %q", out)
	}
	if ctx.Err() == nil {
		t.Fatalf("expected the stream to release its subscription on exit")
	}
}

func TestStreamEventsStopsOnCancel(t *testing.T) {
	bus := events.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(ctx, "dash-2")

	done := make(chan struct{})
	go func() {
		var buf bytes.Buffer
		streamEvents(ctx, cancel, ch, bufio.NewWriter(&buf))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stream did not stop after cancellation")
	}
}

func TestHealthEndpoint(t *testing.T) {
	ta := newTestApp(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
