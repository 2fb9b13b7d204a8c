package events

import (
	"context"
	"encoding/json"
	"sync"
)

// EventType represents the type of event
type EventType string

const (
	EventSaleRecorded    EventType = "sale_recorded"
	EventSaleRefunded    EventType = "sale_refunded"
	EventTillOpened      EventType = "till_opened"
	EventTillClosed      EventType = "till_closed"
	EventOrderReconciled EventType = "order_reconciled"
)

// Event represents a server-sent event
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// EventBus manages SSE subscriptions and broadcasts events
type EventBus struct {
	subscribers map[string]chan Event
	mu          sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (eb *EventBus) Subscribe(ctx context.Context, id string) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Create buffered channel to prevent blocking
	ch := make(chan Event, 10)
	eb.subscribers[id] = ch

	// Clean up when context is done
	go func() {
		<-ctx.Done()
		eb.Unsubscribe(id)
	}()

	return ch
}

// Unsubscribe removes a subscriber
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if ch, exists := eb.subscribers[id]; exists {
		close(ch)
		delete(eb.subscribers, id)
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(eventType EventType, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	event := Event{
		Type: eventType,
		Data: data,
	}

	// Send to all subscribers (non-blocking)
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (prevents blocking)
		}
	}
}

// PublishSaleRecorded publishes a sale recorded event
func (eb *EventBus) PublishSaleRecorded(tx interface{}) {
	eb.Publish(EventSaleRecorded, tx)
}

// PublishSaleRefunded publishes a sale refunded event
func (eb *EventBus) PublishSaleRefunded(transactionID string) {
	eb.Publish(EventSaleRefunded, map[string]string{"transaction_id": transactionID})
}

// PublishTillOpened publishes a till opened event
func (eb *EventBus) PublishTillOpened(till interface{}) {
	eb.Publish(EventTillOpened, till)
}

// PublishTillClosed publishes a till closed event
func (eb *EventBus) PublishTillClosed(tillID string, closingBalance float64) {
	eb.Publish(EventTillClosed, map[string]interface{}{
		"till_id":         tillID,
		"closing_balance": closingBalance,
	})
}

// PublishOrderReconciled publishes an order reconciled event
func (eb *EventBus) PublishOrderReconciled(orderID string, transactionID string) {
	eb.Publish(EventOrderReconciled, map[string]string{
		"order_id":       orderID,
		"transaction_id": transactionID,
	})
}

// FormatSSE formats an event as Server-Sent Event string
func FormatSSE(event Event) (string, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return "", err
	}

	return "event: " + string(event.Type) + "\ndata: " + string(data) + "\n\n", nil
}
