package events

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := bus.Subscribe(ctx, "sub-1")
	bus.PublishTillClosed("till-1", 12000)

	select {
	case event := <-ch:
		if event.Type != EventTillClosed {
			t.Fatalf("expected %s, got %s", EventTillClosed, event.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()

	ch := bus.Subscribe(context.Background(), "sub-1")
	bus.Unsubscribe("sub-1")

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.PublishSaleRefunded("tx-1")
}

func TestFormatSSE(t *testing.T) {
	line, err := FormatSSE(Event{Type: EventSaleRecorded, Data: map[string]string{"id": "tx-1"}})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	want := "event: sale_recorded\ndata: {\"id\":\"tx-1\"}\n\n"
	if line != want {
		t.Fatalf("unexpected SSE payload:\n%q\nwant:\n%q", line, want)
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus.Subscribe(ctx, "slow")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			bus.PublishSaleRecorded(map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber channel")
	}
}
