package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewTestOrderEvent(t *testing.T) {
	ts := time.Date(2025, 10, 27, 23, 20, 0, 0, time.UTC)
	event := NewTestOrderEvent(ts)

	if event.UserID != "test-user-12345" {
		t.Errorf("expected user_id 'test-user-12345', got '%s'", event.UserID)
	}
	if event.OrderID != "test-order-67890" {
		t.Errorf("expected order_id 'test-order-67890', got '%s'", event.OrderID)
	}
	if event.Amount != 99.99 {
		t.Errorf("expected amount 99.99, got %v", event.Amount)
	}
	if event.Currency != "USD" {
		t.Errorf("expected currency 'USD', got '%s'", event.Currency)
	}
	if !event.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, event.Timestamp)
	}
	if len(event.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(event.Items))
	}
	item := event.Items[0]
	if item.ProductID != "test-product" || item.Quantity != 1 || item.Price != 99.99 {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestOrderEventRoundTrip(t *testing.T) {
	event := NewTestOrderEvent(time.Date(2025, 10, 27, 23, 20, 0, 0, time.UTC))

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	var decoded OrderEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if !reflect.DeepEqual(event, decoded) {
		t.Errorf("round trip mismatch:\n sent: %+v\n got:  %+v", event, decoded)
	}
}

func TestOrderEventWireFormat(t *testing.T) {
	event := NewTestOrderEvent(time.Date(2025, 10, 27, 23, 20, 0, 0, time.UTC))

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal into map: %v", err)
	}

	for _, field := range []string{"user_id", "order_id", "timestamp", "amount", "currency", "items"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing field %q in payload %s", field, data)
		}
	}
	if len(raw) != 6 {
		t.Errorf("expected exactly 6 fields, got %d: %s", len(raw), data)
	}

	if !strings.Contains(string(raw["timestamp"]), "2025-10-27T23:20:00Z") {
		t.Errorf("expected ISO-8601 UTC timestamp, got %s", raw["timestamp"])
	}
	if string(raw["amount"]) != "99.99" {
		t.Errorf("expected amount 99.99 on the wire, got %s", raw["amount"])
	}
}
