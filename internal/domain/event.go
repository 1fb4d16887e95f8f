package domain

import "time"

// OrderEvent mirrors the payload the checkout service publishes to the
// otel-events hub. Field set and JSON names are part of the wire contract.
type OrderEvent struct {
	UserID    string      `json:"user_id"`
	OrderID   string      `json:"order_id"`
	Timestamp time.Time   `json:"timestamp"`
	Amount    float64     `json:"amount"`
	Currency  string      `json:"currency"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// NewTestOrderEvent returns the fixed probe payload stamped with ts.
func NewTestOrderEvent(ts time.Time) OrderEvent {
	return OrderEvent{
		UserID:    "test-user-12345",
		OrderID:   "test-order-67890",
		Timestamp: ts,
		Amount:    99.99,
		Currency:  "USD",
		Items: []OrderItem{
			{ProductID: "test-product", Quantity: 1, Price: 99.99},
		},
	}
}
