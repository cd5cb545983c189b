package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
	EventOrderDeleted       = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	Items      []LineItem `json:"items"`
	OrderTotal float64    `json:"order_total"`
}

type OrderStatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	Status      Status `json:"status"`
	TrackingURL string `json:"tracking_url,omitempty"`
}

type OrderDeletedPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}
