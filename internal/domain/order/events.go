package order

import "time"

// Event names as seen by outbox subscribers.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// OrderCreatedEvent is a domain event emitted when a new order is created.
// It is intended for downstream consumers such as the warehouse.
type OrderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Total      int64     `json:"total"`
	ItemCount  int       `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OrderCreatedEvent) EventName() string { return EventOrderCreated }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Total:      o.Total(),
		ItemCount:  len(o.Items),
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted after a successful cancellation, once the
// reserved stock has been returned to the catalog.
type OrderCancelledEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OrderCancelledEvent) EventName() string { return EventOrderCancelled }

func NewOrderCancelledEvent(o *Order) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		OccurredAt: time.Now().UTC(),
	}
}
