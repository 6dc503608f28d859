package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrNoItems  = errors.New("order: at least one item is required")
	ErrConflict = errors.New("order: already exists")
)

// Item is an immutable snapshot of a cart line at the moment the order was
// placed. Later catalog changes never affect a placed order.
type Item struct {
	ProductID   string
	ProductName string
	Quantity    int
	Size        string
	Color       string
	UnitPrice   int64 // cents
}

func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID              string
	UserID          string
	Items           []Item
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ShippingAddress string
}

func New(id, userID string, items []Item, shippingAddress string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	now := time.Now().UTC()
	return &Order{
		ID:              id,
		UserID:          userID,
		Items:           append([]Item(nil), items...),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		ShippingAddress: shippingAddress,
	}, nil
}

// Total is always recomputed from the items. They are immutable after
// creation, so no cache invalidation is needed.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
