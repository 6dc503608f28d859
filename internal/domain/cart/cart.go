package cart

import "errors"

var (
	ErrEmptyCart       = errors.New("cart: cart is empty")
	ErrItemNotFound    = errors.New("cart: item not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
)

// Item is one staged cart line. Two items belong to the same line iff the
// (product id, size, color) triple matches.
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

func (i Item) sameLine(productID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// Cart is request-scoped staging state for one user. No stock is committed
// until the cart is converted into an order.
type Cart struct {
	UserID string
	Items  []Item
}

func New(userID string) *Cart {
	return &Cart{UserID: userID}
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemsCount returns the sum of quantities across all lines.
func (c *Cart) ItemsCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// AddItem merges into an existing line with the same (product, size, color)
// triple, otherwise appends a new one. Duplicate lines never coexist.
func (c *Cart) AddItem(item Item) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i, existing := range c.Items {
		if existing.sameLine(item.ProductID, item.Size, item.Color) {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// RemoveItem deletes the matching line. At most one exists by the merge invariant.
func (c *Cart) RemoveItem(productID, size, color string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.sameLine(productID, size, color) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity of an existing line. A non-positive
// quantity removes the line; a missing line is an error, never a silent add.
func (c *Cart) UpdateQuantity(productID, size, color string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID, size, color)
		return nil
	}
	for i, item := range c.Items {
		if item.sameLine(productID, size, color) {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := &Cart{UserID: c.UserID}
	clone.Items = append([]Item(nil), c.Items...)
	return clone
}
