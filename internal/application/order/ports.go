package order

// IDGenerator produces identities for new orders.
type IDGenerator interface {
	NewID() string
}
