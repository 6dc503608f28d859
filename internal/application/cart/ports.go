package cart

import (
	"context"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
)

// Store holds staged carts between requests. Carts are session state, not
// durable records; implementations may expire them freely.
type Store interface {
	// Get returns the user's staged cart, or an empty cart when none exists.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}
