package cart

import (
	"context"
	"fmt"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
)

// Service manages per-user staged carts. All line semantics (merging,
// removal, quantity updates) live on the cart aggregate itself; this service
// only loads and stores it.
type Service struct {
	store Store
	log   observability.Logger
}

func NewService(store Store, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		store: store,
		log:   logger.With(observability.F("service", "cart-service")),
	}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.store.Get(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID string, item domain.Item) (*domain.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	if err := c.AddItem(item); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, size, color string, quantity int) (*domain.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	if err := c.UpdateQuantity(productID, size, color, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID, size, color string) (*domain.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	c.RemoveItem(productID, size, color)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	return c, nil
}

// Clear drops the staged cart entirely.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}
