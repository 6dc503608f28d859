package memory

import (
	"context"
	"sync"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
)

// CartStore keeps staged carts per user in memory. Used when no Redis
// session store is configured.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*domain.Cart)}
}

// Get returns the user's staged cart, or a fresh empty one.
func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.carts[userID]; ok {
		return c.Clone(), nil
	}
	return domain.New(userID), nil
}

func (s *CartStore) Save(ctx context.Context, c *domain.Cart) error {
	_ = ctx
	if c == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.UserID] = c.Clone()
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
