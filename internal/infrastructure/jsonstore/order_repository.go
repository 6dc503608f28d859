package jsonstore

import (
	"context"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.data.Orders {
		if rec.ID == order.ID {
			return domain.ErrConflict
		}
	}
	r.store.data.Orders = append(r.store.data.Orders, toOrderRecord(order))
	return r.store.flush()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.data.Orders {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Order, 0)
	for _, rec := range r.store.data.Orders {
		if rec.UserID == userID {
			out = append(out, rec.toDomain())
		}
	}
	return out, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, rec := range r.store.data.Orders {
		if rec.ID == order.ID {
			r.store.data.Orders[i] = toOrderRecord(order)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}
