package jsonstore

import (
	"context"
	"strings"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.data.Products {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.store.data.Products))
	for _, rec := range r.store.data.Products {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Product, 0)
	for _, rec := range r.store.data.Products {
		if strings.EqualFold(rec.Category, category) {
			out = append(out, rec.toDomain())
		}
	}
	return out, nil
}

func (r *ProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	_ = ctx

	q := strings.ToLower(query)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Product, 0)
	for _, rec := range r.store.data.Products {
		if strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.Description), q) ||
			strings.Contains(strings.ToLower(rec.Brand), q) {
			out = append(out, rec.toDomain())
		}
	}
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.Products = append(r.store.data.Products, toProductRecord(product))
	return r.store.flush()
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, rec := range r.store.data.Products {
		if rec.ID == product.ID {
			r.store.data.Products[i] = toProductRecord(product)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}
