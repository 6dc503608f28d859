package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string // insertion order for stable listings
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
	}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id].Clone())
	}
	return out, nil
}

func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0)
	for _, id := range r.order {
		if strings.EqualFold(r.products[id].Category, category) {
			out = append(out, r.products[id].Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	_ = ctx

	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0)
	for _, id := range r.order {
		p := r.products[id]
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil || product.ID == "" {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product.Clone()
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		return domain.ErrNotFound
	}
	r.products[product.ID] = product.Clone()
	return nil
}
