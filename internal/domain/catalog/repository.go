package catalog

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	GetByCategory(ctx context.Context, category string) ([]*Product, error)
	Search(ctx context.Context, query string) ([]*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
}
