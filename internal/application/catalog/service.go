package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
)

// Service implements catalog browsing. It never mutates stock; stock
// movement belongs exclusively to the order service.
type Service struct {
	products domain.Repository
	log      observability.Logger
}

func NewService(products domain.Repository, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		products: products,
		log:      logger.With(observability.F("service", "catalog-service")),
	}
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.GetByCategory(ctx, category)
}

func (s *Service) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.products.Search(ctx, query)
}

// Categories returns the sorted distinct categories of the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	seen := make(map[string]struct{})
	for _, p := range products {
		if p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Filter narrows products by multiple optional criteria. A search term takes
// precedence over category as the base result set, matching the behaviour of
// the storefront.
type Filter struct {
	Category string
	Gender   string
	MinPrice *int64
	MaxPrice *int64
	Size     string
	Search   string
}

func (s *Service) FilterProducts(ctx context.Context, f Filter) ([]*domain.Product, error) {
	var (
		products []*domain.Product
		err      error
	)
	switch {
	case f.Search != "":
		products, err = s.products.Search(ctx, f.Search)
	case f.Category != "":
		products, err = s.products.GetByCategory(ctx, f.Category)
	default:
		products, err = s.products.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := products[:0]
	for _, p := range products {
		if f.Gender != "" && !matchesGender(p.Gender, f.Gender) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Size != "" && !p.HasSize(f.Size) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// matchesGender treats "unissex" products as matching any requested gender.
func matchesGender(productGender, wanted string) bool {
	return strings.EqualFold(productGender, wanted) || strings.EqualFold(productGender, "unissex")
}
