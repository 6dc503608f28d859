package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
	ErrInvalidStock      = errors.New("catalog: stock must be zero or greater")
)

// InsufficientStockError reports how much stock was available versus requested
// so callers can surface both figures.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("catalog: insufficient stock for product %q: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type Product struct {
	ID           string
	Name         string
	Description  string
	Price        int64 // cents
	Category     string
	Sizes        []string
	Colors       []string
	ImageURL     string
	Stock        int
	Brand        string
	Gender       string
	Rating       float64
	ReviewsCount int
	UpdatedAt    time.Time
}

func New(id, name string, price int64, stock int) (*Product, error) {
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return &Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Stock:     stock,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Available reports whether the product can still be ordered.
func (p *Product) Available() bool {
	return p.Stock > 0
}

func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if strings.EqualFold(s, size) {
			return true
		}
	}
	return false
}

func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// DecreaseStock is the single mutation path that subtracts stock. A failed
// call leaves the stock unchanged, which keeps Stock >= 0 an invariant of
// this one operation.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return &InsufficientStockError{
			ProductID: p.ID,
			Available: p.Stock,
			Requested: quantity,
		}
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

// IncreaseStock restores stock, e.g. when a cancelled order returns its
// quantities. There is no upper bound to enforce.
func (p *Product) IncreaseStock(quantity int) {
	if quantity <= 0 {
		return
	}
	p.Stock += quantity
	p.touch()
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Sizes = append([]string(nil), p.Sizes...)
	clone.Colors = append([]string(nil), p.Colors...)
	return &clone
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}
