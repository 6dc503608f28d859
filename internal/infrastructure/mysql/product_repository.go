package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, category, sizes, colors, image_url, stock, brand, gender, rating, reviews_count`

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE LOWER(category) = LOWER(?) ORDER BY name`, category)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?
		ORDER BY name`, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category,
		joinList(p.Sizes), joinList(p.Colors), p.ImageURL,
		p.Stock, p.Brand, p.Gender, p.Rating, p.ReviewsCount,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, category = ?, sizes = ?, colors = ?,
		    image_url = ?, stock = ?, brand = ?, gender = ?, rating = ?, reviews_count = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Category,
		joinList(p.Sizes), joinList(p.Colors), p.ImageURL,
		p.Stock, p.Brand, p.Gender, p.Rating, p.ReviewsCount,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p             domain.Product
		sizes, colors string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&sizes, &colors, &p.ImageURL, &p.Stock, &p.Brand, &p.Gender,
		&p.Rating, &p.ReviewsCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Sizes = splitList(sizes)
	p.Colors = splitList(colors)
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// sizes and colors are small fixed vocabularies, stored comma-separated.
func joinList(values []string) string {
	return strings.Join(values, ",")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
