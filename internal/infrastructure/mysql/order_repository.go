package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
)

const mysqlErrDuplicateEntry = 1062

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order header and its item rows in one transaction,
// so a partially written order is never visible.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, status, shipping_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, string(order.Status), order.ShippingAddress,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, product_name, quantity, size, color, unit_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.ProductID, item.ProductName, item.Quantity,
			item.Size, item.Color, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, shipping_address, created_at, updated_at
		FROM orders WHERE id = ?`, id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, status, shipping_address, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range out {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, shipping_address = ?, updated_at = ?
		WHERE id = ?`,
		string(order.Status), order.ShippingAddress, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// disambiguate with a lookup.
		if _, getErr := r.GetByID(ctx, order.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, size, color, unit_price
		FROM order_items WHERE order_id = ? ORDER BY position`, order.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ProductID, &item.ProductName, &item.Quantity,
			&item.Size, &item.Color, &item.UnitPrice,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	order.Items = items
	return rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		status    string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&order.ID, &order.UserID, &status, &order.ShippingAddress, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	order.Status = domain.Status(status)
	order.CreatedAt = createdAt
	order.UpdatedAt = updatedAt
	return &order, nil
}
