package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
)

// openTestDB connects using MYSQL_DSN, e.g.
// "root:root@tcp(127.0.0.1:3306)/fashionstore_test?parseTime=true".
// Tests are skipped when the variable is not set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set, skipping mysql integration tests")
	}

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			price BIGINT NOT NULL,
			category VARCHAR(64) NOT NULL,
			sizes VARCHAR(255) NOT NULL,
			colors VARCHAR(255) NOT NULL,
			image_url VARCHAR(512) NOT NULL,
			stock INT NOT NULL,
			brand VARCHAR(128) NOT NULL,
			gender VARCHAR(32) NOT NULL,
			rating DOUBLE NOT NULL,
			reviews_count INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			status VARCHAR(32) NOT NULL,
			shipping_address VARCHAR(512) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_orders_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id VARCHAR(64) NOT NULL,
			position INT NOT NULL,
			product_id VARCHAR(64) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			size VARCHAR(16) NOT NULL,
			color VARCHAR(32) NOT NULL,
			unit_price BIGINT NOT NULL,
			PRIMARY KEY (order_id, position)
		)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	for _, table := range []string{"order_items", "orders", "products"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return db
}

func TestProductRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &domcatalog.Product{
		ID: "p1", Name: "Camiseta Basica", Description: "algodao",
		Price: 4990, Category: "camisetas",
		Sizes: []string{"M", "G"}, Colors: []string{"black", "white"},
		Stock: 10, Brand: "Hering", Gender: "masculino",
	}
	require.NoError(t, repo.Create(ctx, product))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4990), got.Price)
	assert.Equal(t, []string{"M", "G"}, got.Sizes)

	got.Stock = 7
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	byCategory, err := repo.GetByCategory(ctx, "CAMISETAS")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	found, err := repo.Search(ctx, "hering")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)
}

func TestOrderRepository_CreateAndUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order, err := domorder.New("o1", "u1", []domorder.Item{
		{ProductID: "p1", ProductName: "Camiseta Basica", Quantity: 2, Size: "M", Color: "black", UnitPrice: 4990},
		{ProductID: "p2", ProductName: "Vestido Floral", Quantity: 1, Size: "P", Color: "red", UnitPrice: 12990},
	}, "Rua A, 1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	assert.ErrorIs(t, repo.Create(ctx, order), domorder.ErrConflict)

	got, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, int64(22970), got.Total())

	require.NoError(t, got.Confirm())
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domorder.StatusConfirmed, got.Status)

	byUser, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	missing := *order
	missing.ID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, &missing), domorder.ErrNotFound)
}
