package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
)

func TestProductRepository_CloneIsolation(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	original := &domcatalog.Product{ID: "p1", Name: "Camiseta", Price: 4990, Stock: 5}
	require.NoError(t, repo.Create(ctx, original))

	// Mutating the caller's copy must not touch the stored state.
	original.Stock = 0

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	got.Stock = 1
	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Stock)
}

func TestProductRepository_Lookups(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domcatalog.Product{
		ID: "p1", Name: "Camiseta Basica", Description: "algodao", Category: "camisetas", Brand: "Hering", Price: 1,
	}))
	require.NoError(t, repo.Create(ctx, &domcatalog.Product{
		ID: "p2", Name: "Vestido Floral", Category: "vestidos", Brand: "Farm", Price: 1,
	}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID, "listing keeps insertion order")

	byCategory, err := repo.GetByCategory(ctx, "CAMISETAS")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "p1", byCategory[0].ID)

	found, err := repo.Search(ctx, "farm")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p2", found[0].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)

	err = repo.Update(ctx, &domcatalog.Product{ID: "missing"})
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)
}

func TestOrderRepository_UserIndex(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	first, err := domorder.New("o1", "u1", []domorder.Item{{ProductID: "p1", Quantity: 1, UnitPrice: 100}}, "x")
	require.NoError(t, err)
	second, err := domorder.New("o2", "u1", []domorder.Item{{ProductID: "p2", Quantity: 1, UnitPrice: 200}}, "x")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.ErrorIs(t, repo.Create(ctx, first), domorder.ErrConflict)

	orders, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID, "orders come back in creation order")

	require.NoError(t, first.Confirm())
	require.NoError(t, repo.Update(ctx, first))

	got, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domorder.StatusConfirmed, got.Status)
}

func TestUserRepository_EmailIndex(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	account := &domuser.User{ID: "u1", Name: "Ana", Email: "Ana@Example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, account))

	duplicate := &domuser.User{ID: "u2", Email: "ana@example.com"}
	assert.ErrorIs(t, repo.Create(ctx, duplicate), domuser.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, "ANA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	// Changing the email re-indexes the account.
	account.Email = "ana.maria@example.com"
	require.NoError(t, repo.Update(ctx, account))

	_, err = repo.GetByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, domuser.ErrNotFound)

	got, err = repo.GetByEmail(ctx, "ana.maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestCartStore_MissingCartIsEmpty(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	cart, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	require.NoError(t, cart.AddItem(domcart.Item{ProductID: "p1", Quantity: 2, UnitPrice: 100}))
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Total())

	require.NoError(t, store.Delete(ctx, "u1"))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
