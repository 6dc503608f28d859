package cart

import (
	"context"
	"testing"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSession(t *testing.T) {
	svc := NewService(memory.NewCartStore(), nil)
	ctx := context.Background()

	// a user with no session gets an empty cart
	c, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	_, err = svc.AddItem(ctx, "user-1", domain.Item{
		ProductID: "p1", ProductName: "Camiseta", Quantity: 2, Size: "M", Color: "black", UnitPrice: 4990,
	})
	require.NoError(t, err)

	// merging goes through the aggregate and persists
	c, err = svc.AddItem(ctx, "user-1", domain.Item{
		ProductID: "p1", Quantity: 1, Size: "M", Color: "black", UnitPrice: 4990,
	})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.UpdateQuantity(ctx, "user-1", "p1", "M", "black", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)

	c, err = svc.RemoveItem(ctx, "user-1", "p1", "M", "black")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	svc := NewService(memory.NewCartStore(), nil)

	_, err := svc.UpdateQuantity(context.Background(), "user-1", "ghost", "M", "black", 2)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestClear(t *testing.T) {
	svc := NewService(memory.NewCartStore(), nil)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", domain.Item{ProductID: "p1", Quantity: 1, UnitPrice: 100})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "user-1"))
	require.NoError(t, svc.Clear(ctx, "user-1"), "clear is idempotent")

	c, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
