package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
)

// Tests are skipped when REDIS_ADDR (e.g. "127.0.0.1:6379") is not set.
func openTestClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCartStore_RoundTrip(t *testing.T) {
	store := NewCartStore(openTestClient(t))
	ctx := context.Background()

	cart, err := store.Get(ctx, "user-roundtrip")
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	require.NoError(t, cart.AddItem(domain.Item{
		ProductID: "p1", ProductName: "Camiseta Basica",
		Quantity: 2, Size: "M", Color: "black", UnitPrice: 4990,
	}))
	require.NoError(t, store.Save(ctx, cart))
	t.Cleanup(func() { store.Delete(ctx, "user-roundtrip") })

	got, err := store.Get(ctx, "user-roundtrip")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(9980), got.Total())
}

func TestCartStore_DeleteClearsCart(t *testing.T) {
	store := NewCartStore(openTestClient(t))
	ctx := context.Background()

	cart := domain.New("user-delete")
	require.NoError(t, cart.AddItem(domain.Item{ProductID: "p1", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, store.Save(ctx, cart))

	require.NoError(t, store.Delete(ctx, "user-delete"))

	got, err := store.Get(ctx, "user-delete")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
