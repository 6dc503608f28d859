package order

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	domcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domoutbox "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/outbox"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "order-" + strconv.Itoa(g.n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domoutbox.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

type fixture struct {
	svc       *Service
	products  *memory.ProductRepository
	orders    *memory.OrderRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	publisher := &recordingPublisher{}
	svc := NewService(orders, products, &seqIDGenerator{}, publisher, nil)
	return &fixture{svc: svc, products: products, orders: orders, publisher: publisher}
}

func (f *fixture) seedProduct(t *testing.T, id string, price int64, stock int) {
	t.Helper()
	p, err := domcatalog.New(id, "Produto "+id, price, stock)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func cartWith(userID string, items ...domcart.Item) *domcart.Cart {
	c := domcart.New(userID)
	for _, item := range items {
		if err := c.AddItem(item); err != nil {
			panic(err)
		}
	}
	return c
}

func TestCreateOrderFromCart(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{
		ProductID: "prod-a", ProductName: "Produto prod-a",
		Quantity: 2, Size: "M", Color: "black", UnitPrice: 5000,
	})

	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, int64(10000), o.Total())
	assert.Equal(t, 3, f.stock(t, "prod-a"))

	persisted, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, persisted.ID)
	assert.Equal(t, []string{"order.created"}, f.publisher.names())
}

func TestCreateOrderFromCart_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrderFromCart(context.Background(), domcart.New("user-1"), "Rua A, 1")
	assert.ErrorIs(t, err, domcart.ErrEmptyCart)
}

func TestCreateOrderFromCart_ProductNotFound(t *testing.T) {
	f := newFixture(t)

	c := cartWith("user-1", domcart.Item{ProductID: "ghost", Quantity: 1, UnitPrice: 100})

	_, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)
}

func TestCreateOrderFromCart_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 10)
	f.seedProduct(t, "prod-b", 8000, 1)

	c := cartWith("user-1",
		domcart.Item{ProductID: "prod-a", Quantity: 2, UnitPrice: 5000},
		domcart.Item{ProductID: "prod-b", Quantity: 3, UnitPrice: 8000},
	)

	_, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.ErrorIs(t, err, domcatalog.ErrInsufficientStock)

	// the good line must not have been committed either
	assert.Equal(t, 10, f.stock(t, "prod-a"))
	assert.Equal(t, 1, f.stock(t, "prod-b"))

	orders, err := f.orders.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders, "no order may be persisted when any line fails")
	assert.Empty(t, f.publisher.names())
}

func TestCreateOrderFromCart_InsufficientStockDetails(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 2)

	c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 5, UnitPrice: 5000})

	_, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")

	var insufficient *domcatalog.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "prod-a", insufficient.ProductID)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
}

func TestCreateOrderFromCart_SnapshotsPricing(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{
		ProductID: "prod-a", ProductName: "Produto prod-a",
		Quantity: 1, UnitPrice: 5000,
	})
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)

	// a later catalog price change must not affect the placed order
	p, _ := f.products.GetByID(context.Background(), "prod-a")
	p.Price = 9999
	require.NoError(t, f.products.Update(context.Background(), p))

	persisted, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), persisted.Items[0].UnitPrice)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 2, UnitPrice: 5000})
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, "prod-a"))

	cancelled, err := f.svc.CancelOrder(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, f.stock(t, "prod-a"), "cancellation must reverse exactly the decrement")
	assert.Equal(t, []string{"order.created", "order.cancelled"}, f.publisher.names())

	// cancelling again is an invalid transition
	_, err = f.svc.CancelOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, f.stock(t, "prod-a"), "a failed cancel must not restock again")
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CancelOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelOrder_ShippedIsBlocked(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 1, UnitPrice: 5000})
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)

	stored, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NoError(t, stored.Confirm())
	require.NoError(t, stored.Ship())
	require.NoError(t, f.orders.Update(context.Background(), stored))

	_, err = f.svc.CancelOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 4, f.stock(t, "prod-a"), "blocked cancel must not restock")
}

func TestCancelOrder_MissingProductIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)
	f.seedProduct(t, "prod-b", 8000, 5)

	c := cartWith("user-1",
		domcart.Item{ProductID: "prod-a", Quantity: 1, UnitPrice: 5000},
		domcart.Item{ProductID: "prod-b", Quantity: 2, UnitPrice: 8000},
	)
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)

	// simulate catalog drift: prod-a disappears behind a fresh repository
	products := memory.NewProductRepository()
	pb, err := f.products.GetByID(context.Background(), "prod-b")
	require.NoError(t, err)
	require.NoError(t, products.Create(context.Background(), pb))
	f.svc.products = products

	cancelled, err := f.svc.CancelOrder(context.Background(), o.ID)
	require.NoError(t, err, "a missing product must not fail the cancellation")
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	restocked, err := products.GetByID(context.Background(), "prod-b")
	require.NoError(t, err)
	assert.Equal(t, 5, restocked.Stock)
}

func TestCancelOrder_ConcurrentDoubleCancel(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 2, UnitPrice: 5000})
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, "prod-a"))

	const attempts = 4
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CancelOrder(context.Background(), o.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var success int
	for err := range results {
		if err == nil {
			success++
		} else {
			require.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, success, "exactly one cancellation may win")
	assert.Equal(t, 5, f.stock(t, "prod-a"), "racing cancels must restock exactly once")
}

// failingUpdateRepository delegates to a real repository but rejects stock
// updates for one product id.
type failingUpdateRepository struct {
	domcatalog.Repository
	failID string
}

func (r *failingUpdateRepository) Update(ctx context.Context, p *domcatalog.Product) error {
	if p.ID == r.failID {
		return errors.New("storage unavailable")
	}
	return r.Repository.Update(ctx, p)
}

func TestCancelOrder_RestockFailureIsNotRetryable(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)
	f.seedProduct(t, "prod-b", 8000, 5)

	c := cartWith("user-1",
		domcart.Item{ProductID: "prod-a", Quantity: 1, UnitPrice: 5000},
		domcart.Item{ProductID: "prod-b", Quantity: 2, UnitPrice: 8000},
	)
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)
	require.Equal(t, 4, f.stock(t, "prod-a"))
	require.Equal(t, 3, f.stock(t, "prod-b"))

	f.svc.products = &failingUpdateRepository{Repository: f.products, failID: "prod-b"}

	_, err = f.svc.CancelOrder(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrRepository)

	// The cancellation already persisted before the restock failed, so a
	// retry cannot restock prod-a a second time.
	stored, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	_, err = f.svc.CancelOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, f.stock(t, "prod-a"), "prod-a restocks exactly once across the retry")
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-a", 5000, 5)

	c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 1, UnitPrice: 5000})
	o, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetUserOrders_EmptyIsNotAnError(t *testing.T) {
	f := newFixture(t)

	orders, err := f.svc.GetUserOrders(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestCreateOrderFromCart_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	const stock = 20
	const requests = 50
	f.seedProduct(t, "prod-a", 5000, stock)

	var wg sync.WaitGroup
	results := make(chan error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := cartWith("user-1", domcart.Item{ProductID: "prod-a", Quantity: 1, UnitPrice: 5000})
			_, err := f.svc.CreateOrderFromCart(context.Background(), c, "Rua A, 1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var success int
	for err := range results {
		if err == nil {
			success++
		} else {
			require.ErrorIs(t, err, domcatalog.ErrInsufficientStock)
		}
	}
	assert.Equal(t, stock, success)
	assert.Equal(t, 0, f.stock(t, "prod-a"))
}
