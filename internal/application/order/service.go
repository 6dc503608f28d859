package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	domcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domoutbox "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/outbox"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	serviceName         = "order-service"
	useCaseCreateOrder  = "order.create_from_cart"
	useCaseCancelOrder  = "order.cancel"
	useCaseGetOrder     = "order.get"
	useCaseGetUserOrder = "order.get_by_user"
	spanPrefix          = "UC."
	publishPeer         = "outbox"
	publishTimeout      = 300 * time.Millisecond
)

var ErrRepository = errors.New("order: repository failure")

// Service orchestrates cart validation, stock commitment and order
// persistence. It is the only component that moves quantity between
// available stock and a placed order.
type Service struct {
	orders    domain.Repository
	products  domcatalog.Repository
	ids       IDGenerator
	publisher domoutbox.Publisher
	tel       observability.Observability

	productLocks *keyedLocks
	orderLocks   *keyedLocks
	log          observability.Logger

	reqCounter   observability.Counter
	durHistogram observability.Histogram
	extCounter   observability.Counter
	extHistogram observability.Histogram
}

// NewService wires the dependencies explicitly. There is no package-level
// repository state.
func NewService(
	orders domain.Repository,
	products domcatalog.Repository,
	ids IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	return &Service{
		orders:       orders,
		products:     products,
		ids:          ids,
		publisher:    publisher,
		tel:          tel,
		productLocks: newKeyedLocks(),
		orderLocks:   newKeyedLocks(),
		log:          tel.Logger().With(observability.F("service", serviceName)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// CreateOrderFromCart validates every cart line against current stock before
// committing anything. A cart with one good line and one insufficient line
// commits nothing. On success the cart's lines are frozen into order items,
// stock is decremented, and the pending order is persisted.
func (s *Service) CreateOrderFromCart(ctx context.Context, c *domcart.Cart, shippingAddress string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, useCaseCreateOrder,
		attribute.String("order.user_id", c.UserID),
		attribute.Int("order.lines", len(c.Items)),
	)
	defer func() { done(err) }()

	if c.Empty() {
		return nil, domcart.ErrEmptyCart
	}

	productIDs := make([]string, 0, len(c.Items))
	for _, line := range c.Items {
		productIDs = append(productIDs, line.ProductID)
	}

	// The lock scope covers both passes so stock cannot change between
	// validation and commit.
	release := s.productLocks.acquire(productIDs)
	defer release()

	// Validation pass: read-only, all lines checked before any mutation.
	items := make([]domain.Item, 0, len(c.Items))
	for _, line := range c.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("validate line %q: %w", line.ProductID, err)
		}
		if product.Stock < line.Quantity {
			return nil, &domcatalog.InsufficientStockError{
				ProductID: product.ID,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}
		items = append(items, domain.Item{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Size:        line.Size,
			Color:       line.Color,
			UnitPrice:   line.UnitPrice,
		})
	}

	// Commit pass: decrement and persist each product.
	for _, line := range c.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("commit line %q: %w", line.ProductID, err)
		}
		if err := product.DecreaseStock(line.Quantity); err != nil {
			return nil, err
		}
		if err := s.products.Update(ctx, product); err != nil {
			return nil, fmt.Errorf("%w: update product %q: %w", ErrRepository, line.ProductID, err)
		}
	}

	entity, err := domain.New(s.ids.NewID(), c.UserID, items, shippingAddress)
	if err != nil {
		return nil, fmt.Errorf("order: construct: %w", err)
	}
	if err := s.orders.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrRepository, err)
	}

	s.publish(ctx, domain.NewOrderCreatedEvent(entity))

	return entity, nil
}

// CancelOrder transitions the order to cancelled and returns each item's
// quantity to the catalog, the exact inverse of the commit pass. The whole
// sequence runs under a per-order lock, and the cancelled status is persisted
// before any restock: stock may restore at most once per order, no matter how
// many concurrent or retried cancellations race. Restoration is best-effort:
// a product missing from the catalog is logged and skipped.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, useCaseCancelOrder,
		attribute.String("order.id", orderID),
	)
	defer func() { done(err) }()

	// The status check and the restock must be one critical section, or two
	// concurrent cancels of a pending order would both restock.
	releaseOrder := s.orderLocks.acquire([]string{orderID})
	defer releaseOrder()

	entity, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, wrapRepositoryError(err)
	}
	if err := entity.Cancel(); err != nil {
		return nil, err
	}

	// Persist the terminal status first. If a restock below fails, a retry
	// hits InvalidTransition instead of restocking the same items again;
	// partially restored stock is the safe direction, inflated stock is not.
	if err := s.orders.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("%w: update order: %w", ErrRepository, err)
	}

	productIDs := make([]string, 0, len(entity.Items))
	for _, item := range entity.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	release := s.productLocks.acquire(productIDs)
	defer release()

	logger := logctx.FromOr(ctx, s.log)
	for _, item := range entity.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if errors.Is(err, domcatalog.ErrNotFound) {
			// Catalog drift: the product was removed after the order was
			// placed. Keep going, but leave a trace for operators.
			logger.Warn("cancel_restock_skipped",
				observability.F("order_id", entity.ID),
				observability.F("product_id", item.ProductID),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: fetch product %q: %w", ErrRepository, item.ProductID, err)
		}
		product.IncreaseStock(item.Quantity)
		if err := s.products.Update(ctx, product); err != nil {
			return nil, fmt.Errorf("%w: restock product %q: %w", ErrRepository, item.ProductID, err)
		}
	}

	s.publish(ctx, domain.NewOrderCancelledEvent(entity))

	return entity, nil
}

// GetOrder is a plain lookup.
func (s *Service) GetOrder(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	ctx, done := s.begin(ctx, useCaseGetOrder)
	defer func() { done(err) }()

	entity, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, wrapRepositoryError(err)
	}
	return entity, nil
}

// GetUserOrders returns the user's orders, oldest first. A user with no
// orders gets an empty slice, never an error.
func (s *Service) GetUserOrders(ctx context.Context, userID string) (_ []*domain.Order, err error) {
	ctx, done := s.begin(ctx, useCaseGetUserOrder)
	defer func() { done(err) }()

	orders, err := s.orders.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// begin opens a use-case span and returns a completion func that records RED
// metrics and a single structured outcome log.
func (s *Service) begin(ctx context.Context, useCase string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+useCase, attrs...)
	start := time.Now()

	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCase))

	return ctx, func(err error) {
		lat := time.Since(start).Seconds()
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "OK")
		}
		span.End()

		s.reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
		s.durHistogram.Observe(lat,
			observability.L("use_case", useCase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("latency_seconds", lat),
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}
}

// publish forwards a domain event to the outbox with a short deadline.
// Event delivery is best-effort and never fails the business operation.
func (s *Service) publish(ctx context.Context, e domoutbox.Event) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	if err := s.publisher.Publish(pubCtx, e); err != nil {
		outcome = "error"
		logctx.FromOr(ctx, s.log).Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
	s.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", e.EventName()),
		observability.L("outcome", outcome),
	)
	s.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", e.EventName()),
	)
}

func wrapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domcatalog.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}
