package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
)

// Carts are session state, so they expire instead of living forever.
const cartTTL = 24 * time.Hour

type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

type cartPayload struct {
	UserID string        `json:"user_id"`
	Items  []itemPayload `json:"items"`
}

type itemPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
}

func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var payload cartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	cart := domain.New(userID)
	for _, item := range payload.Items {
		cart.Items = append(cart.Items, domain.Item{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
		})
	}
	return cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	payload := cartPayload{UserID: cart.UserID, Items: make([]itemPayload, 0, len(cart.Items))}
	for _, item := range cart.Items {
		payload.Items = append(payload.Items, itemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.UserID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return "cart:" + userID
}
