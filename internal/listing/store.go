package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStore persists carts in Redis keyed by session token, so the
// staged cart follows the authenticated session and dies with it.
type CartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, prefix: "cart:", ttl: ttl}
}

// Get loads the cart for token. A missing key yields an empty cart.
func (s *CartStore) Get(ctx context.Context, token string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart get: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	return &cart, nil
}

// Save persists the cart, refreshing its TTL.
func (s *CartStore) Save(ctx context.Context, token string, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+token, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

// Clear drops the cart for token.
func (s *CartStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}
