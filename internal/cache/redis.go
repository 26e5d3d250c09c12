package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m2gi/ecom/internal/models"
)

const DefaultTTL = 15 * time.Minute

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, baseTTL: ttl}
}

func (r *RedisCache) Get(ctx context.Context, login string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(login)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	cart.LinkLines()
	return &cart, nil
}

// Set spreads expirations with up to a quarter of the base TTL of jitter.
func (r *RedisCache) Set(ctx context.Context, login string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	ttl := r.baseTTL
	if quarter := int64(ttl / 4); quarter > 0 {
		ttl += time.Duration(rand.Int64N(quarter))
	}
	if err := r.client.Set(ctx, cacheKey(login), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, login string) error {
	if err := r.client.Del(ctx, cacheKey(login)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(login string) string {
	return "cart:" + login
}
