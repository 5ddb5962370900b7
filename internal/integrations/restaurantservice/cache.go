package restaurantservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RestaurantProvider интерфейс источника профилей ресторанов
type RestaurantProvider interface {
	GetRestaurant(ctx context.Context, restaurantID int64) (*Restaurant, error)
}

// CachedClient read-through кэш профилей ресторанов поверх Client.
// Рабочие часы меняются редко, поэтому профиль кэшируется в Redis с
// ограниченным TTL - это и есть гарантированная граница устаревания данных.
// При недоступности Redis запросы идут напрямую в RestaurantService.
type CachedClient struct {
	inner RestaurantProvider
	redis *redis.Client
	ttl   time.Duration
	log   Logger
}

// NewCachedClient оборачивает клиент read-through кэшем
func NewCachedClient(inner RestaurantProvider, rdb *redis.Client, ttl time.Duration, log Logger) *CachedClient {
	return &CachedClient{
		inner: inner,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(restaurantID int64) string {
	return fmt.Sprintf("restaurant:profile:%d", restaurantID)
}

// GetRestaurant возвращает профиль ресторана из кэша или из RestaurantService
func (c *CachedClient) GetRestaurant(ctx context.Context, restaurantID int64) (*Restaurant, error) {
	key := cacheKey(restaurantID)

	cached, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var restaurant Restaurant
		if unmarshalErr := json.Unmarshal(cached, &restaurant); unmarshalErr == nil {
			return &restaurant, nil
		}
		// Битая запись в кэше - удаляем и идём в сервис
		c.log.Warn("restaurantservice cache: corrupted entry for restaurant=%d, dropping", restaurantID)
		_ = c.redis.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("restaurantservice cache: redis get failed for restaurant=%d: %v", restaurantID, err)
	}

	restaurant, err := c.inner.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if body, marshalErr := json.Marshal(restaurant); marshalErr == nil {
		if setErr := c.redis.Set(ctx, key, body, c.ttl).Err(); setErr != nil {
			c.log.Warn("restaurantservice cache: redis set failed for restaurant=%d: %v", restaurantID, setErr)
		}
	}

	return restaurant, nil
}

// Invalidate сбрасывает кэшированный профиль ресторана
func (c *CachedClient) Invalidate(ctx context.Context, restaurantID int64) {
	if err := c.redis.Del(ctx, cacheKey(restaurantID)).Err(); err != nil {
		c.log.Warn("restaurantservice cache: redis del failed for restaurant=%d: %v", restaurantID, err)
	}
}
