package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const activeOffersKey = "offers:active"

// OfferCache кэширует публичный список активных оферт в Redis.
// Кэш необязателен: при выключенном или недоступном Redis все операции no-op.
type OfferCache struct {
	redisClient *redis.Client
	ttl         time.Duration
	enabled     bool
}

// NewOfferCache создаёт кэш поверх уже установленного соединения с Redis
func NewOfferCache(client *redis.Client) *OfferCache {
	cacheEnabled := os.Getenv("CACHE_ENABLED") == "true"
	if !cacheEnabled || client == nil {
		return &OfferCache{enabled: false}
	}

	// TTL короткий: список активных оферт меняется часто
	ttl := 60
	if val := os.Getenv("OFFERS_CACHE_TTL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return &OfferCache{
		redisClient: client,
		ttl:         time.Duration(ttl) * time.Second,
		enabled:     true,
	}
}

// GetActiveOffers читает закэшированный список из Redis
func (c *OfferCache) GetActiveOffers(ctx context.Context, result interface{}) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	val, err := c.redisClient.Get(ctx, activeOffersKey).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("ошибка при получении данных из кэша: %w", err)
	}

	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("ошибка при десериализации данных из кэша: %w", err)
	}

	return true, nil
}

// SetActiveOffers сохраняет список в кэш
func (c *OfferCache) SetActiveOffers(ctx context.Context, value interface{}) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для кэша: %w", err)
	}

	if err := c.redisClient.Set(ctx, activeOffersKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении данных в кэш: %w", err)
	}

	return nil
}

// Invalidate сбрасывает кэш после любой мутации оферт
func (c *OfferCache) Invalidate(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.redisClient.Del(ctx, activeOffersKey).Err()
}

// Close закрывает соединение с Redis
func (c *OfferCache) Close() error {
	if c.enabled {
		return c.redisClient.Close()
	}
	return nil
}
