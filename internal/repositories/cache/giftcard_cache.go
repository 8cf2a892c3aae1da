// Package cache provides the Redis-backed gift card cache. Projected
// cards are stored as JSON under giftcard:<id>; every ledger mutation that
// touches a card invalidates its entry, so a cached card is never stale.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cardvault/internal/models"
)

const (
	giftCardKeyPrefix = "giftcard:"
	defaultTTL        = 5 * time.Minute
)

// GiftCardCache caches projected gift cards in Redis.
type GiftCardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGiftCardCache wraps a Redis client. A zero ttl falls back to the
// default of five minutes.
func NewGiftCardCache(client *redis.Client, ttl time.Duration) *GiftCardCache {
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &GiftCardCache{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis with sane defaults.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (c *GiftCardCache) key(id uint) string {
	return fmt.Sprintf("%s%d", giftCardKeyPrefix, id)
}

// GetGiftCard returns the cached card or an error on miss.
func (c *GiftCardCache) GetGiftCard(ctx context.Context, id uint) (*models.GiftCard, error) {
	val, err := c.client.Get(ctx, c.key(id)).Result()
	if err != nil {
		return nil, err
	}
	var card models.GiftCard
	if err := json.Unmarshal([]byte(val), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// SetGiftCard stores the projected card.
func (c *GiftCardCache) SetGiftCard(ctx context.Context, card *models.GiftCard) error {
	data, err := json.Marshal(card)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(card.ID), data, c.ttl).Err()
}

// InvalidateGiftCard drops the cached entry for a card.
func (c *GiftCardCache) InvalidateGiftCard(ctx context.Context, id uint) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// Noop is the cache used when no Redis address is configured.
type Noop struct{}

func (Noop) GetGiftCard(ctx context.Context, id uint) (*models.GiftCard, error) {
	return nil, redis.Nil
}

func (Noop) SetGiftCard(ctx context.Context, card *models.GiftCard) error { return nil }

func (Noop) InvalidateGiftCard(ctx context.Context, id uint) error { return nil }
