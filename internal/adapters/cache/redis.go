// Package cache holds the Redis-backed read-through cache for affiliate
// links. Referral capture sits on every tagged product view, so the hot path
// avoids a store round trip per click.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sellforge/marketplace/internal/domain"
)

func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type RedisLinkCache struct {
	client *redis.Client
}

func NewRedisLinkCache(client *redis.Client) *RedisLinkCache {
	return &RedisLinkCache{client: client}
}

func linkKey(refCode string) string {
	return "marketplace:link:" + refCode
}

func (c *RedisLinkCache) GetLink(ctx context.Context, refCode string) (domain.AffiliateLink, bool, error) {
	raw, err := c.client.Get(ctx, linkKey(refCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AffiliateLink{}, false, nil
	}
	if err != nil {
		return domain.AffiliateLink{}, false, err
	}
	var link domain.AffiliateLink
	if err := json.Unmarshal(raw, &link); err != nil {
		// A corrupt entry reads as a miss; the store copy is authoritative.
		return domain.AffiliateLink{}, false, nil
	}
	return link, true, nil
}

func (c *RedisLinkCache) SetLink(ctx context.Context, link domain.AffiliateLink, ttl time.Duration) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, linkKey(link.RefCode), raw, ttl).Err()
}
