package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
)

// LinkCache wraps a link repository with Redis caching for the resolve path.
type LinkCache struct {
	store   shortener.Repository
	client  *redis.Client
	prefix  string
	hashKey string
	ttl     time.Duration
}

// NewLinkCache creates a Redis-cached repository decorator.
func NewLinkCache(store shortener.Repository, client *redis.Client, ttl time.Duration) *LinkCache {
	return &LinkCache{
		store:   store,
		client:  client,
		prefix:  "link:",
		hashKey: "link_hashes",
		ttl:     ttl,
	}
}

// Insert persists through the underlying store and updates the cache.
// Conflict errors pass through untouched so the service's recovery still
// works behind the decorator.
func (c *LinkCache) Insert(ctx context.Context, link *shortener.Link) error {
	if err := c.store.Insert(ctx, link); err != nil {
		return err
	}

	c.cacheLink(ctx, link)

	return nil
}

// GetByCode retrieves a link by its short code, checking the cache first.
func (c *LinkCache) GetByCode(ctx context.Context, code string) (*shortener.Link, error) {
	if link, err := c.getFromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := c.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, link)

	return link, nil
}

// GetByHash retrieves a link by its content hash, consulting the hash index
// first. A stale index entry falls through to the store.
func (c *LinkCache) GetByHash(ctx context.Context, hash string) (*shortener.Link, error) {
	code, err := c.client.HGet(ctx, c.hashKey, hash).Result()
	if err == nil {
		if link, err := c.getFromCache(ctx, code); err == nil {
			return link, nil
		}
	}

	link, err := c.store.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, link)

	return link, nil
}

// GetByPublicID passes through to the underlying store; the public id is not
// a hot lookup path.
func (c *LinkCache) GetByPublicID(ctx context.Context, publicID string) (*shortener.Link, error) {
	return c.store.GetByPublicID(ctx, publicID)
}

// DeleteExpired prunes through the underlying store and evicts the removed
// codes from the cache so pruned links stop resolving immediately.
func (c *LinkCache) DeleteExpired(ctx context.Context, nowMillis int64) ([]string, error) {
	codes, err := c.store.DeleteExpired(ctx, nowMillis)
	if err != nil {
		return nil, err
	}

	if len(codes) > 0 {
		keys := make([]string, len(codes))
		for i, code := range codes {
			keys[i] = c.prefix + code
		}

		_ = c.client.Del(ctx, keys...).Err()
	}

	return codes, nil
}

func (c *LinkCache) getFromCache(ctx context.Context, code string) (*shortener.Link, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := &shortener.Link{
		PublicID:    result["public_id"],
		ContentHash: result["content_hash"],
		ShortCode:   result["short_code"],
		RawURL:      result["raw_url"],
	}

	if v, ok := result["internal_id"]; ok {
		link.InternalID, _ = strconv.ParseInt(v, 10, 64)
	}

	if v, ok := result["expires_at"]; ok {
		link.ExpiresAt, _ = strconv.ParseInt(v, 10, 64)
	}

	return link, nil
}

func (c *LinkCache) cacheLink(ctx context.Context, link *shortener.Link) {
	pipe := c.client.Pipeline()
	key := c.prefix + link.ShortCode

	pipe.HSet(ctx, key, map[string]interface{}{
		"internal_id":  link.InternalID,
		"public_id":    link.PublicID,
		"content_hash": link.ContentHash,
		"short_code":   link.ShortCode,
		"raw_url":      link.RawURL,
		"expires_at":   link.ExpiresAt,
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	pipe.HSet(ctx, c.hashKey, link.ContentHash, link.ShortCode)

	_, _ = pipe.Exec(ctx)
}

// Shutdown is a no-op; the Redis client is managed by the container.
func (c *LinkCache) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*LinkCache)(nil)
