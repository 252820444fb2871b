// Package cache keeps rendered post listing pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const versionKey = "posts:version"

// New connects to Redis and checks the connection.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// PageCache stores listing pages under a version number. Invalidate bumps
// the version, so stale pages are never read again and expire by TTL.
// GetPage returns the versioned key even on a miss; the page loaded after
// the miss is written under that key, so an Invalidate in between leaves it
// unreachable. Redis failures are logged and treated as cache misses.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logging.Logger
}

func NewPageCache(client *redis.Client, ttl time.Duration, log logging.Logger) *PageCache {
	return &PageCache{client: client, ttl: ttl, log: log.With("module", "cache")}
}

func (c *PageCache) key(ctx context.Context, page, perPage int) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver, err = 0, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("posts:page:%d:%d:%d", ver, perPage, page), nil
}

func (c *PageCache) GetPage(ctx context.Context, page, perPage int) (*models.PostPage, string, bool) {
	key, err := c.key(ctx, page, perPage)
	if err != nil {
		c.log.Warn(ctx, "page cache version", "error", err)
		return nil, "", false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn(ctx, "page cache get", "key", key, "error", err)
		}
		return nil, key, false
	}

	var p models.PostPage
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn(ctx, "page cache decode", "key", key, "error", err)
		return nil, key, false
	}
	return &p, key, true
}

// SetPage stores p under a key returned by GetPage. An empty key is ignored.
func (c *PageCache) SetPage(ctx context.Context, key string, p *models.PostPage) {
	if key == "" {
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		c.log.Warn(ctx, "page cache encode", "error", err)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "page cache set", "key", key, "error", err)
	}
}

func (c *PageCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Warn(ctx, "page cache invalidate", "error", err)
	}
}
