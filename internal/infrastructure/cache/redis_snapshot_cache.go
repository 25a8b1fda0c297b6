package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix = "touchline:catalog:"
	defaultTTL       = 5 * time.Minute
	publicCatalogKey = "public"
)

// RedisSnapshotCache stores the public catalog as JSON in Redis
type RedisSnapshotCache struct {
	client     *redis.Client
	ownsClient bool
	key        string
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisSnapshotCacheOption is a functional option for configuring the cache
type RedisSnapshotCacheOption func(*RedisSnapshotCache)

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisSnapshotCacheOption {
	return func(c *RedisSnapshotCache) {
		c.logger = logger
	}
}

// NewRedisSnapshotCache connects to Redis and verifies the connection
func NewRedisSnapshotCache(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...RedisSnapshotCacheOption) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisSnapshotCacheWithClient(client, cacheCfg, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisSnapshotCacheWithClient creates a cache with an existing Redis client.
// The caller keeps ownership of the client.
func NewRedisSnapshotCacheWithClient(client *redis.Client, cacheCfg config.CacheConfig, opts ...RedisSnapshotCacheOption) *RedisSnapshotCache {
	prefix := cacheCfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := cacheCfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &RedisSnapshotCache{
		client: client,
		key:    prefix + publicCatalogKey,
		ttl:    ttl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached catalog. A corrupted entry is deleted and reported as an error.
func (c *RedisSnapshotCache) Get(ctx context.Context) (*catalogapp.PublicCatalog, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var snapshot catalogapp.PublicCatalog
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Error("Failed to unmarshal cached catalog", zap.String("key", c.key), zap.Error(err))
		_ = c.client.Del(ctx, c.key)
		return nil, false, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return &snapshot, true, nil
}

// Set stores the catalog with the configured TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, snapshot *catalogapp.PublicCatalog) error {
	if snapshot == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog in cache: %w", err)
	}
	c.logger.Debug("Cached public catalog", zap.Int("bytes", len(data)), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes the cached catalog
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to delete catalog from cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client if the cache created it
func (c *RedisSnapshotCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisSnapshotCache implements catalogapp.SnapshotCache
var _ catalogapp.SnapshotCache = (*RedisSnapshotCache)(nil)
