package cache

import (
	"fmt"

	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SnapshotCacheFactory creates the public catalog cache based on configuration
type SnapshotCacheFactory struct {
	redisConfig config.RedisConfig
	cacheConfig config.CacheConfig
	logger      *zap.Logger
}

// NewSnapshotCacheFactory creates a new factory
func NewSnapshotCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, logger *zap.Logger) *SnapshotCacheFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotCacheFactory{
		redisConfig: redisCfg,
		cacheConfig: cacheCfg,
		logger:      logger,
	}
}

// CreateCache returns a Redis cache when Redis is enabled and reachable.
// Otherwise it returns an in-memory cache, unless Redis is enabled and
// fallback is disabled. The returned close function is never nil.
func (f *SnapshotCacheFactory) CreateCache() (catalogapp.SnapshotCache, func() error, error) {
	noop := func() error { return nil }

	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory catalog cache")
		return NewInMemorySnapshotCache(f.cacheConfig.TTL), noop, nil
	}

	redisCache, err := NewRedisSnapshotCache(f.redisConfig, f.cacheConfig, WithRedisLogger(f.logger.Named("cache")))
	if err == nil {
		f.logger.Info("Using Redis catalog cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, redisCache.Close, nil
	}

	if !f.cacheConfig.FallbackToMemory {
		return nil, noop, fmt.Errorf("Redis required for catalog cache but unavailable: %w", err)
	}

	// Each instance keeps its own copy; writes on another instance are only
	// seen here after the TTL expires.
	f.logger.Warn("Redis unavailable, falling back to in-memory catalog cache",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return NewInMemorySnapshotCache(f.cacheConfig.TTL), noop, nil
}
