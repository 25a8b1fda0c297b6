package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/cache"
	"github.com/touchline/backend/internal/infrastructure/config"
	"github.com/touchline/backend/internal/infrastructure/persistence"
	"github.com/touchline/backend/tests/testutil"
	"go.uber.org/zap/zaptest"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})
	return config.RedisConfig{Enabled: true, Host: host, Port: port}
}

func TestSnapshotCache_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisCfg := startRedis(t)
	cacheCfg := config.CacheConfig{TTL: time.Minute, KeyPrefix: "touchline:test:"}
	ctx := context.Background()

	t.Run("factory picks redis when reachable", func(t *testing.T) {
		c, closeFn, err := cache.NewSnapshotCacheFactory(redisCfg, cacheCfg, zaptest.NewLogger(t)).CreateCache()
		require.NoError(t, err)
		defer func() { _ = closeFn() }()
		_, ok := c.(*cache.RedisSnapshotCache)
		assert.True(t, ok)
	})

	t.Run("public catalog is cached until the next write", func(t *testing.T) {
		redisCache, err := cache.NewRedisSnapshotCache(redisCfg, cacheCfg)
		require.NoError(t, err)
		defer func() { _ = redisCache.Close() }()
		require.NoError(t, redisCache.Ping(ctx))

		db := testutil.NewSQLiteDB(t)
		svc := catalogapp.NewCatalogService(
			persistence.NewCatalogRepositories(db.DB),
			persistence.NewGormTransactor(db.DB),
			zaptest.NewLogger(t),
			catalogapp.WithSnapshotCache(redisCache),
		)
		require.NoError(t, svc.Load(ctx))

		_, err = svc.AddCategory(ctx, catalogapp.CategoryRequest{Name: "Passing"})
		require.NoError(t, err)

		first, err := svc.PublicCatalog(ctx)
		require.NoError(t, err)
		require.Len(t, first.Categories, 1)

		cached, found, err := redisCache.Get(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, first.GeneratedAt.UTC(), cached.GeneratedAt.UTC())

		_, err = svc.AddCategory(ctx, catalogapp.CategoryRequest{Name: "Shooting"})
		require.NoError(t, err)
		_, found, err = redisCache.Get(ctx)
		require.NoError(t, err)
		assert.False(t, found)

		second, err := svc.PublicCatalog(ctx)
		require.NoError(t, err)
		assert.Len(t, second.Categories, 2)
	})
}
