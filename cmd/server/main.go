package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/auth"
	"github.com/touchline/backend/internal/infrastructure/cache"
	"github.com/touchline/backend/internal/infrastructure/config"
	"github.com/touchline/backend/internal/infrastructure/logger"
	"github.com/touchline/backend/internal/infrastructure/persistence"
	"github.com/touchline/backend/internal/infrastructure/storage"
	"github.com/touchline/backend/internal/infrastructure/telemetry"
	"github.com/touchline/backend/internal/interfaces/http/handler"
	"github.com/touchline/backend/internal/interfaces/http/middleware"
	"github.com/touchline/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting Touchline backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	otelProviders, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	catalogMetrics, err := telemetry.NewCatalogMetrics(otelProviders.Meter("touchline/catalog"))
	if err != nil {
		log.Fatal("Failed to create catalog metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.ParseGormLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        dbSystem,
		TracerProvider:  otelProviders.TracerProvider(),
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Public catalog cache
	snapshotCache, closeCache, err := cache.NewSnapshotCacheFactory(cfg.Redis, cfg.Cache, log).CreateCache()
	if err != nil {
		log.Fatal("Failed to create catalog cache", zap.Error(err))
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing catalog cache", zap.Error(err))
		}
	}()

	// Catalog
	catalogService := catalogapp.NewCatalogService(
		persistence.NewCatalogRepositories(db.DB),
		persistence.NewGormTransactor(db.DB),
		log,
		catalogapp.WithSnapshotCache(snapshotCache),
		catalogapp.WithMetrics(catalogMetrics),
	)
	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	err = catalogService.Load(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	// Video storage
	objectStorage, err := newObjectStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize video storage", zap.Error(err))
	}
	videoService := catalogapp.NewVideoService(objectStorage, catalogapp.VideoServiceConfig{
		MaxSize: cfg.Storage.MaxVideoSize,
	}, log)

	// HTTP
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if pinger, ok := snapshotCache.(interface{ Ping(context.Context) error }); ok {
		checks["cache"] = pinger.Ping
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.Env == "production"

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		Verifier:       auth.NewJWTVerifier(cfg.Auth),
		CORS:           cors,
		Security:       security,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		MaxUploadSize:  cfg.Storage.MaxVideoSize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		TracingEnabled: otelProviders.Enabled(),
		ServiceName:    cfg.Telemetry.ServiceName,
		TracerProvider: otelProviders.TracerProvider(),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Public:         handler.NewPublicHandler(catalogService),
		Video:          handler.NewVideoHandler(videoService, catalogService),
		Health:         handler.NewHealthHandler(version, checks),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns the S3 bucket when storage is enabled, creating
// the bucket if needed. Otherwise videos are kept in memory.
func newObjectStorage(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (catalogapp.ObjectStorage, error) {
	if !cfg.Enabled {
		log.Warn("Object storage disabled, keeping videos in memory")
		return storage.NewMemoryObjectStorage(cfg.PublicBaseURL), nil
	}

	s3, err := storage.NewS3ObjectStorage(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(ensureCtx); err != nil {
		return nil, err
	}
	log.Info("Using S3 video storage", zap.String("bucket", s3.Bucket()))
	return s3, nil
}
