package router

import (
	"github.com/gin-gonic/gin"
	"github.com/touchline/backend/internal/infrastructure/logger"
	"github.com/touchline/backend/internal/interfaces/http/handler"
	"github.com/touchline/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineConfig carries everything the HTTP layer needs
type EngineConfig struct {
	Logger         *zap.Logger
	Verifier       middleware.TokenVerifier
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	MaxUploadSize  int64
	TrustedProxies []string

	TracingEnabled bool
	ServiceName    string
	TracerProvider trace.TracerProvider

	Catalog *handler.CatalogHandler
	Public  *handler.PublicHandler
	Video   *handler.VideoHandler
	Health  *handler.HealthHandler
}

const (
	defaultMaxBodySize   = 1 << 20
	defaultMaxUploadSize = 200 << 20
	// multipartOverhead allows for form boundaries and fields around an upload
	multipartOverhead = 1 << 20
)

// NewEngine builds the gin engine with the middleware chain and all routes.
//
// Public:  GET /health, GET /api/v1/public/{catalog,skills,exercises}
// Admin:   /api/v1/admin/catalog/... and /api/v1/admin/videos, JWT + admin role
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	middleware.SetupValidator()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(cfg.Security),
		middleware.CORS(cfg.CORS),
		middleware.Tracing(middleware.TracingConfig{
			Enabled:        cfg.TracingEnabled,
			ServiceName:    cfg.ServiceName,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.SpanAnnotator(),
	)

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Health)
	}

	jsonLimit := middleware.BodyLimit(cfg.MaxBodySize)
	r := NewRouter(engine)

	if cfg.Public != nil {
		public := NewDomainGroup("public", "/public").Use(jsonLimit)
		public.GET("/catalog", cfg.Public.Catalog).
			GET("/skills", cfg.Public.ListSkills).
			GET("/exercises", cfg.Public.ListExercises)
		r.Register(public)
	}

	admin := NewDomainGroup("admin", "/admin").Use(
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{Verifier: cfg.Verifier, Logger: log}),
		middleware.RequireAdmin(),
	)

	if cfg.Catalog != nil {
		h := cfg.Catalog
		catalogRoutes := admin.Group("catalog", "/catalog").Use(jsonLimit)
		catalogRoutes.GET("", h.Snapshot).
			POST("/reload", h.Reload).
			GET("/tree", h.Tree).
			GET("/stats", h.Stats)

		catalogRoutes.Group("categories", "/categories").
			GET("", h.ListCategories).
			POST("", h.CreateCategory).
			GET("/:id", h.GetCategory).
			PUT("/:id", h.UpdateCategory).
			DELETE("/:id", h.DeleteCategory)

		catalogRoutes.Group("skills", "/skills").
			GET("", h.ListSkills).
			POST("", h.CreateSkill).
			GET("/:id", h.GetSkill).
			PUT("/:id", h.UpdateSkill).
			DELETE("/:id", h.DeleteSkill)

		catalogRoutes.Group("exercises", "/exercises").
			GET("", h.ListExercises).
			POST("", h.CreateExercise).
			GET("/:id", h.GetExercise).
			PUT("/:id", h.UpdateExercise).
			DELETE("/:id", h.DeleteExercise)
	}

	if cfg.Video != nil {
		uploadLimit := cfg.MaxUploadSize + multipartOverhead
		admin.Group("videos", "/videos").
			POST("", middleware.BodyLimit(uploadLimit), cfg.Video.Upload).
			POST("/presign", jsonLimit, cfg.Video.Presign).
			DELETE("", jsonLimit, cfg.Video.Delete)
	}

	r.Register(admin)
	r.Setup()
	return engine, nil
}
