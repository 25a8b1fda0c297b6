package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/persistence"
	"github.com/touchline/backend/internal/infrastructure/storage"
	"github.com/touchline/backend/internal/interfaces/http/dto"
	"github.com/touchline/backend/internal/interfaces/http/middleware"
	"github.com/touchline/backend/tests/testutil"
	"go.uber.org/zap/zaptest"
)

const testVideoBase = "https://cdn.touchline.test/videos"

// testStack is the catalog API over a migrated sqlite file and in-memory video storage
type testStack struct {
	engine  *gin.Engine
	db      *persistence.Database
	catalog *catalogapp.CatalogService
	storage *storage.MemoryObjectStorage
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	log := zaptest.NewLogger(t)
	catalogService := catalogapp.NewCatalogService(
		persistence.NewCatalogRepositories(db.DB),
		persistence.NewGormTransactor(db.DB),
		log,
	)
	require.NoError(t, catalogService.Load(context.Background()))

	store := storage.NewMemoryObjectStorage(testVideoBase)
	videoService := catalogapp.NewVideoService(store, catalogapp.VideoServiceConfig{MaxSize: 1 << 20}, log)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	ch := NewCatalogHandler(catalogService)
	admin := engine.Group("/admin")
	admin.GET("/catalog", ch.Snapshot)
	admin.POST("/catalog/reload", ch.Reload)
	admin.GET("/catalog/tree", ch.Tree)
	admin.GET("/catalog/stats", ch.Stats)
	admin.GET("/categories", ch.ListCategories)
	admin.POST("/categories", ch.CreateCategory)
	admin.GET("/categories/:id", ch.GetCategory)
	admin.PUT("/categories/:id", ch.UpdateCategory)
	admin.DELETE("/categories/:id", ch.DeleteCategory)
	admin.GET("/skills", ch.ListSkills)
	admin.POST("/skills", ch.CreateSkill)
	admin.GET("/skills/:id", ch.GetSkill)
	admin.PUT("/skills/:id", ch.UpdateSkill)
	admin.DELETE("/skills/:id", ch.DeleteSkill)
	admin.GET("/exercises", ch.ListExercises)
	admin.POST("/exercises", ch.CreateExercise)
	admin.GET("/exercises/:id", ch.GetExercise)
	admin.PUT("/exercises/:id", ch.UpdateExercise)
	admin.DELETE("/exercises/:id", ch.DeleteExercise)

	vh := NewVideoHandler(videoService, catalogService)
	admin.POST("/videos", vh.Upload)
	admin.POST("/videos/presign", vh.Presign)
	admin.DELETE("/videos", vh.Delete)

	ph := NewPublicHandler(catalogService)
	engine.GET("/public/catalog", ph.Catalog)
	engine.GET("/public/skills", ph.ListSkills)
	engine.GET("/public/exercises", ph.ListExercises)

	return &testStack{engine: engine, db: db, catalog: catalogService, storage: store}
}

// do sends a JSON request and decodes the envelope. data, when non-nil,
// receives the envelope's data field.
func (s *testStack) do(t *testing.T, method, path string, body any, data any) (int, dto.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
		if data != nil && len(env.Data) > 0 {
			require.NoError(t, json.Unmarshal(env.Data, data))
		}
	}
	return w.Code, env.Response
}

func (s *testStack) mustCreateCategory(t *testing.T, name string) catalogapp.CategoryResponse {
	t.Helper()
	var out catalogapp.CategoryResponse
	code, resp := s.do(t, http.MethodPost, "/admin/categories", catalogapp.CategoryRequest{Name: name}, &out)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	return out
}

func (s *testStack) mustCreateSkill(t *testing.T, categoryID, name, ageGroup string) catalogapp.SkillResponse {
	t.Helper()
	var out catalogapp.SkillResponse
	code, resp := s.do(t, http.MethodPost, "/admin/skills", map[string]any{
		"category_id": categoryID,
		"name":        name,
		"age_group":   ageGroup,
	}, &out)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	return out
}

func (s *testStack) mustCreateExercise(t *testing.T, name string, difficulty int, skillIDs ...string) catalogapp.ExerciseResponse {
	t.Helper()
	var out catalogapp.ExerciseResponse
	code, resp := s.do(t, http.MethodPost, "/admin/exercises", map[string]any{
		"name":       name,
		"difficulty": difficulty,
		"equipment":  []string{"cones"},
		"skill_ids":  skillIDs,
	}, &out)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	return out
}
