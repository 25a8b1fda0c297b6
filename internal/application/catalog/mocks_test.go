package catalog

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/touchline/backend/internal/domain/catalog"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSkillRepository is a mock implementation of SkillRepository
type MockSkillRepository struct {
	mock.Mock
}

func (m *MockSkillRepository) FindAll(ctx context.Context) ([]catalog.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Skill), args.Error(1)
}

func (m *MockSkillRepository) Create(ctx context.Context, skill *catalog.Skill) error {
	args := m.Called(ctx, skill)
	return args.Error(0)
}

func (m *MockSkillRepository) Update(ctx context.Context, skill *catalog.Skill) error {
	args := m.Called(ctx, skill)
	return args.Error(0)
}

func (m *MockSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSkillRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockExerciseRepository is a mock implementation of ExerciseRepository
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) FindAll(ctx context.Context) ([]catalog.Exercise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) Create(ctx context.Context, exercise *catalog.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) Update(ctx context.Context, exercise *catalog.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExerciseRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockExerciseRepository) FindAllSkillLinks(ctx context.Context) ([]catalog.SkillLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SkillLink), args.Error(1)
}

func (m *MockExerciseRepository) ReplaceSkillLinks(ctx context.Context, exerciseID uuid.UUID, skillIDs []uuid.UUID) error {
	args := m.Called(ctx, exerciseID, skillIDs)
	return args.Error(0)
}

func (m *MockExerciseRepository) DeleteSkillLinksForSkills(ctx context.Context, skillIDs []uuid.UUID) error {
	args := m.Called(ctx, skillIDs)
	return args.Error(0)
}

// fakeTransactor runs fn against the mock repositories and counts calls
type fakeTransactor struct {
	repos catalog.Repositories
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos catalog.Repositories) error) error {
	f.calls++
	return fn(ctx, f.repos)
}

// MockSnapshotCache is a mock implementation of SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context) (*PublicCatalog, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*PublicCatalog), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) Set(ctx context.Context, c *PublicCatalog) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSnapshotCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// gatedSnapshotCache keeps one snapshot in memory. Its first Set signals
// entered and then blocks until release is closed.
type gatedSnapshotCache struct {
	mu      sync.Mutex
	stored  *PublicCatalog
	gated   bool
	entered chan struct{}
	release chan struct{}
}

func newGatedSnapshotCache() *gatedSnapshotCache {
	return &gatedSnapshotCache{
		gated:   true,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (c *gatedSnapshotCache) Get(context.Context) (*PublicCatalog, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored, c.stored != nil, nil
}

func (c *gatedSnapshotCache) Set(_ context.Context, public *PublicCatalog) error {
	c.mu.Lock()
	gated := c.gated
	c.gated = false
	c.mu.Unlock()

	if gated {
		close(c.entered)
		<-c.release
	}

	c.mu.Lock()
	c.stored = public
	c.mu.Unlock()
	return nil
}

func (c *gatedSnapshotCache) Invalidate(context.Context) error {
	c.mu.Lock()
	c.stored = nil
	c.mu.Unlock()
	return nil
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockObjectStorage) KeyFromURL(rawURL string) (string, bool) {
	args := m.Called(rawURL)
	return args.String(0), args.Bool(1)
}

// recordingMetrics captures metric calls
type recordingMetrics struct {
	mutations []string
	orphaned  int
}

func (r *recordingMetrics) RecordMutation(_ context.Context, entity, action string) {
	r.mutations = append(r.mutations, entity+"."+action)
}

func (r *recordingMetrics) RecordOrphanedExercises(_ context.Context, count int) {
	r.orphaned += count
}
